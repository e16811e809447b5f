package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusRejected, false},
		{StatusPending, StatusPending, false},
		{"", StatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestExamLocationHasSpace(t *testing.T) {
	assert.True(t, ExamLocation{TotalSeats: 10, FilledSeats: 9}.HasSpace())
	assert.False(t, ExamLocation{TotalSeats: 10, FilledSeats: 10}.HasSpace())
	assert.False(t, ExamLocation{TotalSeats: 0, FilledSeats: 0}.HasSpace())
}

func TestUserDetailsComplete(t *testing.T) {
	assert.True(t, UserDetails{FullName: "Jane Roe", Phone: "555-0100"}.Complete())
	assert.False(t, UserDetails{FullName: "Jane Roe"}.Complete())
	assert.False(t, UserDetails{Phone: "555-0100"}.Complete())
	assert.False(t, UserDetails{}.Complete())
}
