package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-registration/internal/model"
)

func TestValidExamTime(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"08:00", true},
		{"09:30", true},
		{"16:59", true},
		{"12:00", true},
		{"07:59", false},
		{"17:00", false},
		{"23:30", false},
		{"25:99", false},
		{"9:30am", false},
		{"abc", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, validExamTime(c.in), "input %q", c.in)
	}
}

func TestFirstAvailablePrefersEarlierChoice(t *testing.T) {
	locs := []model.ExamLocation{
		{Name: "Campus A", TotalSeats: 100, FilledSeats: 40},
		{Name: "Campus B", TotalSeats: 50, FilledSeats: 0},
	}
	got, ok := firstAvailable([]string{"Campus A", "Campus B"}, locs)
	require.True(t, ok)
	assert.Equal(t, "Campus A", got.Name)
}

func TestFirstAvailableSkipsFullVenue(t *testing.T) {
	locs := []model.ExamLocation{
		{Name: "Campus A", TotalSeats: 1, FilledSeats: 1},
		{Name: "Campus B", TotalSeats: 50, FilledSeats: 49},
	}
	got, ok := firstAvailable([]string{"Campus A", "Campus B"}, locs)
	require.True(t, ok)
	assert.Equal(t, "Campus B", got.Name)
}

func TestFirstAvailableSkipsUnknownVenue(t *testing.T) {
	locs := []model.ExamLocation{
		{Name: "Campus B", TotalSeats: 10, FilledSeats: 0},
	}
	got, ok := firstAvailable([]string{"Closed Campus", "Campus B"}, locs)
	require.True(t, ok)
	assert.Equal(t, "Campus B", got.Name)
}

func TestFirstAvailableAllFull(t *testing.T) {
	locs := []model.ExamLocation{
		{Name: "Campus A", TotalSeats: 2, FilledSeats: 2},
		{Name: "Campus B", TotalSeats: 3, FilledSeats: 3},
	}
	_, ok := firstAvailable([]string{"Campus A", "Campus B"}, locs)
	assert.False(t, ok)
}

func TestFirstAvailableEmptyPreferences(t *testing.T) {
	locs := []model.ExamLocation{
		{Name: "Campus A", TotalSeats: 10, FilledSeats: 0},
	}
	_, ok := firstAvailable(nil, locs)
	assert.False(t, ok)
}
