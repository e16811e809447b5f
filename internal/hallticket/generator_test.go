package hallticket

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesPDFAndBuildsURL(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, "http://localhost:8080/")

	url, err := g.Generate(Ticket{
		ApplicationID:    "5f0c2c1e-0000-4000-8000-000000000001",
		StudentName:      "Jane Roe",
		StudentEmail:     "jane@example.com",
		ExamName:         "Mathematics Finals",
		ExamDate:         "12 Oct 2026",
		ExamTime:         "09:00",
		Mode:             "OFFLINE",
		DurationMinutes:  180,
		AssignedLocation: "Campus A",
		SeatNumber:       17,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/tickets/5f0c2c1e-0000-4000-8000-000000000001.pdf", url)

	path := filepath.Join(dir, "tickets", "5f0c2c1e-0000-4000-8000-000000000001.pdf")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	head := make([]byte, 5)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}

func TestGenerateOnlineTicketOmitsSeatRow(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, "http://localhost:8080")

	url, err := g.Generate(Ticket{
		ApplicationID:   "online-app",
		StudentName:     "John Roe",
		StudentEmail:    "john@example.com",
		ExamName:        "Remote Logic Test",
		ExamDate:        "01 Nov 2026",
		ExamTime:        "14:30",
		Mode:            "ONLINE",
		DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/tickets/online-app.pdf", url)

	_, err = os.Stat(filepath.Join(dir, "tickets", "online-app.pdf"))
	require.NoError(t, err)
}
