// Package hallticket renders admission documents for approved
// registrations.  A ticket is generated once at approval time, written
// under the storage directory and served statically; only its URL is
// stored on the registration row.
package hallticket

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Ticket carries the resolved details printed on a hall ticket.
type Ticket struct {
	ApplicationID    string
	StudentName      string
	StudentEmail     string
	ExamName         string
	ExamDate         string
	ExamTime         string // fixed or student-selected start time, "HH:MM"
	Mode             string
	DurationMinutes  uint32
	AssignedLocation string // offline only
	SeatNumber       uint32 // offline only, 0 when online
}

// Generator writes ticket PDFs under Dir and builds their public URLs
// from BaseURL.
type Generator struct {
	Dir     string
	BaseURL string
}

// NewGenerator returns a Generator rooted at dir.  The tickets
// subdirectory is created lazily on first generation.
func NewGenerator(dir, baseURL string) *Generator {
	return &Generator{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Generate renders the ticket to <dir>/tickets/<application id>.pdf and
// returns the URL under which the file is served.
func (g *Generator) Generate(t Ticket) (string, error) {
	ticketDir := filepath.Join(g.Dir, "tickets")
	if err := os.MkdirAll(ticketDir, 0o755); err != nil {
		return "", fmt.Errorf("create ticket dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Hall Ticket "+t.ApplicationID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Examination Hall Ticket", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Application ID: "+t.ApplicationID, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "1", 1, "L", false, 0, "")
	}

	row("Candidate", t.StudentName)
	row("Email", t.StudentEmail)
	row("Exam", t.ExamName)
	row("Date", t.ExamDate)
	if t.ExamTime != "" {
		row("Time", t.ExamTime)
	}
	row("Duration", fmt.Sprintf("%d minutes", t.DurationMinutes))
	row("Mode", t.Mode)
	if t.AssignedLocation != "" {
		row("Location", t.AssignedLocation)
		row("Seat", fmt.Sprintf("%d", t.SeatNumber))
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5,
		"Bring this ticket and a government-issued photo ID to the examination. "+
			"Arrive at least 30 minutes before the scheduled start time.",
		"", "L", false)

	name := t.ApplicationID + ".pdf"
	path := filepath.Join(ticketDir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write ticket pdf: %w", err)
	}
	return g.BaseURL + "/tickets/" + name, nil
}
