package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/exam-registration/internal/model"
)

// RegistrationRepo provides CRUD and review operations for
// registrations.  Creation and seat claiming share one transaction so
// a failed insert can never leave a phantom occupied seat; review
// decisions are conditional UPDATEs on status='PENDING' so a decided
// registration cannot be decided twice.
type RegistrationRepo struct{ DB *sql.DB }

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{DB: db} }

// displayDate is the layout used when exam dates are rendered for
// listings.  Times are returned raw ("HH:MM").
const displayDate = "02 Jan 2006"

// CreateTx inserts a new registration within the given transaction and
// populates the generated ID and applied_at timestamp.  The unique
// (user_id, exam_id) index backstops the handler's duplicate pre-check;
// a violation is mapped to ErrAlreadyRegistered.
func (r *RegistrationRepo) CreateTx(ctx context.Context, tx *sql.Tx, reg *model.Registration) error {
	const q = `INSERT INTO registrations
	             (application_id, user_id, exam_id, mode, assigned_location, seat_number, selected_exam_time, status)
	           VALUES (?,?,?,?,?,?,?,?)`
	var loc, seat, sel interface{}
	if reg.AssignedLocation != nil {
		loc = *reg.AssignedLocation
	}
	if reg.SeatNumber != nil {
		seat = *reg.SeatNumber
	}
	if reg.SelectedExamTime != nil {
		sel = *reg.SelectedExamTime
	}
	res, err := tx.ExecContext(ctx, q,
		reg.ApplicationID, reg.UserID, reg.ExamID, reg.Mode, loc, seat, sel, reg.Status)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyRegistered
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	// Query back applied_at to return the DB-assigned timestamp.
	const sel2 = `SELECT applied_at FROM registrations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel2, reg.ID).Scan(&reg.AppliedAt)
}

// ExistsForUserExam reports whether the student already holds a
// registration for the exam.
func (r *RegistrationRepo) ExistsForUserExam(ctx context.Context, userID, examID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM registrations WHERE user_id=? AND exam_id=? LIMIT 1",
		userID, examID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const registrationColumns = `id, application_id, user_id, exam_id, mode,
	assigned_location, seat_number, selected_exam_time, status,
	rejection_reason, hall_ticket_url, applied_at, reviewed_at`

func scanRegistration(row interface{ Scan(...interface{}) error }) (model.Registration, error) {
	var reg model.Registration
	var loc, sel, reason, ticket sql.NullString
	var seat sql.NullInt64
	var reviewed sql.NullTime
	err := row.Scan(&reg.ID, &reg.ApplicationID, &reg.UserID, &reg.ExamID, &reg.Mode,
		&loc, &seat, &sel, &reg.Status, &reason, &ticket, &reg.AppliedAt, &reviewed)
	if err != nil {
		return reg, err
	}
	if loc.Valid {
		v := loc.String
		reg.AssignedLocation = &v
	}
	if seat.Valid {
		v := uint32(seat.Int64)
		reg.SeatNumber = &v
	}
	if sel.Valid {
		v := sel.String
		reg.SelectedExamTime = &v
	}
	if reason.Valid {
		v := reason.String
		reg.RejectionReason = &v
	}
	if ticket.Valid {
		v := ticket.String
		reg.HallTicketURL = &v
	}
	if reviewed.Valid {
		t := reviewed.Time
		reg.ReviewedAt = &t
	}
	return reg, nil
}

// GetByApplicationID returns the registration identified by its
// externally-facing application id.  sql.ErrNoRows when absent.
func (r *RegistrationRepo) GetByApplicationID(ctx context.Context, appID string) (model.Registration, error) {
	return scanRegistration(r.DB.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE application_id=? LIMIT 1`, appID))
}

// GetByApplicationIDTx is GetByApplicationID inside a transaction, used
// by the review and cancellation flows that must observe and mutate the
// row atomically.  FOR UPDATE serialises concurrent reviewers.
func (r *RegistrationRepo) GetByApplicationIDTx(ctx context.Context, tx *sql.Tx, appID string) (model.Registration, error) {
	return scanRegistration(tx.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE application_id=? LIMIT 1 FOR UPDATE`, appID))
}

// RegistrationDetail is a registration joined with exam metadata for
// student-facing listings.  The exam date is pre-formatted for display;
// times stay raw.
type RegistrationDetail struct {
	ApplicationID    string  `json:"application_id"`
	ExamID           uint64  `json:"exam_id"`
	ExamName         string  `json:"exam_name"`
	ExamDate         string  `json:"exam_date"`
	ExamTime         *string `json:"exam_time,omitempty"`
	Category         string  `json:"category"`
	Mode             string  `json:"mode"`
	AssignedLocation *string `json:"assigned_location,omitempty"`
	SeatNumber       *uint32 `json:"seat_number,omitempty"`
	SelectedExamTime *string `json:"selected_exam_time,omitempty"`
	Status           string  `json:"status"`
	RejectionReason  *string `json:"rejection_reason,omitempty"`
	HallTicketURL    *string `json:"hall_ticket_url,omitempty"`
	AppliedAt        string  `json:"applied_at"`
}

func scanDetail(row interface{ Scan(...interface{}) error }) (RegistrationDetail, error) {
	var d RegistrationDetail
	var examDate, appliedAt time.Time
	var examTime, loc, sel, reason, ticket sql.NullString
	var seat sql.NullInt64
	err := row.Scan(&d.ApplicationID, &d.ExamID, &d.ExamName, &examDate, &examTime,
		&d.Category, &d.Mode, &loc, &seat, &sel, &d.Status, &reason, &ticket, &appliedAt)
	if err != nil {
		return d, err
	}
	d.ExamDate = examDate.Format(displayDate)
	d.AppliedAt = appliedAt.UTC().Format(time.RFC3339)
	if examTime.Valid {
		v := examTime.String
		d.ExamTime = &v
	}
	if loc.Valid {
		v := loc.String
		d.AssignedLocation = &v
	}
	if seat.Valid {
		v := uint32(seat.Int64)
		d.SeatNumber = &v
	}
	if sel.Valid {
		v := sel.String
		d.SelectedExamTime = &v
	}
	if reason.Valid {
		v := reason.String
		d.RejectionReason = &v
	}
	if ticket.Valid {
		v := ticket.String
		d.HallTicketURL = &v
	}
	return d, nil
}

const detailQuery = `SELECT r.application_id, r.exam_id, e.name, e.exam_date, e.exam_time,
	       e.category, r.mode, r.assigned_location, r.seat_number, r.selected_exam_time,
	       r.status, r.rejection_reason, r.hall_ticket_url, r.applied_at
	FROM registrations r
	JOIN exams e ON e.id = r.exam_id`

// ListByUser returns the student's registrations joined with exam
// metadata, newest first.  An empty slice is returned when the student
// has not registered for anything.
func (r *RegistrationRepo) ListByUser(ctx context.Context, userID uint64) ([]RegistrationDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		detailQuery+` WHERE r.user_id = ? ORDER BY r.applied_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]RegistrationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// GetDetailForUser returns one registration detail restricted to its
// owner.  sql.ErrNoRows when the application id is unknown;
// ErrForbidden when it belongs to somebody else.
func (r *RegistrationRepo) GetDetailForUser(ctx context.Context, appID string, userID uint64) (RegistrationDetail, error) {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM registrations WHERE application_id=? LIMIT 1", appID).Scan(&ownerID)
	if err != nil {
		return RegistrationDetail{}, err
	}
	if ownerID != userID {
		return RegistrationDetail{}, ErrForbidden
	}
	return scanDetail(r.DB.QueryRowContext(ctx,
		detailQuery+` WHERE r.application_id = ?`, appID))
}

// AdminRegistrationDetail extends RegistrationDetail with the
// registrant's account and profile for the administrative listing.
type AdminRegistrationDetail struct {
	RegistrationDetail
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ListAll returns every registration with nested user and exam detail,
// newest first.  Profiles may be absent for stale accounts, hence the
// LEFT JOIN.
func (r *RegistrationRepo) ListAll(ctx context.Context) ([]AdminRegistrationDetail, error) {
	const q = `SELECT r.application_id, r.exam_id, e.name, e.exam_date, e.exam_time,
	               e.category, r.mode, r.assigned_location, r.seat_number, r.selected_exam_time,
	               r.status, r.rejection_reason, r.hall_ticket_url, r.applied_at,
	               u.id, u.email, d.full_name, d.phone
	           FROM registrations r
	           JOIN exams e ON e.id = r.exam_id
	           JOIN users u ON u.id = r.user_id
	           LEFT JOIN user_details d ON d.user_id = u.id
	           ORDER BY r.applied_at DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]AdminRegistrationDetail, 0)
	for rows.Next() {
		var d AdminRegistrationDetail
		var examDate, appliedAt time.Time
		var examTime, loc, sel, reason, ticket, fullName, phone sql.NullString
		var seat sql.NullInt64
		if err := rows.Scan(&d.ApplicationID, &d.ExamID, &d.ExamName, &examDate, &examTime,
			&d.Category, &d.Mode, &loc, &seat, &sel, &d.Status, &reason, &ticket, &appliedAt,
			&d.UserID, &d.Email, &fullName, &phone); err != nil {
			return nil, err
		}
		d.ExamDate = examDate.Format(displayDate)
		d.AppliedAt = appliedAt.UTC().Format(time.RFC3339)
		if examTime.Valid {
			v := examTime.String
			d.ExamTime = &v
		}
		if loc.Valid {
			v := loc.String
			d.AssignedLocation = &v
		}
		if seat.Valid {
			v := uint32(seat.Int64)
			d.SeatNumber = &v
		}
		if sel.Valid {
			v := sel.String
			d.SelectedExamTime = &v
		}
		if reason.Valid {
			v := reason.String
			d.RejectionReason = &v
		}
		if ticket.Valid {
			v := ticket.String
			d.HallTicketURL = &v
		}
		if fullName.Valid {
			d.FullName = fullName.String
		}
		if phone.Valid {
			d.Phone = phone.String
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ApproveTx moves a registration from PENDING to APPROVED and records
// the hall-ticket URL.  The status predicate makes the transition
// idempotence-safe: a second approval affects zero rows and surfaces
// ErrInvalidState.
func (r *RegistrationRepo) ApproveTx(ctx context.Context, tx *sql.Tx, id uint64, hallTicketURL string) error {
	const q = `UPDATE registrations
	           SET status = 'APPROVED', hall_ticket_url = ?, reviewed_at = NOW()
	           WHERE id = ? AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, q, hallTicketURL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}

// RejectTx moves a registration from PENDING to REJECTED, stores the
// reviewer's reason and clears the seat assignment and any hall-ticket
// URL.  The caller is responsible for releasing the seat back to the
// venue pool in the same transaction.
func (r *RegistrationRepo) RejectTx(ctx context.Context, tx *sql.Tx, id uint64, reason string) error {
	const q = `UPDATE registrations
	           SET status = 'REJECTED', rejection_reason = ?,
	               assigned_location = NULL, seat_number = NULL, hall_ticket_url = NULL,
	               reviewed_at = NOW()
	           WHERE id = ? AND status = 'PENDING'`
	res, err := tx.ExecContext(ctx, q, reason, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}

// DeleteTx removes a PENDING registration (student cancellation).
// Decided registrations cannot be cancelled; zero affected rows
// surfaces ErrInvalidState.
func (r *RegistrationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"DELETE FROM registrations WHERE id = ? AND status = 'PENDING'", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}
