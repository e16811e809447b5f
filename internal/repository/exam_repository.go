package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/exam-registration/internal/model"
)

// ErrExamNotFound is returned when an exam ID does not resolve to a row.
var ErrExamNotFound = errors.New("exam not found")

// ErrLocationExists is returned when an administrator adds a venue name
// that already exists for the exam.
var ErrLocationExists = errors.New("location already exists for this exam")

// ExamRepo provides persistence for exams and their offline venues.
// Seat accounting lives here because the counters are columns of
// exam_locations: ClaimSeatTx performs the atomic conditional increment
// that makes concurrent registrations safe, and ReleaseSeatTx returns a
// vacated seat to the pool.
type ExamRepo struct{ DB *sql.DB }

func NewExamRepo(db *sql.DB) *ExamRepo { return &ExamRepo{DB: db} }

// Create inserts a new exam and populates its generated ID.
func (r *ExamRepo) Create(ctx context.Context, e *model.Exam) error {
	const q = `INSERT INTO exams
	             (name, mode, time_policy, exam_date, exam_time, duration_minutes,
	              fee_cents, registration_deadline, category, description, prerequisites)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	var examTime interface{}
	if e.ExamTime != nil {
		examTime = *e.ExamTime
	}
	res, err := r.DB.ExecContext(ctx, q,
		e.Name, e.Mode, e.TimePolicy, e.ExamDate, examTime, e.DurationMinutes,
		e.FeeCents, e.RegistrationDeadline, e.Category, e.Description, e.Prerequisites)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return errors.New("exam name already exists")
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

const examColumns = `id, name, mode, time_policy, exam_date, exam_time, duration_minutes,
	fee_cents, registration_deadline, category, description, prerequisites, created_at`

func scanExam(row interface{ Scan(...interface{}) error }) (model.Exam, error) {
	var e model.Exam
	var examTime sql.NullString
	err := row.Scan(&e.ID, &e.Name, &e.Mode, &e.TimePolicy, &e.ExamDate, &examTime,
		&e.DurationMinutes, &e.FeeCents, &e.RegistrationDeadline,
		&e.Category, &e.Description, &e.Prerequisites, &e.CreatedAt)
	if err != nil {
		return e, err
	}
	if examTime.Valid {
		t := examTime.String
		e.ExamTime = &t
	}
	return e, nil
}

// GetByID returns one exam.  ErrExamNotFound is returned when the ID
// does not exist.
func (r *ExamRepo) GetByID(ctx context.Context, id uint64) (model.Exam, error) {
	e, err := scanExam(r.DB.QueryRowContext(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrExamNotFound
	}
	return e, err
}

// List returns all exams ordered by exam date ascending.
func (r *ExamRepo) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY exam_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	exams := make([]model.Exam, 0)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exams, nil
}

// CreateLocation inserts a venue for an offline exam.  Venue names are
// unique within an exam.
func (r *ExamRepo) CreateLocation(ctx context.Context, loc *model.ExamLocation) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO exam_locations (exam_id, name, total_seats) VALUES (?,?,?)",
		loc.ExamID, loc.Name, loc.TotalSeats)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrLocationExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loc.ID = uint64(id)
	return nil
}

// ListLocations returns all venues of an exam with their occupancy.
func (r *ExamRepo) ListLocations(ctx context.Context, examID uint64) ([]model.ExamLocation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, exam_id, name, total_seats, filled_seats, seat_sequence, created_at
		 FROM exam_locations WHERE exam_id=? ORDER BY name ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locs := make([]model.ExamLocation, 0)
	for rows.Next() {
		var l model.ExamLocation
		if err := rows.Scan(&l.ID, &l.ExamID, &l.Name, &l.TotalSeats, &l.FilledSeats, &l.SeatSequence, &l.CreatedAt); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return locs, nil
}

// ClaimSeatTx reserves one seat at the named venue inside the given
// transaction.  The occupancy check and increment are a single
// conditional UPDATE, so two concurrent registrants can never both take
// the last seat: one of the statements sees filled_seats = total_seats
// and affects zero rows.  The assigned seat number is the
// post-increment seat_sequence, which only ever grows and is therefore
// never reissued.  It returns (0, false, nil) when the venue is full or
// unknown; the caller moves on to the next preference.
func (r *ExamRepo) ClaimSeatTx(ctx context.Context, tx *sql.Tx, examID uint64, name string) (uint32, bool, error) {
	const claim = `UPDATE exam_locations
	               SET filled_seats = filled_seats + 1, seat_sequence = seat_sequence + 1
	               WHERE exam_id = ? AND name = ? AND filled_seats < total_seats`
	res, err := tx.ExecContext(ctx, claim, examID, name)
	if err != nil {
		return 0, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	var seat uint32
	const sel = `SELECT seat_sequence FROM exam_locations WHERE exam_id = ? AND name = ?`
	if err := tx.QueryRowContext(ctx, sel, examID, name).Scan(&seat); err != nil {
		return 0, false, err
	}
	return seat, true, nil
}

// ReleaseSeatTx returns one seat to the venue's pool.  seat_sequence is
// left untouched so released numbers are not handed out again.  The
// filled_seats > 0 guard keeps the counter inside its invariant even if
// a release is replayed.
func (r *ExamRepo) ReleaseSeatTx(ctx context.Context, tx *sql.Tx, examID uint64, name string) error {
	const q = `UPDATE exam_locations
	           SET filled_seats = filled_seats - 1
	           WHERE exam_id = ? AND name = ? AND filled_seats > 0`
	_, err := tx.ExecContext(ctx, q, examID, name)
	return err
}
