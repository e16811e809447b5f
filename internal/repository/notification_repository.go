package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/exam-registration/internal/model"
)

// NotificationRepo persists administrator notifications and their
// per-student fan-out rows.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// CreateWithFanout inserts the notification and one recipient row per
// targeted student in a single transaction, so a partially delivered
// message can never be observed.  For AudienceAll the target set is
// every active, verified student; for AudienceExam it is the students
// holding a registration for n.ExamID.  It returns the number of
// recipients created.
func (r *NotificationRepo) CreateWithFanout(ctx context.Context, n *model.Notification) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var examID interface{}
	if n.ExamID != nil {
		examID = *n.ExamID
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO notifications (title, body, audience, exam_id, created_by) VALUES (?,?,?,?,?)",
		n.Title, n.Body, n.Audience, examID, n.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	n.ID = uint64(id)

	var fanout sql.Result
	switch n.Audience {
	case model.AudienceExam:
		fanout, err = tx.ExecContext(ctx,
			`INSERT INTO notification_recipients (notification_id, user_id)
			 SELECT ?, user_id FROM registrations WHERE exam_id = ?`,
			n.ID, *n.ExamID)
	default:
		fanout, err = tx.ExecContext(ctx,
			`INSERT INTO notification_recipients (notification_id, user_id)
			 SELECT ?, id FROM users WHERE role = ? AND is_active = 1 AND is_verified = 1`,
			n.ID, model.RoleStudent)
	}
	if err != nil {
		return 0, err
	}
	count, err := fanout.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return count, nil
}

// UserNotification is one entry of a student's notification feed.
type UserNotification struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	CreatedAt string  `json:"created_at"`
	ReadAt    *string `json:"read_at,omitempty"`
}

// ListForUser returns the student's feed, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64) ([]UserNotification, error) {
	const q = `SELECT n.id, n.title, n.body, n.created_at, nr.read_at
	           FROM notification_recipients nr
	           JOIN notifications n ON n.id = nr.notification_id
	           WHERE nr.user_id = ?
	           ORDER BY n.created_at DESC, n.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]UserNotification, 0)
	for rows.Next() {
		var it UserNotification
		var createdAt time.Time
		var readAt sql.NullTime
		if err := rows.Scan(&it.ID, &it.Title, &it.Body, &createdAt, &readAt); err != nil {
			return nil, err
		}
		it.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		if readAt.Valid {
			v := readAt.Time.UTC().Format(time.RFC3339)
			it.ReadAt = &v
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead records that the student opened the notification.  Marking
// an already-read entry is a no-op; an unknown entry returns
// sql.ErrNoRows.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notification_recipients SET read_at = NOW()
		 WHERE notification_id = ? AND user_id = ? AND read_at IS NULL`,
		notificationID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Zero rows: distinguish "already read" from "not a recipient".
	var one int
	err = r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM notification_recipients WHERE notification_id=? AND user_id=? LIMIT 1",
		notificationID, userID).Scan(&one)
	return err
}

// RecipientEmails returns the email addresses targeted by a
// notification, used by the queue consumer for best-effort mail.
func (r *NotificationRepo) RecipientEmails(ctx context.Context, notificationID uint64) ([]string, error) {
	const q = `SELECT u.email
	           FROM notification_recipients nr
	           JOIN users u ON u.id = nr.user_id
	           WHERE nr.notification_id = ?`
	rows, err := r.DB.QueryContext(ctx, q, notificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}
