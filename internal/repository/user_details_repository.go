package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/exam-registration/internal/model"
)

// UserDetailsRepo persists the 1:1 profile rows in 'user_details'.
// Profiles are upserted as a whole; partial updates are not needed by
// the portal since the frontend always submits the full form.
type UserDetailsRepo struct{ DB *sql.DB }

func NewUserDetailsRepo(db *sql.DB) *UserDetailsRepo { return &UserDetailsRepo{DB: db} }

// GetByUserID loads the profile for a user.  sql.ErrNoRows is returned
// when the student has not completed their profile yet.
func (r *UserDetailsRepo) GetByUserID(ctx context.Context, userID uint64) (model.UserDetails, error) {
	var d model.UserDetails
	var dob sql.NullTime
	var guardian, photo sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, full_name, phone, date_of_birth, address, city, guardian_name, photo_url, updated_at
		 FROM user_details WHERE user_id=? LIMIT 1`,
		userID).Scan(&d.UserID, &d.FullName, &d.Phone, &dob, &d.Address, &d.City, &guardian, &photo, &d.UpdatedAt)
	if err != nil {
		return d, err
	}
	if dob.Valid {
		t := dob.Time
		d.DateOfBirth = &t
	}
	if guardian.Valid {
		d.GuardianName = guardian.String
	}
	if photo.Valid {
		d.PhotoURL = photo.String
	}
	return d, nil
}

// Upsert inserts or replaces the profile row for d.UserID.
func (r *UserDetailsRepo) Upsert(ctx context.Context, d model.UserDetails) error {
	const q = `INSERT INTO user_details
	             (user_id, full_name, phone, date_of_birth, address, city, guardian_name, photo_url)
	           VALUES (?,?,?,?,?,?,?,?)
	           ON DUPLICATE KEY UPDATE
	             full_name=VALUES(full_name), phone=VALUES(phone),
	             date_of_birth=VALUES(date_of_birth), address=VALUES(address),
	             city=VALUES(city), guardian_name=VALUES(guardian_name),
	             photo_url=VALUES(photo_url)`
	var dob interface{}
	if d.DateOfBirth != nil {
		dob = *d.DateOfBirth
	}
	_, err := r.DB.ExecContext(ctx, q,
		d.UserID, d.FullName, d.Phone, dob, d.Address, d.City,
		nullIfEmpty(d.GuardianName), nullIfEmpty(d.PhotoURL))
	return err
}

// nullIfEmpty converts "" to NULL so optional text columns stay null
// instead of accumulating empty strings.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
