package model

import "time"

// UserDetails holds the profile information attached 1:1 to a user
// account.  These fields feed registration validation and hall-ticket
// rendering: a student may not register for an exam until at least the
// full name and phone number are present.
//
// Fields:
//  UserID       – primary key and foreign key into users.
//  FullName     – name printed on the hall ticket.
//  Phone        – contact phone number.
//  DateOfBirth  – date of birth (nullable).
//  Address      – postal address.
//  City         – city of residence.
//  GuardianName – parent/guardian name (optional).
//  PhotoURL     – URL of the uploaded photo (optional).
//  UpdatedAt    – timestamp of last update.
type UserDetails struct {
    UserID       uint64     // user_details.user_id
    FullName     string     // user_details.full_name
    Phone        string     // user_details.phone
    DateOfBirth  *time.Time // user_details.date_of_birth (nullable)
    Address      string     // user_details.address
    City         string     // user_details.city
    GuardianName string     // user_details.guardian_name
    PhotoURL     string     // user_details.photo_url
    UpdatedAt    time.Time  // user_details.updated_at
}

// Complete reports whether the profile carries the minimum fields
// required before an exam registration is accepted.
func (d UserDetails) Complete() bool {
    return d.FullName != "" && d.Phone != ""
}
