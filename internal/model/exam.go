package model

import "time"

// Exam delivery modes as stored in the exams.mode column.  Offline
// exams are sat at a physical location and need seat allocation;
// online exams are sat remotely at a student-selected time.
const (
    ModeOnline  = "ONLINE"
    ModeOffline = "OFFLINE"
)

// Time-selection policies for the exams.time_policy column.  FIXED
// exams start at the time recorded on the exam row; FLEXIBLE exams let
// the student pick a start time inside the allowed daily window.
const (
    TimePolicyFixed    = "FIXED"
    TimePolicyFlexible = "FLEXIBLE"
)

// Exam represents a row in the `exams` table.  Exams are created by
// administrators and are immutable to students.
//
// Fields:
//  ID                   – primary key identifier.
//  Name                 – unique exam name.
//  Mode                 – ONLINE or OFFLINE.
//  TimePolicy           – FIXED or FLEXIBLE.
//  ExamDate             – calendar date the exam is held.
//  ExamTime             – fixed start time "HH:MM" (null when FLEXIBLE).
//  DurationMinutes      – length of the exam in minutes.
//  FeeCents             – registration fee in cents.
//  RegistrationDeadline – last instant registrations are accepted.
//  Category             – subject category label.
//  Description          – free-form description.
//  Prerequisites        – free-form prerequisite text.
//  CreatedAt            – timestamp of creation.
type Exam struct {
    ID                   uint64    // exams.id
    Name                 string    // exams.name
    Mode                 string    // exams.mode
    TimePolicy           string    // exams.time_policy
    ExamDate             time.Time // exams.exam_date
    ExamTime             *string   // exams.exam_time (nullable, "HH:MM")
    DurationMinutes      uint32    // exams.duration_minutes
    FeeCents             uint32    // exams.fee_cents
    RegistrationDeadline time.Time // exams.registration_deadline
    Category             string    // exams.category
    Description          string    // exams.description
    Prerequisites        string    // exams.prerequisites
    CreatedAt            time.Time // exams.created_at
}
