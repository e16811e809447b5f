package model

import "time"

// Registration statuses for the registrations.status column.  A
// registration is created PENDING and moves exactly once to APPROVED
// or REJECTED by an administrator.  Both are terminal.
const (
    StatusPending  = "PENDING"
    StatusApproved = "APPROVED"
    StatusRejected = "REJECTED"
)

// CanTransition reports whether a registration currently in `from` may
// move to `to`.  Only PENDING -> APPROVED and PENDING -> REJECTED are
// legal; re-reviewing a decided registration must fail with a conflict.
func CanTransition(from, to string) bool {
    if from != StatusPending {
        return false
    }
    return to == StatusApproved || to == StatusRejected
}

// Registration records a student's application for one exam, as stored
// in the `registrations` table.  Exactly one of
// {AssignedLocation+SeatNumber, SelectedExamTime} is populated,
// matching Mode.  At most one registration exists per (user, exam).
//
// Fields:
//  ID               – internal primary key.
//  ApplicationID    – externally visible opaque token (UUID).
//  UserID           – registering student.
//  ExamID           – exam applied for.
//  Mode             – ONLINE or OFFLINE, copied from the exam at
//                     registration time.
//  AssignedLocation – venue name (offline only).
//  SeatNumber       – 1-based seat number, unique within a venue
//                     (offline only).
//  SelectedExamTime – chosen start time "HH:MM" (online only).
//  Status           – PENDING, APPROVED or REJECTED.
//  RejectionReason  – reviewer-supplied reason (null unless rejected).
//  HallTicketURL    – URL of the generated hall ticket (set on approval).
//  AppliedAt        – submission timestamp.
//  ReviewedAt       – decision timestamp (null while pending).
type Registration struct {
    ID               uint64     // registrations.id
    ApplicationID    string     // registrations.application_id
    UserID           uint64     // registrations.user_id
    ExamID           uint64     // registrations.exam_id
    Mode             string     // registrations.mode
    AssignedLocation *string    // registrations.assigned_location (nullable)
    SeatNumber       *uint32    // registrations.seat_number (nullable)
    SelectedExamTime *string    // registrations.selected_exam_time (nullable)
    Status           string     // registrations.status
    RejectionReason  *string    // registrations.rejection_reason (nullable)
    HallTicketURL    *string    // registrations.hall_ticket_url (nullable)
    AppliedAt        time.Time  // registrations.applied_at
    ReviewedAt       *time.Time // registrations.reviewed_at (nullable)
}
