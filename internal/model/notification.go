package model

import "time"

// Notification audiences.  ALL targets every active student account;
// EXAM targets only students holding a registration for one exam.
const (
    AudienceAll  = "ALL"
    AudienceExam = "EXAM"
)

// Notification represents an administrator-authored message stored in
// the `notifications` table.  Delivery is fanned out into one
// NotificationRecipient row per targeted student.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – short subject line.
//  Body      – message body.
//  Audience  – ALL or EXAM.
//  ExamID    – targeted exam (null unless Audience is EXAM).
//  CreatedBy – administrator account that authored the message.
//  CreatedAt – timestamp of creation.
type Notification struct {
    ID        uint64    // notifications.id
    Title     string    // notifications.title
    Body      string    // notifications.body
    Audience  string    // notifications.audience
    ExamID    *uint64   // notifications.exam_id (nullable)
    CreatedBy uint64    // notifications.created_by
    CreatedAt time.Time // notifications.created_at
}

// NotificationRecipient is one fan-out row in the
// `notification_recipients` table, tracking per-user read state.
//
// Fields:
//  ID             – primary key identifier.
//  NotificationID – message being delivered.
//  UserID         – receiving student.
//  ReadAt         – when the student opened the message (null = unread).
type NotificationRecipient struct {
    ID             uint64     // notification_recipients.id
    NotificationID uint64     // notification_recipients.notification_id
    UserID         uint64     // notification_recipients.user_id
    ReadAt         *time.Time // notification_recipients.read_at (nullable)
}
