// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// Queue names used on the broker.  The default exchange routes by
// queue name, so these double as routing keys.
const (
	RegistrationReviewedQueue = "registration.reviewed"
	NotificationCreatedQueue  = "notification.created"
)

// RegistrationReviewedEvent is published after an administrator's
// decision commits.  It carries enough information for downstream
// consumers to audit-log and email the student without querying the
// primary database.
type RegistrationReviewedEvent struct {
	ApplicationID   string `json:"application_id"`
	UserID          uint64 `json:"user_id"`
	StudentEmail    string `json:"student_email"`
	ExamID          uint64 `json:"exam_id"`
	ExamName        string `json:"exam_name"`
	Status          string `json:"status"` // APPROVED or REJECTED
	HallTicketURL   string `json:"hall_ticket_url,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	ReviewedBy      uint64 `json:"reviewed_by"`
	ReviewedAt      string `json:"reviewed_at"`
}

// NotificationCreatedEvent is published after a notification and its
// fan-out rows commit.  Recipient addresses are resolved by the
// consumer rather than embedded, keeping the payload bounded for
// portal-wide broadcasts.
type NotificationCreatedEvent struct {
	NotificationID uint64 `json:"notification_id"`
	Title          string `json:"title"`
	Audience       string `json:"audience"`
	ExamID         uint64 `json:"exam_id,omitempty"`
	Recipients     int64  `json:"recipients"`
	CreatedBy      uint64 `json:"created_by"`
	CreatedAt      string `json:"created_at"`
}
