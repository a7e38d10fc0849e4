package events

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInquiryCreated         EventType = "inquiry_created"
	EventInquiryStatusChanged   EventType = "inquiry_status_changed"
	EventInquiryAssigned        EventType = "inquiry_assigned"
	EventFollowUpLogged         EventType = "follow_up_logged"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ProfileID string      `json:"profile_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	InquiryID string      `json:"inquiry_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InquiryCreatedPayload payload.
type InquiryCreatedPayload struct {
	StudentName      string  `json:"student_name"`
	CourseInterested string  `json:"course_interested"`
	AssignedTo       *string `json:"assigned_to,omitempty"`
}

// InquiryStatusChangedPayload payload.
type InquiryStatusChangedPayload struct {
	OldStatus domain.InquiryStatus `json:"old_status"`
	NewStatus domain.InquiryStatus `json:"new_status"`
}

// InquiryAssignedPayload payload.
type InquiryAssignedPayload struct {
	OldAssignee *string `json:"old_assignee,omitempty"`
	NewAssignee *string `json:"new_assignee,omitempty"`
}

// FollowUpLoggedPayload payload.
type FollowUpLoggedPayload struct {
	FollowUpID   string    `json:"follow_up_id"`
	FollowUpDate time.Time `json:"follow_up_date"`
	NotesPreview string    `json:"notes_preview"`
}

// PasswordResetRequestedPayload payload. The token travels only through the
// notification channel, never back over the requesting connection.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
