package domain

import "time"

// FollowUp is a timestamped contact-attempt log entry attached to one inquiry.
type FollowUp struct {
	ID                string
	InquiryID         string
	Notes             string
	FollowUpDate      time.Time
	VoiceRecordingURL *string
	CreatedBy         *string
	CreatedAt         time.Time
}
