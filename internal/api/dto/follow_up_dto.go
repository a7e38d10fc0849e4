package dto

import "time"

// CreateFollowUpRequest payload.
type CreateFollowUpRequest struct {
	Notes             string    `json:"notes"`
	FollowUpDate      time.Time `json:"follow_up_date"`
	VoiceRecordingURL *string   `json:"voice_recording_url"`
}

// UpdateFollowUpRequest payload. Absent fields are left unchanged.
type UpdateFollowUpRequest struct {
	Notes             *string    `json:"notes"`
	FollowUpDate      *time.Time `json:"follow_up_date"`
	VoiceRecordingURL *string    `json:"voice_recording_url"`
}

// FollowUpResponse is the wire shape of a follow-up.
type FollowUpResponse struct {
	ID                string    `json:"id"`
	InquiryID         string    `json:"inquiry_id"`
	Notes             string    `json:"notes"`
	FollowUpDate      time.Time `json:"follow_up_date"`
	VoiceRecordingURL *string   `json:"voice_recording_url,omitempty"`
	CreatedBy         *string   `json:"created_by,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
