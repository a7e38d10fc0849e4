package dto

import (
	"time"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// CreateInquiryRequest payload.
type CreateInquiryRequest struct {
	StudentName      string  `json:"student_name"`
	ContactNumber    string  `json:"contact_number"`
	Email            *string `json:"email"`
	CourseInterested string  `json:"course_interested"`
	MoreInput        *string `json:"more_input"`
	AssignedTo       *string `json:"assigned_to"`
}

// UpdateInquiryRequest payload. Absent fields are left unchanged.
type UpdateInquiryRequest struct {
	StudentName      *string `json:"student_name"`
	ContactNumber    *string `json:"contact_number"`
	Email            *string `json:"email"`
	CourseInterested *string `json:"course_interested"`
	MoreInput        *string `json:"more_input"`
	Status           *string `json:"status"`
}

// AssignInquiryRequest payload; a null assigned_to clears the assignment.
type AssignInquiryRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

// InquiryResponse is the wire shape of an inquiry.
type InquiryResponse struct {
	ID               string               `json:"id"`
	StudentName      string               `json:"student_name"`
	ContactNumber    string               `json:"contact_number"`
	Email            *string              `json:"email,omitempty"`
	CourseInterested string               `json:"course_interested"`
	MoreInput        *string              `json:"more_input,omitempty"`
	Status           domain.InquiryStatus `json:"status"`
	AssignedTo       *string              `json:"assigned_to,omitempty"`
	CreatedBy        *string              `json:"created_by,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// StatusSummaryResponse is the dashboard counts payload.
type StatusSummaryResponse struct {
	Pending   int64 `json:"pending"`
	Converted int64 `json:"converted"`
	Dropped   int64 `json:"dropped"`
	Total     int64 `json:"total"`
}
