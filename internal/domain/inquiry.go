package domain

import "time"

// InquiryStatus enumerates processing states for an inquiry.
type InquiryStatus string

const (
	InquiryStatusPending   InquiryStatus = "pending"
	InquiryStatusConverted InquiryStatus = "converted"
	InquiryStatusDropped   InquiryStatus = "dropped"
)

// Valid reports whether the status is one of the three known values.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusPending, InquiryStatusConverted, InquiryStatusDropped:
		return true
	}
	return false
}

// Inquiry is a prospective-student record and its processing state.
type Inquiry struct {
	ID               string
	StudentName      string
	ContactNumber    string
	Email            *string
	CourseInterested string
	MoreInput        *string
	Status           InquiryStatus
	AssignedTo       *string
	CreatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
