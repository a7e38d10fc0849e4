package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/authz"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/events"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// InquiryService coordinates inquiry workflows behind the policy engine.
type InquiryService struct {
	engine     *authz.Engine
	inquiries  repository.InquiryRepository
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
}

// InquiryDependencies bundles repositories for the inquiry service.
type InquiryDependencies struct {
	Engine      *authz.Engine
	InquiryRepo repository.InquiryRepository
	ProfileRepo repository.ProfileRepository
	Dispatcher  events.Dispatcher
}

// InquiryCreateInput describes inquiry creation payload.
type InquiryCreateInput struct {
	StudentName      string
	ContactNumber    string
	Email            *string
	CourseInterested string
	MoreInput        *string
	AssignedTo       *string
}

// InquiryUpdateInput carries the mutable inquiry fields. Nil fields are left
// unchanged; AssignedTo uses a double pointer so explicit unassignment is
// distinguishable from "not touched".
type InquiryUpdateInput struct {
	StudentName      *string
	ContactNumber    *string
	Email            *string
	CourseInterested *string
	MoreInput        *string
	Status           *domain.InquiryStatus
	AssignedTo       **string
}

// NewInquiryService constructs the service.
func NewInquiryService(deps InquiryDependencies) *InquiryService {
	return &InquiryService{
		engine:     deps.Engine,
		inquiries:  deps.InquiryRepo,
		profiles:   deps.ProfileRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create registers a new inquiry; status always starts pending.
func (s *InquiryService) Create(ctx context.Context, caller authz.Caller, input InquiryCreateInput) (*domain.Inquiry, error) {
	if err := s.engine.AuthorizeInquiryInsert(caller, authz.InquiryRow{AssignedTo: input.AssignedTo}); err != nil {
		return nil, apperrors.NewAuthorizationDenied()
	}
	if strings.TrimSpace(input.StudentName) == "" || strings.TrimSpace(input.ContactNumber) == "" || strings.TrimSpace(input.CourseInterested) == "" {
		return nil, apperrors.NewValidationError("student_name, contact_number, course_interested required", nil)
	}
	if input.AssignedTo != nil {
		if err := s.ensureProfileExists(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	creatorID := caller.ID
	inquiry := &domain.Inquiry{
		StudentName:      strings.TrimSpace(input.StudentName),
		ContactNumber:    strings.TrimSpace(input.ContactNumber),
		Email:            input.Email,
		CourseInterested: strings.TrimSpace(input.CourseInterested),
		MoreInput:        input.MoreInput,
		Status:           domain.InquiryStatusPending,
		AssignedTo:       input.AssignedTo,
		CreatedBy:        &creatorID,
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	s.publish(ctx, caller, events.Event{
		Type:      events.EventInquiryCreated,
		InquiryID: inquiry.ID,
		Payload: events.InquiryCreatedPayload{
			StudentName:      inquiry.StudentName,
			CourseInterested: inquiry.CourseInterested,
			AssignedTo:       inquiry.AssignedTo,
		},
	})
	return inquiry, nil
}

// Get returns an inquiry if visible to the caller; denied reads surface as
// not found.
func (s *InquiryService) Get(ctx context.Context, caller authz.Caller, id string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanSelectInquiry(caller, authz.InquiryRow{AssignedTo: inquiry.AssignedTo}) {
		return nil, apperrors.NewNotFound("inquiry", nil)
	}
	return inquiry, nil
}

// List returns inquiries scoped to the caller's visibility. Employees are
// pinned to their own assigned rows regardless of the requested filter.
func (s *InquiryService) List(ctx context.Context, caller authz.Caller, filter repository.InquiryFilter) ([]domain.Inquiry, error) {
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleCoLeader:
		// unrestricted
	case domain.RoleEmployee:
		callerID := caller.ID
		filter.AssignedTo = &callerID
	default:
		return nil, apperrors.NewAuthorizationDenied()
	}
	return s.inquiries.ListWithFilter(ctx, filter)
}

// Update mutates inquiry fields under the engine's old-row/new-row check, so
// an employee can work only their own assigned rows and cannot reassign them
// away.
func (s *InquiryService) Update(ctx context.Context, caller authz.Caller, id string, input InquiryUpdateInput) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldRow := authz.InquiryRow{AssignedTo: inquiry.AssignedTo}
	oldStatus := inquiry.Status
	oldAssignee := inquiry.AssignedTo

	if input.StudentName != nil {
		inquiry.StudentName = strings.TrimSpace(*input.StudentName)
	}
	if input.ContactNumber != nil {
		inquiry.ContactNumber = strings.TrimSpace(*input.ContactNumber)
	}
	if input.Email != nil {
		inquiry.Email = input.Email
	}
	if input.CourseInterested != nil {
		inquiry.CourseInterested = strings.TrimSpace(*input.CourseInterested)
	}
	if input.MoreInput != nil {
		inquiry.MoreInput = input.MoreInput
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		inquiry.Status = *input.Status
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo != nil {
			if err := s.ensureProfileExists(ctx, **input.AssignedTo); err != nil {
				return nil, err
			}
		}
		inquiry.AssignedTo = *input.AssignedTo
	}

	if err := s.engine.AuthorizeInquiryUpdate(caller, oldRow, authz.InquiryRow{AssignedTo: inquiry.AssignedTo}); err != nil {
		return nil, apperrors.NewAuthorizationDenied()
	}
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, err
	}

	if inquiry.Status != oldStatus {
		s.publish(ctx, caller, events.Event{
			Type:      events.EventInquiryStatusChanged,
			InquiryID: inquiry.ID,
			Payload: events.InquiryStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: inquiry.Status,
			},
		})
	}
	if !sameAssignee(oldAssignee, inquiry.AssignedTo) {
		s.publish(ctx, caller, events.Event{
			Type:      events.EventInquiryAssigned,
			InquiryID: inquiry.ID,
			Payload: events.InquiryAssignedPayload{
				OldAssignee: oldAssignee,
				NewAssignee: inquiry.AssignedTo,
			},
		})
	}
	return inquiry, nil
}

// Assign sets or clears the inquiry's assignee.
func (s *InquiryService) Assign(ctx context.Context, caller authz.Caller, id string, assigneeID *string) (*domain.Inquiry, error) {
	return s.Update(ctx, caller, id, InquiryUpdateInput{AssignedTo: &assigneeID})
}

// Delete removes an inquiry; the store cascades its follow-ups.
func (s *InquiryService) Delete(ctx context.Context, caller authz.Caller, id string) error {
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.AuthorizeInquiryDelete(caller, authz.InquiryRow{AssignedTo: inquiry.AssignedTo}); err != nil {
		return apperrors.NewAuthorizationDenied()
	}
	return s.inquiries.Delete(ctx, id)
}

// StatusSummary returns per-status inquiry counts scoped to the caller's
// visibility.
func (s *InquiryService) StatusSummary(ctx context.Context, caller authz.Caller) (map[domain.InquiryStatus]int64, error) {
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleCoLeader:
		return s.inquiries.CountByStatus(ctx, nil)
	case domain.RoleEmployee:
		callerID := caller.ID
		return s.inquiries.CountByStatus(ctx, &callerID)
	}
	return nil, apperrors.NewAuthorizationDenied()
}

func (s *InquiryService) ensureProfileExists(ctx context.Context, profileID string) error {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewValidationError("assignee profile does not exist", map[string]any{"assigned_to": profileID})
		}
		return err
	}
	return nil
}

func (s *InquiryService) publish(ctx context.Context, caller authz.Caller, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Actor = events.Actor{ProfileID: caller.ID, Role: caller.Role}
	_ = s.dispatcher.Publish(ctx, event)
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
