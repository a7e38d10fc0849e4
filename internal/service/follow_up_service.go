package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/inquiry-service/internal/authz"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/events"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// FollowUpService coordinates follow-up logging behind the policy engine.
// There is no delete path at all: follow-ups leave the store only when their
// parent inquiry does.
type FollowUpService struct {
	engine     *authz.Engine
	followUps  repository.FollowUpRepository
	inquiries  repository.InquiryRepository
	dispatcher events.Dispatcher
}

// FollowUpDependencies bundles repositories for the follow-up service.
type FollowUpDependencies struct {
	Engine       *authz.Engine
	FollowUpRepo repository.FollowUpRepository
	InquiryRepo  repository.InquiryRepository
	Dispatcher   events.Dispatcher
}

// FollowUpCreateInput describes follow-up logging payload.
type FollowUpCreateInput struct {
	Notes             string
	FollowUpDate      time.Time
	VoiceRecordingURL *string
}

// FollowUpUpdateInput carries the creator-editable fields.
type FollowUpUpdateInput struct {
	Notes             *string
	FollowUpDate      *time.Time
	VoiceRecordingURL *string
}

// NewFollowUpService constructs the service.
func NewFollowUpService(deps FollowUpDependencies) *FollowUpService {
	return &FollowUpService{
		engine:     deps.Engine,
		followUps:  deps.FollowUpRepo,
		inquiries:  deps.InquiryRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Log records a contact attempt on an inquiry the caller can see. A hidden
// parent reads as not found, never as a hint the inquiry exists.
func (s *FollowUpService) Log(ctx context.Context, caller authz.Caller, inquiryID string, input FollowUpCreateInput) (*domain.FollowUp, error) {
	parent, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	creatorID := caller.ID
	row := authz.FollowUpRow{
		CreatedBy: &creatorID,
		Parent:    authz.InquiryRow{AssignedTo: parent.AssignedTo},
	}
	if err := s.engine.AuthorizeFollowUpInsert(caller, row); err != nil {
		return nil, apperrors.NewNotFound("inquiry", nil)
	}
	if strings.TrimSpace(input.Notes) == "" {
		return nil, apperrors.NewValidationError("notes required", nil)
	}
	if input.FollowUpDate.IsZero() {
		return nil, apperrors.NewValidationError("follow_up_date required", nil)
	}

	followUp := &domain.FollowUp{
		InquiryID:         parent.ID,
		Notes:             strings.TrimSpace(input.Notes),
		FollowUpDate:      input.FollowUpDate,
		VoiceRecordingURL: input.VoiceRecordingURL,
		CreatedBy:         &creatorID,
	}
	if err := s.followUps.Create(ctx, followUp); err != nil {
		return nil, err
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventFollowUpLogged,
			InquiryID: parent.ID,
			Actor:     events.Actor{ProfileID: caller.ID, Role: caller.Role},
			Payload: events.FollowUpLoggedPayload{
				FollowUpID:   followUp.ID,
				FollowUpDate: followUp.FollowUpDate,
				NotesPreview: notesPreview(followUp.Notes, 120),
			},
		})
	}
	return followUp, nil
}

// ListByInquiry returns the follow-ups for an inquiry the caller can see.
func (s *FollowUpService) ListByInquiry(ctx context.Context, caller authz.Caller, inquiryID string) ([]domain.FollowUp, error) {
	parent, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanSelectInquiry(caller, authz.InquiryRow{AssignedTo: parent.AssignedTo}) {
		return nil, apperrors.NewNotFound("inquiry", nil)
	}
	return s.followUps.ListByInquiry(ctx, parent.ID)
}

// Update edits a follow-up; only its creator may, admins included out.
func (s *FollowUpService) Update(ctx context.Context, caller authz.Caller, id string, input FollowUpUpdateInput) (*domain.FollowUp, error) {
	followUp, err := s.followUps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	parent, err := s.inquiries.GetByID(ctx, followUp.InquiryID)
	if err != nil {
		return nil, err
	}

	parentRow := authz.InquiryRow{AssignedTo: parent.AssignedTo}
	if !s.engine.CanSelectFollowUp(caller, authz.FollowUpRow{CreatedBy: followUp.CreatedBy, Parent: parentRow}) {
		return nil, apperrors.NewNotFound("follow-up", nil)
	}

	oldRow := authz.FollowUpRow{CreatedBy: followUp.CreatedBy, Parent: parentRow}
	if input.Notes != nil {
		followUp.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.FollowUpDate != nil {
		followUp.FollowUpDate = *input.FollowUpDate
	}
	if input.VoiceRecordingURL != nil {
		followUp.VoiceRecordingURL = input.VoiceRecordingURL
	}

	newRow := authz.FollowUpRow{CreatedBy: followUp.CreatedBy, Parent: parentRow}
	if err := s.engine.AuthorizeFollowUpUpdate(caller, oldRow, newRow); err != nil {
		return nil, apperrors.NewAuthorizationDenied()
	}
	if err := s.followUps.Update(ctx, followUp); err != nil {
		return nil, err
	}
	return followUp, nil
}

// notesPreview truncates to at most maxLen bytes without cutting a rune in
// half, so the event payload stays valid UTF-8.
func notesPreview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
