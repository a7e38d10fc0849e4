package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
)

// In-memory repository fakes. They return copies so services never mutate
// stored rows before the policy check runs.

type fakeProfileRepo struct {
	profiles map[string]domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]domain.Profile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	if _, ok := r.profiles[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	profile.UpdatedAt = time.Now()
	r.profiles[profile.ID] = *profile
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := profile
	return &out, nil
}

func (r *fakeProfileRepo) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Email == email {
			out := profile
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProfileRepo) List(_ context.Context, _ repository.ProfileFilter) ([]domain.Profile, error) {
	result := make([]domain.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		result = append(result, profile)
	}
	return result, nil
}

type fakeIdentityRepo struct {
	identities map[string]domain.Identity
	nextID     int
	// mirror the referencing tables so Delete behaves as the real schema
	// does: the profile cascades away, rows pointing at it fall back to
	// unassigned/anonymous
	profiles  *fakeProfileRepo
	inquiries *fakeInquiryRepo
	followUps *fakeFollowUpRepo
}

func newFakeIdentityRepo(profiles *fakeProfileRepo, inquiries *fakeInquiryRepo, followUps *fakeFollowUpRepo) *fakeIdentityRepo {
	return &fakeIdentityRepo{
		identities: make(map[string]domain.Identity),
		profiles:   profiles,
		inquiries:  inquiries,
		followUps:  followUps,
	}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	r.nextID++
	identity.ID = fmt.Sprintf("id-%d", r.nextID)
	identity.CreatedAt = time.Now()
	r.identities[identity.ID] = *identity
	return nil
}

func (r *fakeIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := identity
	return &out, nil
}

func (r *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.Email == email {
			out := identity
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeIdentityRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	identity, ok := r.identities[id]
	if !ok {
		return pgx.ErrNoRows
	}
	identity.PasswordHash = passwordHash
	r.identities[id] = identity
	return nil
}

func (r *fakeIdentityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.identities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.identities, id)
	if r.profiles != nil {
		delete(r.profiles.profiles, id)
	}
	if r.inquiries != nil {
		for inqID, inquiry := range r.inquiries.inquiries {
			if inquiry.AssignedTo != nil && *inquiry.AssignedTo == id {
				inquiry.AssignedTo = nil
			}
			if inquiry.CreatedBy != nil && *inquiry.CreatedBy == id {
				inquiry.CreatedBy = nil
			}
			r.inquiries.inquiries[inqID] = inquiry
		}
	}
	if r.followUps != nil {
		for fuID, followUp := range r.followUps.followUps {
			if followUp.CreatedBy != nil && *followUp.CreatedBy == id {
				followUp.CreatedBy = nil
				r.followUps.followUps[fuID] = followUp
			}
		}
	}
	return nil
}

type fakeInquiryRepo struct {
	inquiries map[string]domain.Inquiry
	nextID    int
	// mirrors the follow_ups cascade
	followUps *fakeFollowUpRepo
}

func newFakeInquiryRepo(followUps *fakeFollowUpRepo) *fakeInquiryRepo {
	return &fakeInquiryRepo{inquiries: make(map[string]domain.Inquiry), followUps: followUps}
}

func (r *fakeInquiryRepo) Create(_ context.Context, inquiry *domain.Inquiry) error {
	r.nextID++
	inquiry.ID = fmt.Sprintf("inq-%d", r.nextID)
	inquiry.CreatedAt = time.Now()
	inquiry.UpdatedAt = inquiry.CreatedAt
	r.inquiries[inquiry.ID] = *inquiry
	return nil
}

func (r *fakeInquiryRepo) Update(_ context.Context, inquiry *domain.Inquiry) error {
	if _, ok := r.inquiries[inquiry.ID]; !ok {
		return pgx.ErrNoRows
	}
	inquiry.UpdatedAt = time.Now()
	r.inquiries[inquiry.ID] = *inquiry
	return nil
}

func (r *fakeInquiryRepo) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	inquiry, ok := r.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := inquiry
	return &out, nil
}

func (r *fakeInquiryRepo) ListWithFilter(_ context.Context, filter repository.InquiryFilter) ([]domain.Inquiry, error) {
	var result []domain.Inquiry
	for _, inquiry := range r.inquiries {
		if filter.AssignedTo != nil {
			if inquiry.AssignedTo == nil || *inquiry.AssignedTo != *filter.AssignedTo {
				continue
			}
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if inquiry.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, inquiry)
	}
	return result, nil
}

func (r *fakeInquiryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.inquiries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.inquiries, id)
	if r.followUps != nil {
		for fuID, fu := range r.followUps.followUps {
			if fu.InquiryID == id {
				delete(r.followUps.followUps, fuID)
			}
		}
	}
	return nil
}

func (r *fakeInquiryRepo) CountByStatus(_ context.Context, assignedTo *string) (map[domain.InquiryStatus]int64, error) {
	counts := make(map[domain.InquiryStatus]int64)
	for _, inquiry := range r.inquiries {
		if assignedTo != nil {
			if inquiry.AssignedTo == nil || *inquiry.AssignedTo != *assignedTo {
				continue
			}
		}
		counts[inquiry.Status]++
	}
	return counts, nil
}

type fakePasswordResetRepo struct {
	tokens map[string]repository.PasswordResetToken
	nextID int
}

func newFakePasswordResetRepo() *fakePasswordResetRepo {
	return &fakePasswordResetRepo{tokens: make(map[string]repository.PasswordResetToken)}
}

func (r *fakePasswordResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.nextID++
	token.ID = fmt.Sprintf("rst-%d", r.nextID)
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = *token
	return nil
}

func (r *fakePasswordResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			out := token
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakePasswordResetRepo) MarkUsed(_ context.Context, id string) error {
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	r.tokens[id] = token
	return nil
}

type fakeFollowUpRepo struct {
	followUps map[string]domain.FollowUp
	nextID    int
}

func newFakeFollowUpRepo() *fakeFollowUpRepo {
	return &fakeFollowUpRepo{followUps: make(map[string]domain.FollowUp)}
}

func (r *fakeFollowUpRepo) Create(_ context.Context, followUp *domain.FollowUp) error {
	r.nextID++
	followUp.ID = fmt.Sprintf("fu-%d", r.nextID)
	followUp.CreatedAt = time.Now()
	r.followUps[followUp.ID] = *followUp
	return nil
}

func (r *fakeFollowUpRepo) Update(_ context.Context, followUp *domain.FollowUp) error {
	if _, ok := r.followUps[followUp.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.followUps[followUp.ID] = *followUp
	return nil
}

func (r *fakeFollowUpRepo) GetByID(_ context.Context, id string) (*domain.FollowUp, error) {
	followUp, ok := r.followUps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := followUp
	return &out, nil
}

func (r *fakeFollowUpRepo) ListByInquiry(_ context.Context, inquiryID string) ([]domain.FollowUp, error) {
	var result []domain.FollowUp
	for _, followUp := range r.followUps {
		if followUp.InquiryID == inquiryID {
			result = append(result, followUp)
		}
	}
	return result, nil
}
