package service

import (
	"context"
	"strings"

	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/authz"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// ProfileService coordinates account provisioning and profile administration.
// Every operation takes the caller explicitly; the policy engine is the sole
// authorizer.
type ProfileService struct {
	engine     *authz.Engine
	profiles   repository.ProfileRepository
	identities repository.IdentityRepository
	bcryptCost int
}

// ProfileDependencies bundles repositories for the profile service.
type ProfileDependencies struct {
	Engine       *authz.Engine
	ProfileRepo  repository.ProfileRepository
	IdentityRepo repository.IdentityRepository
	BcryptCost   int
}

// ProvisionInput describes account-provisioning payload.
type ProvisionInput struct {
	Email        string
	FullName     string
	Role         domain.Role
	TempPassword string
}

// ProfileUpdateInput carries the admin-editable profile fields. Nil fields
// are left unchanged.
type ProfileUpdateInput struct {
	FullName *string
	Role     *domain.Role
	IsActive *bool
}

// NewProfileService constructs the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	return &ProfileService{
		engine:     deps.Engine,
		profiles:   deps.ProfileRepo,
		identities: deps.IdentityRepo,
		bcryptCost: deps.BcryptCost,
	}
}

// Provision creates the identity record first, then the profile keyed by the
// identity's id.
func (s *ProfileService) Provision(ctx context.Context, caller authz.Caller, input ProvisionInput) (*domain.Profile, error) {
	if err := s.engine.AuthorizeProfileInsert(caller, authz.ProfileRow{}); err != nil {
		return nil, apperrors.NewAuthorizationDenied()
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, apperrors.NewValidationError("email and full_name required", nil)
	}

	hash, err := auth.HashPassword(input.TempPassword, s.bcryptCost)
	if err != nil {
		if err == auth.ErrPasswordTooShort {
			return nil, apperrors.NewValidationError("temp_password too short", nil)
		}
		return nil, err
	}

	identity := &domain.Identity{Email: email, PasswordHash: hash}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}

	creatorID := caller.ID
	profile := &domain.Profile{
		ID:        identity.ID,
		Email:     email,
		FullName:  strings.TrimSpace(input.FullName),
		Role:      input.Role,
		CreatedBy: &creatorID,
		IsActive:  true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Get returns a profile if the caller may see it; a denied read is
// indistinguishable from a missing row.
func (s *ProfileService) Get(ctx context.Context, caller authz.Caller, id string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanSelectProfile(caller, authz.ProfileRow{ID: profile.ID}) {
		return nil, apperrors.NewNotFound("profile", nil)
	}
	return profile, nil
}

// List returns the profiles visible to the caller: everything for leadership,
// exactly the caller's own row for an employee.
func (s *ProfileService) List(ctx context.Context, caller authz.Caller, filter repository.ProfileFilter) ([]domain.Profile, error) {
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleCoLeader:
		return s.profiles.List(ctx, filter)
	case domain.RoleEmployee:
		own, err := s.profiles.GetByID(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		return []domain.Profile{*own}, nil
	}
	return nil, apperrors.NewAuthorizationDenied()
}

// Update applies admin-only profile mutations (role change, activation
// toggle, name fix).
func (s *ProfileService) Update(ctx context.Context, caller authz.Caller, id string, input ProfileUpdateInput) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldRow := authz.ProfileRow{ID: profile.ID}
	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		profile.Role = *input.Role
	}
	if input.IsActive != nil {
		profile.IsActive = *input.IsActive
	}

	if err := s.engine.AuthorizeProfileUpdate(caller, oldRow, authz.ProfileRow{ID: profile.ID}); err != nil {
		return nil, apperrors.NewAuthorizationDenied()
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete removes the identity record; the profile goes with it via cascade,
// and rows referencing the profile fall back to unassigned.
func (s *ProfileService) Delete(ctx context.Context, caller authz.Caller, id string) error {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.AuthorizeProfileDelete(caller, authz.ProfileRow{ID: profile.ID}); err != nil {
		return apperrors.NewAuthorizationDenied()
	}
	return s.identities.Delete(ctx, profile.ID)
}
