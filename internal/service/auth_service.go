package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/events"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

// Session is the result of a successful login.
type Session struct {
	Profile   *domain.Profile
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// AuthService coordinates login, sign-out and password flows.
type AuthService struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	denylist   *auth.TokenDenylist
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	IdentityRepo      repository.IdentityRepository
	ProfileRepo       repository.ProfileRepository
	PasswordResetRepo repository.PasswordResetRepository
	Denylist          *auth.TokenDenylist
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		identities: deps.IdentityRepo,
		profiles:   deps.ProfileRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		denylist:   deps.Denylist,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Login authenticates a staff account and issues a session token bearing the
// profile's current role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(identity.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	profile, err := s.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !profile.IsActive {
		return nil, apperrors.NewUnauthorized("account disabled")
	}

	token, claims, err := s.tokenMgr.GenerateToken(profile.ID, profile.Role)
	if err != nil {
		return nil, err
	}
	return &Session{
		Profile:   profile,
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the session token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.denylist.Revoke(ctx, tokenID, expiresAt)
}

// RequestPasswordReset persists a reset token for the given email and hands it
// to the notification channel. The caller learns nothing either way: an
// unknown email gets the same silent acknowledgment, so the endpoint does not
// reveal which staff accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return err
	}

	token := &repository.PasswordResetToken{
		IdentityID: identity.ID,
		Token:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type: events.EventPasswordResetRequested,
			Payload: events.PasswordResetRequestedPayload{
				Email:     identity.Email,
				Token:     token.Token,
				ExpiresAt: token.ExpiresAt,
			},
		})
	}
	return nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		if err == auth.ErrPasswordTooShort {
			return apperrors.NewValidationError("new_password too short", nil)
		}
		return err
	}
	if err := s.identities.UpdatePassword(ctx, token.IdentityID, hash); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, profileID, currentPassword, newPassword string) error {
	identity, err := s.identities.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(identity.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		if err == auth.ErrPasswordTooShort {
			return apperrors.NewValidationError("new_password too short", nil)
		}
		return err
	}
	return s.identities.UpdatePassword(ctx, identity.ID, hash)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
