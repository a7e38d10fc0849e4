package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inquiry-service/internal/authz"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller for the duration of a request.
type Principal struct {
	Profile   *domain.Profile
	TokenID   string
	ExpiresAt time.Time
}

// Caller converts the principal into the identity the policy engine evaluates.
func (p *Principal) Caller() authz.Caller {
	if p == nil || p.Profile == nil {
		return authz.Caller{}
	}
	return authz.Caller{ID: p.Profile.ID, Role: p.Profile.Role}
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	profiles repository.ProfileRepository
	denylist *TokenDenylist
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, profiles repository.ProfileRepository, denylist *TokenDenylist) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, profiles: profiles, denylist: denylist}
}

// Handle enforces authentication for protected routes. The profile (and its
// role) is read fresh on every request so a role change or deactivation
// applies from the next request on.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	revoked, err := m.denylist.IsRevoked(c.Context(), claims.ID)
	if err != nil || revoked {
		return apperrors.NewUnauthorized("session no longer valid")
	}

	profile, err := m.profiles.GetByID(c.Context(), claims.ProfileID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("profile not found")
		}
		return apperrors.MapError(err)
	}
	if !profile.IsActive {
		return apperrors.NewUnauthorized("account disabled")
	}

	c.Locals(principalKey, &Principal{
		Profile:   profile,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
