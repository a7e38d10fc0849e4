package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/repository"
	apperrors "github.com/spec-kit/inquiry-service/pkg/util"
)

type staticProfiles struct {
	profiles map[string]domain.Profile
}

func (s *staticProfiles) Create(context.Context, *domain.Profile) error { return nil }
func (s *staticProfiles) Update(context.Context, *domain.Profile) error { return nil }

func (s *staticProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := profile
	return &out, nil
}

func (s *staticProfiles) GetByEmail(context.Context, string) (*domain.Profile, error) {
	return nil, pgx.ErrNoRows
}

func (s *staticProfiles) List(context.Context, repository.ProfileFilter) ([]domain.Profile, error) {
	return nil, nil
}

func newMiddlewareApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	app.Get("/protected", m.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}
		return c.JSON(fiber.Map{
			"id":   principal.Profile.ID,
			"role": principal.Profile.Role,
		})
	})
	return app
}

func TestMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	profiles := &staticProfiles{profiles: map[string]domain.Profile{}}
	app := newMiddlewareApp(NewAuthMiddleware(tm, profiles, nil))

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMiddlewareLoadsFreshProfile(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	profiles := &staticProfiles{profiles: map[string]domain.Profile{
		"emp-1": {ID: "emp-1", Role: domain.RoleCoLeader, IsActive: true},
	}}
	app := newMiddlewareApp(NewAuthMiddleware(tm, profiles, nil))

	// the token still carries the employee role; the live row wins
	token, _, err := tm.GenerateToken("emp-1", domain.RoleEmployee)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestMiddlewareRejectsInactiveProfiles(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	profiles := &staticProfiles{profiles: map[string]domain.Profile{
		"emp-1": {ID: "emp-1", Role: domain.RoleEmployee, IsActive: false},
	}}
	app := newMiddlewareApp(NewAuthMiddleware(tm, profiles, nil))

	token, _, err := tm.GenerateToken("emp-1", domain.RoleEmployee)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestMiddlewareFailsClosedWhenDenylistUnavailable(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	profiles := &staticProfiles{profiles: map[string]domain.Profile{
		"emp-1": {ID: "emp-1", Role: domain.RoleEmployee, IsActive: true},
	}}
	denylist := NewTokenDenylist(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
	app := newMiddlewareApp(NewAuthMiddleware(tm, profiles, denylist))

	token, _, err := tm.GenerateToken("emp-1", domain.RoleEmployee)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
