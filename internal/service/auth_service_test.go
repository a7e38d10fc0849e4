package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/inquiry-service/internal/auth"
	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/domain"
	"github.com/spec-kit/inquiry-service/internal/events"
)

func newAuthTestService(env *testEnv) (*AuthService, *fakePasswordResetRepo, events.Dispatcher) {
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.PasswordResetTTLMinutes = 30
	cfg.Auth.BcryptCost = bcrypt.MinCost
	resets := newFakePasswordResetRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuthService(cfg, AuthDependencies{
		IdentityRepo:      env.identities,
		ProfileRepo:       env.profiles,
		PasswordResetRepo: resets,
		Dispatcher:        dispatcher,
	})
	return svc, resets, dispatcher
}

func seedCredentials(t *testing.T, env *testEnv, id, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	identity := env.identities.identities[id]
	identity.PasswordHash = hash
	env.identities.identities[id] = identity
}

func TestLoginIssuesTokenWithCurrentRole(t *testing.T) {
	env := newTestEnv()
	employee := env.seedProfile("emp-1", domain.RoleEmployee)
	seedCredentials(t, env, employee.ID, "s3cret-pass")
	svc, _, _ := newAuthTestService(env)

	session, err := svc.Login(context.Background(), "emp-1@academy.test", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.TokenID)
	assert.Equal(t, employee.ID, session.Profile.ID)

	claims, err := svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, claims.ProfileID)
	assert.Equal(t, domain.RoleEmployee, claims.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	employee := env.seedProfile("emp-1", domain.RoleEmployee)
	seedCredentials(t, env, employee.ID, "s3cret-pass")
	svc, _, _ := newAuthTestService(env)

	_, err := svc.Login(context.Background(), "emp-1@academy.test", "wrong")
	requireErrCode(t, err, "UNAUTHORIZED")

	_, err = svc.Login(context.Background(), "nobody@academy.test", "s3cret-pass")
	requireErrCode(t, err, "UNAUTHORIZED")
}

func TestLoginRejectsDisabledAccounts(t *testing.T) {
	env := newTestEnv()
	employee := env.seedProfile("emp-1", domain.RoleEmployee)
	seedCredentials(t, env, employee.ID, "s3cret-pass")
	profile := env.profiles.profiles[employee.ID]
	profile.IsActive = false
	env.profiles.profiles[employee.ID] = profile
	svc, _, _ := newAuthTestService(env)

	_, err := svc.Login(context.Background(), "emp-1@academy.test", "s3cret-pass")
	requireErrCode(t, err, "UNAUTHORIZED")
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv()
	employee := env.seedProfile("emp-1", domain.RoleEmployee)
	seedCredentials(t, env, employee.ID, "old-pass")
	svc, _, dispatcher := newAuthTestService(env)

	// the token is only ever handed to the notification channel
	var delivered []events.PasswordResetRequestedPayload
	dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, event events.Event) error {
		delivered = append(delivered, event.Payload.(events.PasswordResetRequestedPayload))
		return nil
	})

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "emp-1@academy.test"))
	require.Len(t, delivered, 1)
	assert.Equal(t, "emp-1@academy.test", delivered[0].Email)
	require.NotEmpty(t, delivered[0].Token)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), delivered[0].Token, "new-pass"))

	_, err := svc.Login(context.Background(), "emp-1@academy.test", "old-pass")
	requireErrCode(t, err, "UNAUTHORIZED")
	_, err = svc.Login(context.Background(), "emp-1@academy.test", "new-pass")
	require.NoError(t, err)

	// a reset token is single use
	err = svc.ConfirmPasswordReset(context.Background(), delivered[0].Token, "another")
	requireErrCode(t, err, "VALIDATION_FAILED")
}

func TestPasswordResetRequestIsSilentForUnknownEmail(t *testing.T) {
	env := newTestEnv()
	svc, resets, dispatcher := newAuthTestService(env)

	notified := 0
	dispatcher.Subscribe(events.EventPasswordResetRequested, func(context.Context, events.Event) error {
		notified++
		return nil
	})

	// indistinguishable from a known address: no error, and nothing issued
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@academy.test"))
	assert.Empty(t, resets.tokens)
	assert.Zero(t, notified)
}

func TestChangePasswordVerifiesCurrentOne(t *testing.T) {
	env := newTestEnv()
	employee := env.seedProfile("emp-1", domain.RoleEmployee)
	seedCredentials(t, env, employee.ID, "old-pass")
	svc, _, _ := newAuthTestService(env)

	err := svc.ChangePassword(context.Background(), employee.ID, "wrong", "new-pass")
	requireErrCode(t, err, "UNAUTHORIZED")

	require.NoError(t, svc.ChangePassword(context.Background(), employee.ID, "old-pass", "new-pass"))
	_, err = svc.Login(context.Background(), "emp-1@academy.test", "new-pass")
	require.NoError(t, err)
}
