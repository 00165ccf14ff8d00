package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type stubVerifier struct {
	payloads map[string]*ports.TokenPayload
}

func (v *stubVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if p, ok := v.payloads[token]; ok {
		return p, nil
	}
	return nil, errors.New("bad token")
}

func newTestAuth(t *testing.T, clock *testClock) (*AuthService, ports.UserRepository) {
	t.Helper()
	users := memory.NewStore().Users()
	verifier := &stubVerifier{payloads: map[string]*ports.TokenPayload{
		"admin-token": {Email: "Admin@Example.com", Name: "Admin"},
		"voter-token": {Email: "voter@example.com", Name: "Voter"},
	}}
	auth, err := NewAuthService(users, verifier, AuthConfig{
		JWTSecret:      "secret",
		GoogleClientID: "client",
		AdminEmails:    []string{" admin@example.com "},
		AccessTokenTTL: time.Hour,
	}, clock.Now)
	require.NoError(t, err)
	return auth, users
}

func TestAuthService_LoginAssignsRoles(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Now())
	auth, users := newTestAuth(t, clock)

	token, err := auth.LoginWithGoogle(ctx, "admin-token")
	require.NoError(t, err)
	identity, err := auth.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, identity.Role)

	token, err = auth.LoginWithGoogle(ctx, "voter-token")
	require.NoError(t, err)
	identity, err = auth.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVoter, identity.Role)

	// Second login reuses the stored user.
	again, err := auth.LoginWithGoogle(ctx, "voter-token")
	require.NoError(t, err)
	second, err := auth.ParseAccessToken(again)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, second.UserID)

	user, err := users.GetByID(ctx, identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, "voter@example.com", user.Email)

	_, err = auth.LoginWithGoogle(ctx, "forged")
	assert.Error(t, err)
}

func TestAuthService_ParseAccessTokenRejects(t *testing.T) {
	clock := newTestClock(time.Now())
	auth, _ := newTestAuth(t, clock)

	token, err := auth.IssueAccessToken(&domain.User{Email: "a@example.com", Role: domain.RoleVoter})
	require.NoError(t, err)

	clock.Set(clock.Now().Add(2 * time.Hour))
	_, err = auth.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": clock.Now().Add(time.Hour).Unix(),
	})
	signed, err := other.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = auth.ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "00000000-0000-0000-0000-000000000001",
		"exp": clock.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = auth.ParseAccessToken(wrongKey)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ParseAccessToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// lateUsers hides stored users from the first lookup, like a login that
// raced another first login for the same email.
type lateUsers struct {
	ports.UserRepository
	hidden bool
}

func (r *lateUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if !r.hidden {
		r.hidden = true
		return nil, domain.ErrUserNotFound
	}
	return r.UserRepository.GetByEmail(ctx, email)
}

func TestAuthService_LoginReusesConcurrentlyCreatedUser(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(time.Now())
	users := memory.NewStore().Users()
	existing := &domain.User{Email: "voter@example.com", Name: "Voter", Role: domain.RoleVoter}
	require.NoError(t, users.Create(ctx, existing))

	verifier := &stubVerifier{payloads: map[string]*ports.TokenPayload{
		"voter-token": {Email: "voter@example.com", Name: "Voter"},
	}}
	auth, err := NewAuthService(&lateUsers{UserRepository: users}, verifier, AuthConfig{
		JWTSecret:      "secret",
		AccessTokenTTL: time.Hour,
	}, clock.Now)
	require.NoError(t, err)

	token, err := auth.LoginWithGoogle(ctx, "voter-token")
	require.NoError(t, err)
	identity, err := auth.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, identity.UserID)
}

func TestAuthService_RequiresSigningKey(t *testing.T) {
	users := memory.NewStore().Users()

	auth, err := NewAuthService(users, &stubVerifier{}, AuthConfig{AccessTokenTTL: time.Hour}, time.Now)
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
	assert.Nil(t, auth)

	// A token signed with an empty key must never pass, even on a service
	// that was built without the constructor.
	unkeyed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"role": string(domain.RoleAdmin),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte{})
	require.NoError(t, err)

	_, err = (&AuthService{now: time.Now}).ParseAccessToken(unkeyed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
