package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	appErrors "github.com/salemsharhan/university-management-system-sub002/pkg/errors"
)

type mockAuthRepo struct {
	users   map[string]*models.User
	tokens  map[string]*models.RefreshToken
	revoked []string
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{users: map[string]*models.User{}, tokens: map[string]*models.RefreshToken{}}
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *mockAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	m.revoked = append(m.revoked, id)
	for _, t := range m.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "university-admin-api",
	}
}

func seedUser(t *testing.T, repo *mockAuthRepo, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           "user-1",
		Email:        "registrar@example.edu",
		PasswordHash: string(hash),
		FullName:     "Test Registrar",
		Role:         models.RoleRegistrar,
		Active:       active,
	}
	repo.users[user.ID] = user
	return user
}

func TestAuthLoginIssuesVerifiableToken(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	require.Contains(t, repo.tokens, resp.RefreshToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleRegistrar, claims.Role)
	assert.Equal(t, "university-admin-api", claims.Issuer)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.edu", Password: "s3cret"})
	require.Error(t, err)
	appErr, ok = err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code, "unknown email looks identical to a bad password")
}

func TestAuthLoginRejectsInactiveAccount(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(t, repo, "s3cret", false)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "s3cret"})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.tokens[login.RefreshToken].Revoked, "used refresh token is revoked")

	_, err = svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err, "revoked token is not reusable")
}

func TestAuthRefreshRejectsExpiredToken(t *testing.T) {
	repo := newMockAuthRepo()
	seedUser(t, repo, "s3cret", true)
	repo.tokens["stale"] = &models.RefreshToken{
		ID: "tok-1", UserID: "user-1", Token: "stale",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: "stale"})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthLogoutEnforcesOwnership(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)

	err = svc.Logout(context.Background(), login.RefreshToken, "someone-else")
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, user.ID))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)
}

func TestAuthValidateTokenRejectsTampering(t *testing.T) {
	repo := newMockAuthRepo()
	user := seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "s3cret"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{
		AccessTokenSecret: "different-secret",
		AccessTokenExpiry: 15 * time.Minute,
	})
	_, err = other.ValidateToken(login.AccessToken)
	require.Error(t, err)

	_, err = svc.ValidateToken(login.AccessToken + "x")
	require.Error(t, err)
}
