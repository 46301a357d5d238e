package service

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	"github.com/nutratech/prf-api/pkg/config"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type authStoreStub struct {
	users    map[string]*models.User
	refresh  map[string]*models.RefreshToken
	nextID   int64
	nextAuto int
}

func newAuthStoreStub() *authStoreStub {
	return &authStoreStub{
		users:   make(map[string]*models.User),
		refresh: make(map[string]*models.RefreshToken),
		nextID:  1,
	}
}

func (s *authStoreStub) Create(ctx context.Context, user *models.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.Email] = user
	return nil
}

func (s *authStoreStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *authStoreStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authStoreStub) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	return nil
}

func (s *authStoreStub) StoreRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	s.nextAuto++
	token.ID = "rt-" + strconv.Itoa(s.nextAuto)
	s.refresh[token.Token] = token
	return nil
}

func (s *authStoreStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := s.refresh[token]
	if !ok || stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (s *authStoreStub) RevokeRefreshToken(ctx context.Context, id string, at time.Time) error {
	for _, stored := range s.refresh {
		if stored.ID == id {
			stored.Revoked = true
			stored.RevokedAt = &at
		}
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-at-least-32-characters",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		FullName: "Maria Santos",
		Email:    "maria@nutratech.test",
		Password: "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := newAuthStoreStub()
	svc := NewAuthService(store, testJWTConfig(), nil)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.True(t, user.Active)
	require.NotEqual(t, "correct-horse", user.PasswordHash)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "maria@nutratech.test", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)
	require.Equal(t, int64(3600), resp.Tokens.ExpiresIn)

	claims, err := svc.ValidateToken(resp.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "Maria Santos", claims.FullName)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newAuthStoreStub()
	svc := NewAuthService(store, testJWTConfig(), nil)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	requireAppError(t, err, appErrors.ErrConflict.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newAuthStoreStub()
	svc := NewAuthService(store, testJWTConfig(), nil)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "maria@nutratech.test", Password: "incorrect-horse"})
	requireAppError(t, err, appErrors.ErrInvalidCredentials.Code)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@nutratech.test", Password: "correct-horse"})
	requireAppError(t, err, appErrors.ErrInvalidCredentials.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	store := newAuthStoreStub()
	svc := NewAuthService(store, testJWTConfig(), nil)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	user.Active = false

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "maria@nutratech.test", Password: "correct-horse"})
	requireAppError(t, err, appErrors.ErrInactiveAccount.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	store := newAuthStoreStub()
	svc := NewAuthService(store, testJWTConfig(), nil)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "maria@nutratech.test", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, login.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

	// The spent token is revoked and cannot be replayed.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	requireAppError(t, err, appErrors.ErrUnauthorized.Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	store := newAuthStoreStub()
	svc := NewAuthService(store, testJWTConfig(), nil)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "maria@nutratech.test", Password: "correct-horse"})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "another-secret-entirely-different!"
	other := NewAuthService(store, otherCfg, nil)

	_, err = other.ValidateToken(login.Tokens.AccessToken)
	requireAppError(t, err, appErrors.ErrUnauthorized.Code)

	_, err = svc.ValidateToken("not.a.token")
	requireAppError(t, err, appErrors.ErrUnauthorized.Code)
}
