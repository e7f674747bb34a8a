package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/config"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
)

func requireStatus(t *testing.T, err error, status int) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.From(err)
	require.NotNil(t, appErr, "expected a status-carrying error, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
	return appErr
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-access-secret",
		Expiration:        time.Hour,
		RefreshSecret:     "test-refresh-secret",
		RefreshExpiration: 2 * time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTConfig())

	tokens, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "John Doe", Email: "john@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	user, err := repo.GetByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	id, err := svc.VerifyAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTConfig())

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "John", Email: "john@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Impostor", Email: "John@Example.com", Password: "password456",
	})
	appErr := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "Email is already in use", appErr.Message)
}

func TestAuthService_Login_SameErrorForUnknownEmailAndBadPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	_ = repo.Create(context.Background(), &model.User{
		Name: "John", Email: "john@example.com", Password: string(hash), Role: model.RoleUser,
	})

	_, unknownErr := svc.Login(context.Background(), dto.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	_, badPassErr := svc.Login(context.Background(), dto.LoginRequest{
		Email: "john@example.com", Password: "wrong-password",
	})

	unknown := requireStatus(t, unknownErr, http.StatusUnauthorized)
	badPass := requireStatus(t, badPassErr, http.StatusUnauthorized)
	assert.Equal(t, unknown.Message, badPass.Message)
	assert.Equal(t, "Invalid credentials", unknown.Message)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	_ = repo.Create(context.Background(), &model.User{
		Name: "John", Email: "john@example.com", Password: string(hash), Role: model.RoleUser,
	})

	tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "john@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTConfig())

	tokens, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "John", Email: "john@example.com", Password: "password123",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	// The two token kinds are signed with distinct secrets, so an access
	// token can never be replayed as a refresh token.
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTConfig())

	tokens, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "John", Email: "john@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	appErr := requireStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid refresh token", appErr.Message)
}

func TestAuthService_Refresh_Garbage(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTConfig())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	requireStatus(t, err, http.StatusUnauthorized)
}
