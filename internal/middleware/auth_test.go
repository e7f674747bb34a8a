package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airneis/airneis-api/internal/config"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/service"
)

type stubUserRepo struct {
	users map[int64]*model.User
}

func (s *stubUserRepo) Create(_ context.Context, user *model.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	return s.users[id], nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, nil
}

func (s *stubUserRepo) List(_ context.Context, _ string, _, _ int) ([]model.User, error) {
	return nil, nil
}

func (s *stubUserRepo) Count(_ context.Context, _ string) (int, error) { return 0, nil }

func (s *stubUserRepo) Update(_ context.Context, _ *model.User) error { return nil }

func (s *stubUserRepo) UpdatePassword(_ context.Context, _ int64, _ string) (int64, error) {
	return 0, nil
}

func (s *stubUserRepo) Delete(_ context.Context, _ int64) (int64, error) { return 0, nil }

func setupRouter(t *testing.T) (*gin.Engine, *stubUserRepo, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubUserRepo{users: map[int64]*model.User{
		1: {ID: 1, Name: "John", Email: "john@example.com", Role: model.RoleUser},
		2: {ID: 2, Name: "Root", Email: "root@example.com", Role: model.RoleAdmin},
	}}
	auth := service.NewAuthService(repo, config.JWTConfig{
		Secret: "s", Expiration: time.Hour, RefreshSecret: "r", RefreshExpiration: time.Hour,
	})

	router := gin.New()
	router.GET("/private", Auth(auth, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUser(c).ID})
	})
	router.GET("/admin", Auth(auth, repo), RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, repo, auth
}

// accessToken mints a token the same way the auth service signs them.
func accessToken(t *testing.T, _ *service.AuthService, userID int64) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("s"))
	require.NoError(t, err)
	return signed
}

func TestAuth_BearerHeader(t *testing.T) {
	router, _, auth := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, auth, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestAuth_Cookie(t *testing.T) {
	router, _, auth := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: accessToken(t, auth, 1)})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingToken(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_GarbageToken(t *testing.T) {
	router, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_DeletedUserRejected(t *testing.T) {
	router, repo, auth := setupRouter(t)
	token := accessToken(t, auth, 1)
	delete(repo.users, 1)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_AdminGate(t *testing.T) {
	router, _, auth := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, auth, 1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Unauthorized"`)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, auth, 2))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
