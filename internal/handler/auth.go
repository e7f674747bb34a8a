package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/config"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/middleware"
	"github.com/airneis/airneis-api/internal/service"
)

const (
	refreshTokenCookie = "refresh_token"
	refreshCookiePath  = "/api/auth/refresh"
	authCookieMaxAge   = 7 * 24 * 60 * 60
)

type AuthHandler struct {
	auth   *service.AuthService
	cfg    *config.Config
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg, logger: logger}
}

func (h *AuthHandler) Register(r gin.IRouter) {
	auth := r.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
}

// setTokenCookies stores the pair in cookies. The refresh token is
// scoped to the refresh route only and never sent anywhere else.
func (h *AuthHandler) setTokenCookies(c *gin.Context, tokens *dto.TokenPair) {
	secure := !h.cfg.IsDevelopment()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, authCookieMaxAge, "/", "", secure, true)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshTokenCookie, tokens.RefreshToken, authCookieMaxAge, refreshCookiePath, "", secure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	secure := !h.cfg.IsDevelopment()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", secure, true)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshTokenCookie, "", -1, refreshCookiePath, "", secure, true)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tokens, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if req.Cookies {
		h.setTokenCookies(c, tokens)
	}
	ok(c, http.StatusCreated, gin.H{"tokens": tokens})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tokens, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if req.Cookies {
		h.setTokenCookies(c, tokens)
	}
	ok(c, http.StatusOK, gin.H{"tokens": tokens})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	// An empty body is fine here, the token may live in a cookie.
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	token := req.RefreshToken
	if token == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			token = cookie
		}
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	if req.Cookies {
		h.setTokenCookies(c, tokens)
	}
	ok(c, http.StatusOK, gin.H{"tokens": tokens})
}

func (h *AuthHandler) logout(c *gin.Context) {
	h.clearTokenCookies(c)
	ok(c, http.StatusOK, gin.H{"message": "Logged out"})
}
