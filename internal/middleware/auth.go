package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
	"github.com/airneis/airneis-api/internal/service"
)

const userContextKey = "currentUser"

// AccessTokenCookie is the cookie fallback checked when no Authorization
// header is present.
const AccessTokenCookie = "access_token"

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success":    false,
		"statusCode": http.StatusUnauthorized,
		"message":    "Unauthorized",
	})
}

// Auth authenticates the request from a bearer token or the access token
// cookie. The user is re-read from the database on every request, so a
// role change or deletion takes effect immediately regardless of what
// the token was minted with.
func Auth(auth *service.AuthService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
			token = cookie
		}
		if token == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := auth.VerifyAccessToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRole gates a route on the authenticated user's role. Admins
// pass every gate. A mismatch is reported as Unauthorized, the same as
// a missing or invalid token.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil || (user.Role != role && user.Role != model.RoleAdmin) {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

// GetUser returns the authenticated user stored by Auth, or nil.
func GetUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
