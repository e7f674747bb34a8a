package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/apperr"
)

// ok writes the success envelope, merging the extra payload fields in.
func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail translates an error into the failure envelope. Errors that do not
// carry a status are logged and become an opaque 500.
func fail(c *gin.Context, logger *slog.Logger, err error) {
	if appErr := apperr.From(err); appErr != nil {
		c.JSON(appErr.StatusCode, gin.H{
			"success":    false,
			"statusCode": appErr.StatusCode,
			"message":    appErr.Message,
		})
		return
	}

	logger.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success":    false,
		"statusCode": http.StatusInternalServerError,
		"message":    "Internal server error",
	})
}

// badRequest reports a malformed request body or query string.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"statusCode": http.StatusBadRequest,
		"message":    err.Error(),
	})
}

// parseID reads a numeric path parameter. Non-numeric input is a 400,
// never a silent zero.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":    false,
			"statusCode": http.StatusBadRequest,
			"message":    "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return id, true
}
