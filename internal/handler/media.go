package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/service"
)

type MediaHandler struct {
	media  *service.MediaService
	logger *slog.Logger
}

func NewMediaHandler(media *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// Register mounts the admin media management routes under the API group.
func (h *MediaHandler) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	media := r.Group("/medias", auth, admin)
	media.POST("", h.create)
	media.GET("", h.findAll)
	media.GET("/:id", h.findOne)
	media.PATCH("/:id", h.update)
	media.PUT("/:id/file", h.updateFile)
	media.DELETE("/:id", h.remove)
}

// RegisterServe mounts the public file route on the bare router, outside
// the API prefix, so stored files are fetched like static assets.
func (h *MediaHandler) RegisterServe(r gin.IRouter) {
	r.GET("/medias/serve/:hash", h.serve)
}

func (h *MediaHandler) create(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	media, err := h.media.Create(c.Request.Context(), fh)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"media": media})
}

func (h *MediaHandler) serve(c *gin.Context) {
	media, path, err := h.media.Serve(c.Request.Context(), c.Param("hash"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Header("Content-Type", media.Type)
	c.Header("Content-Disposition", `inline; filename="`+media.Name+`"`)
	c.File(path)
}

func (h *MediaHandler) findAll(c *gin.Context) {
	var query dto.QueryMediaFilters
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.media.FindAll(c.Request.Context(), query)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"media":      page.Media,
		"page":       page.Page,
		"limit":      page.Limit,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	})
}

func (h *MediaHandler) findOne(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	media, err := h.media.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"media": media})
}

func (h *MediaHandler) update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	media, err := h.media.UpdateProperties(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"media": media})
}

func (h *MediaHandler) updateFile(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	media, err := h.media.UpdateFile(c.Request.Context(), id, fh)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"media": media})
}

func (h *MediaHandler) remove(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.media.Remove(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}
