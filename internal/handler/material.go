package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/service"
)

type MaterialHandler struct {
	materials *service.MaterialService
	logger    *slog.Logger
}

func NewMaterialHandler(materials *service.MaterialService, logger *slog.Logger) *MaterialHandler {
	return &MaterialHandler{materials: materials, logger: logger}
}

func (h *MaterialHandler) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	materials := r.Group("/materials")
	materials.GET("", h.findAll)
	materials.GET("/:id", h.findOne)

	materials.POST("", auth, admin, h.create)
	materials.PATCH("/:id", auth, admin, h.update)
	materials.DELETE("/:id", auth, admin, h.remove)
}

func (h *MaterialHandler) create(c *gin.Context) {
	var req dto.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	material, err := h.materials.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"material": material})
}

func (h *MaterialHandler) findAll(c *gin.Context) {
	materials, err := h.materials.FindAll(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"materials": materials})
}

func (h *MaterialHandler) findOne(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	material, err := h.materials.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"material": material})
}

func (h *MaterialHandler) update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	material, err := h.materials.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"material": material})
}

func (h *MaterialHandler) remove(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.materials.Remove(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}
