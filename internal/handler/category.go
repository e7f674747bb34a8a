package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/service"
)

type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// Register mounts public reads and admin-only mutations.
func (h *CategoryHandler) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	categories := r.Group("/categories")
	categories.GET("", h.findAll)
	categories.GET("/:id", h.findOne)
	categories.GET("/slug/:slug", h.findBySlug)

	categories.POST("", auth, admin, h.create)
	categories.PATCH("/:id", auth, admin, h.update)
	categories.DELETE("/:id", auth, admin, h.remove)
}

func (h *CategoryHandler) create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"category": category})
}

func (h *CategoryHandler) findAll(c *gin.Context) {
	categories, err := h.categories.FindAll(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) findOne(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	category, err := h.categories.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) findBySlug(c *gin.Context) {
	category, err := h.categories.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) remove(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.categories.Remove(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}
