package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/service"
)

type ProductHandler struct {
	products *service.ProductService
	logger   *slog.Logger
}

func NewProductHandler(products *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	products := r.Group("/products")
	products.GET("", h.findAll)
	products.GET("/:id", h.findOne)
	products.GET("/slug/:slug", h.findBySlug)

	products.POST("", auth, admin, h.create)
	products.PATCH("/:id", auth, admin, h.update)
	products.DELETE("/:id", auth, admin, h.remove)
}

func (h *ProductHandler) create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"product": product})
}

func (h *ProductHandler) findAll(c *gin.Context) {
	var query dto.QueryProductFilters
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.products.FindAll(c.Request.Context(), query)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"products":   page.Products,
		"page":       page.Page,
		"limit":      page.Limit,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	})
}

func (h *ProductHandler) findOne(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	product, err := h.products.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) findBySlug(c *gin.Context) {
	product, err := h.products.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) remove(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.products.Remove(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}
