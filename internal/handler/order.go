package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/service"
)

// OrderHandler is the admin view over all orders.
type OrderHandler struct {
	orders *service.OrderService
	logger *slog.Logger
}

func NewOrderHandler(orders *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

func (h *OrderHandler) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	orders := r.Group("/orders", auth, admin)
	orders.GET("", h.findAll)
	orders.GET("/:id", h.findOne)
	orders.PATCH("/:id", h.update)
}

func (h *OrderHandler) findAll(c *gin.Context) {
	var query dto.QueryOrderFilters
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.orders.FindAll(c.Request.Context(), query)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"orders":     page.Orders,
		"page":       page.Page,
		"limit":      page.Limit,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	})
}

func (h *OrderHandler) findOne(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	order, err := h.orders.FindOne(c.Request.Context(), id, nil)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}
