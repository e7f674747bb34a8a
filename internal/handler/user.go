package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/middleware"
	"github.com/airneis/airneis-api/internal/service"
)

// UserHandler serves the authenticated user's own account: profile,
// addresses, basket, payment methods and orders.
type UserHandler struct {
	users  *service.UsersService
	orders *service.OrderService
	logger *slog.Logger
}

func NewUserHandler(users *service.UsersService, orders *service.OrderService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, orders: orders, logger: logger}
}

func (h *UserHandler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	me := r.Group("/user", auth)
	me.GET("", h.me)
	me.PATCH("", h.update)
	me.PATCH("/password", h.updatePassword)
	me.DELETE("", h.remove)

	me.GET("/addresses", h.findAddresses)
	me.POST("/addresses", h.createAddress)
	me.GET("/addresses/:addressId", h.findAddress)
	me.PATCH("/addresses/:addressId", h.updateAddress)
	me.DELETE("/addresses/:addressId", h.removeAddress)

	me.GET("/basket", h.getBasket)
	me.POST("/basket", h.addBasketItem)
	me.PATCH("/basket", h.updateBasketItem)
	me.DELETE("/basket", h.removeBasketItem)
	me.POST("/basket/clear", h.clearBasket)

	me.GET("/payment-methods", h.findPaymentMethods)
	me.POST("/payment-methods", h.createPaymentMethod)
	me.GET("/payment-methods/:methodId", h.findPaymentMethod)
	me.PATCH("/payment-methods/:methodId", h.updatePaymentMethod)
	me.DELETE("/payment-methods/:methodId", h.removePaymentMethod)

	me.GET("/orders", h.findOrders)
	me.POST("/orders", h.createOrder)
	me.GET("/orders/:orderId", h.findOrder)
	me.POST("/orders/:orderId/cancel", h.cancelOrder)
}

func (h *UserHandler) me(c *gin.Context) {
	current := middleware.GetUser(c)
	user, err := h.users.FindOne(c.Request.Context(), current.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) update(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.SelfUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// Role changes stay admin-only.
	user, err := h.users.Update(c.Request.Context(), current.ID, dto.UpdateUserRequest{
		Name:                     req.Name,
		Email:                    req.Email,
		DefaultBillingAddressID:  req.DefaultBillingAddressID,
		DefaultShippingAddressID: req.DefaultShippingAddressID,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) updatePassword(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), current.ID, req); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (h *UserHandler) remove(c *gin.Context) {
	current := middleware.GetUser(c)
	if err := h.users.Remove(c.Request.Context(), current.ID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

// Addresses.

func (h *UserHandler) createAddress(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	address, err := h.users.CreateAddress(c.Request.Context(), current.ID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"address": address})
}

func (h *UserHandler) findAddresses(c *gin.Context) {
	current := middleware.GetUser(c)
	addresses, err := h.users.FindAddresses(c.Request.Context(), current.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"addresses": addresses})
}

func (h *UserHandler) findAddress(c *gin.Context) {
	current := middleware.GetUser(c)
	addressID, valid := parseID(c, "addressId")
	if !valid {
		return
	}
	address, err := h.users.FindAddress(c.Request.Context(), current.ID, addressID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"address": address})
}

func (h *UserHandler) updateAddress(c *gin.Context) {
	current := middleware.GetUser(c)
	addressID, valid := parseID(c, "addressId")
	if !valid {
		return
	}
	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	address, err := h.users.UpdateAddress(c.Request.Context(), current.ID, addressID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"address": address})
}

func (h *UserHandler) removeAddress(c *gin.Context) {
	current := middleware.GetUser(c)
	addressID, valid := parseID(c, "addressId")
	if !valid {
		return
	}
	if err := h.users.RemoveAddress(c.Request.Context(), current.ID, addressID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

// Basket.

func (h *UserHandler) getBasket(c *gin.Context) {
	current := middleware.GetUser(c)
	basket, err := h.users.GetBasket(c.Request.Context(), current.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"basket": basket.Items, "basketPrice": basket.Price})
}

func (h *UserHandler) addBasketItem(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.BasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.users.AddBasketItem(c.Request.Context(), current.ID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"basketItem": item})
}

func (h *UserHandler) updateBasketItem(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.BasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.users.UpdateBasketItem(c.Request.Context(), current.ID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"basketItem": item})
}

func (h *UserHandler) removeBasketItem(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.DeleteBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.RemoveBasketItem(c.Request.Context(), current.ID, req.ProductID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (h *UserHandler) clearBasket(c *gin.Context) {
	current := middleware.GetUser(c)
	if err := h.users.ClearBasket(c.Request.Context(), current.ID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

// Payment methods.

func (h *UserHandler) createPaymentMethod(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	method, err := h.users.CreatePaymentMethod(c.Request.Context(), current.ID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"paymentMethod": method})
}

func (h *UserHandler) findPaymentMethods(c *gin.Context) {
	current := middleware.GetUser(c)
	methods, err := h.users.FindPaymentMethods(c.Request.Context(), current.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"paymentMethods": methods})
}

func (h *UserHandler) findPaymentMethod(c *gin.Context) {
	current := middleware.GetUser(c)
	methodID, valid := parseID(c, "methodId")
	if !valid {
		return
	}
	method, err := h.users.FindPaymentMethod(c.Request.Context(), current.ID, methodID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"paymentMethod": method})
}

func (h *UserHandler) updatePaymentMethod(c *gin.Context) {
	current := middleware.GetUser(c)
	methodID, valid := parseID(c, "methodId")
	if !valid {
		return
	}
	var req dto.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	method, err := h.users.UpdatePaymentMethod(c.Request.Context(), current.ID, methodID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"paymentMethod": method})
}

func (h *UserHandler) removePaymentMethod(c *gin.Context) {
	current := middleware.GetUser(c)
	methodID, valid := parseID(c, "methodId")
	if !valid {
		return
	}
	if err := h.users.RemovePaymentMethod(c.Request.Context(), current.ID, methodID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

// Orders.

func (h *UserHandler) createOrder(c *gin.Context) {
	current := middleware.GetUser(c)
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.orders.Create(c.Request.Context(), current.ID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"order": order})
}

func (h *UserHandler) findOrders(c *gin.Context) {
	current := middleware.GetUser(c)
	var query dto.QueryOrderFilters
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	query.User = &current.ID

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

func (h *UserHandler) findOrder(c *gin.Context) {
	current := middleware.GetUser(c)
	orderID, valid := parseID(c, "orderId")
	if !valid {
		return
	}
	order, err := h.orders.FindOne(c.Request.Context(), orderID, &current.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}

func (h *UserHandler) cancelOrder(c *gin.Context) {
	current := middleware.GetUser(c)
	orderID, valid := parseID(c, "orderId")
	if !valid {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), orderID, current.ID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"order": order})
}
