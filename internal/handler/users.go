package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/service"
)

// UsersHandler is the admin-side account management surface, including a
// view into any user's addresses and basket.
type UsersHandler struct {
	users  *service.UsersService
	logger *slog.Logger
}

func NewUsersHandler(users *service.UsersService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

func (h *UsersHandler) Register(r gin.IRouter, auth, admin gin.HandlerFunc) {
	users := r.Group("/users", auth, admin)
	users.POST("", h.create)
	users.GET("", h.findAll)
	users.GET("/:id", h.findOne)
	users.PATCH("/:id", h.update)
	users.DELETE("/:id", h.remove)

	users.GET("/:id/addresses", h.findAddresses)
	users.POST("/:id/addresses", h.createAddress)
	users.GET("/:id/addresses/:addressId", h.findAddress)
	users.PATCH("/:id/addresses/:addressId", h.updateAddress)
	users.DELETE("/:id/addresses/:addressId", h.removeAddress)

	users.GET("/:id/basket", h.getBasket)
	users.POST("/:id/basket", h.addBasketItem)
	users.PATCH("/:id/basket", h.updateBasketItem)
	users.DELETE("/:id/basket", h.removeBasketItem)
	users.DELETE("/:id/basket/clear", h.clearBasket)

	users.GET("/:id/payment-methods", h.findPaymentMethods)
}

func (h *UsersHandler) create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"user": user})
}

func (h *UsersHandler) findAll(c *gin.Context) {
	var query dto.QueryUserFilters
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.users.FindAll(c.Request.Context(), query)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"users":      page.Users,
		"page":       page.Page,
		"limit":      page.Limit,
		"total":      page.Total,
		"totalPages": page.TotalPages,
	})
}

func (h *UsersHandler) findOne(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	user, err := h.users.FindOne(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

func (h *UsersHandler) update(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

func (h *UsersHandler) remove(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.users.Remove(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (h *UsersHandler) createAddress(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	address, err := h.users.CreateAddress(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"address": address})
}

func (h *UsersHandler) findAddresses(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	addresses, err := h.users.FindAddresses(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"addresses": addresses})
}

func (h *UsersHandler) findAddress(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	addressID, valid := parseID(c, "addressId")
	if !valid {
		return
	}
	address, err := h.users.FindAddress(c.Request.Context(), id, addressID)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"address": address})
}

func (h *UsersHandler) updateAddress(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	addressID, valid := parseID(c, "addressId")
	if !valid {
		return
	}
	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	address, err := h.users.UpdateAddress(c.Request.Context(), id, addressID, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"address": address})
}

func (h *UsersHandler) removeAddress(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	addressID, valid := parseID(c, "addressId")
	if !valid {
		return
	}
	if err := h.users.RemoveAddress(c.Request.Context(), id, addressID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (h *UsersHandler) getBasket(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	basket, err := h.users.GetBasket(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"basket": basket.Items, "basketPrice": basket.Price})
}

func (h *UsersHandler) addBasketItem(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.BasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.users.AddBasketItem(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"basketItem": item})
}

func (h *UsersHandler) updateBasketItem(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.BasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.users.UpdateBasketItem(c.Request.Context(), id, req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"basketItem": item})
}

func (h *UsersHandler) removeBasketItem(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	var req dto.DeleteBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.RemoveBasketItem(c.Request.Context(), id, req.ProductID); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (h *UsersHandler) clearBasket(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	if err := h.users.ClearBasket(c.Request.Context(), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{})
}

func (h *UsersHandler) findPaymentMethods(c *gin.Context) {
	id, valid := parseID(c, "id")
	if !valid {
		return
	}
	methods, err := h.users.FindPaymentMethods(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"paymentMethods": methods})
}
