package dto

import "github.com/airneis/airneis-api/internal/model"

type CreateOrderRequest struct {
	BillingAddressID  int64 `json:"billingAddressId" binding:"required"`
	ShippingAddressID int64 `json:"shippingAddressId" binding:"required"`
}

type UpdateOrderRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type QueryOrderFilters struct {
	User  *int64 `form:"user" binding:"omitempty,min=1"`
	Order string `form:"order,default=desc" binding:"omitempty,oneof=asc desc"`
	Page  int    `form:"page"`
	Limit int    `form:"limit,default=10"`
}
