package dto

import "github.com/airneis/airneis-api/internal/model"

type CreateUserRequest struct {
	Name     string     `json:"name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8"`
	Role     model.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// UpdateUserRequest is the admin-side partial update. Default address
// fields are tri-state: absent keeps, null clears, id assigns.
type UpdateUserRequest struct {
	Name                     *string         `json:"name"`
	Email                    *string         `json:"email" binding:"omitempty,email"`
	Role                     *model.Role     `json:"role" binding:"omitempty,oneof=user admin"`
	DefaultBillingAddressID  Optional[int64] `json:"defaultBillingAddressId"`
	DefaultShippingAddressID Optional[int64] `json:"defaultShippingAddressId"`
}

// SelfUpdateUserRequest is UpdateUserRequest without the role field.
type SelfUpdateUserRequest struct {
	Name                     *string         `json:"name"`
	Email                    *string         `json:"email" binding:"omitempty,email"`
	DefaultBillingAddressID  Optional[int64] `json:"defaultBillingAddressId"`
	DefaultShippingAddressID Optional[int64] `json:"defaultShippingAddressId"`
}

type PasswordUpdateRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type QueryUserFilters struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit,default=10"`
}

type AddressRequest struct {
	FirstName  string            `json:"firstName" binding:"required"`
	LastName   string            `json:"lastName" binding:"required"`
	Address1   string            `json:"address1" binding:"required"`
	Address2   *string           `json:"address2"`
	City       string            `json:"city" binding:"required"`
	Region     string            `json:"region" binding:"required"`
	PostalCode string            `json:"postalCode" binding:"required"`
	Country    string            `json:"country" binding:"required"`
	Phone      string            `json:"phone" binding:"required"`
	Type       model.AddressType `json:"type" binding:"required,oneof=billing shipping"`
}

type UpdateAddressRequest struct {
	FirstName  *string            `json:"firstName"`
	LastName   *string            `json:"lastName"`
	Address1   *string            `json:"address1"`
	Address2   Optional[string]   `json:"address2"`
	City       *string            `json:"city"`
	Region     *string            `json:"region"`
	PostalCode *string            `json:"postalCode"`
	Country    *string            `json:"country"`
	Phone      *string            `json:"phone"`
	Type       *model.AddressType `json:"type" binding:"omitempty,oneof=billing shipping"`
}

type BasketRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type DeleteBasketRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

type PaymentMethodRequest struct {
	Label           *string `json:"label"`
	FullName        string  `json:"fullName" binding:"required"`
	CardNumber      string  `json:"cardNumber" binding:"required,len=16"`
	ExpirationMonth int     `json:"expirationMonth" binding:"required,min=1,max=12"`
	ExpirationYear  int     `json:"expirationYear" binding:"required"`
	CVV             string  `json:"cvv" binding:"required,min=3,max=4"`
}

// PaymentMethodResponse exposes only the last four card digits. The raw
// number and CVV never leave the service layer.
type PaymentMethodResponse struct {
	ID              int64   `json:"id"`
	Label           *string `json:"label"`
	FullName        string  `json:"fullName"`
	LastDigits      string  `json:"lastDigits"`
	ExpirationMonth int     `json:"expirationMonth"`
	ExpirationYear  int     `json:"expirationYear"`
}
