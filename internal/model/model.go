package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// Cancelable reports whether a user may still cancel an order in this status.
func (s OrderStatus) Cancelable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type User struct {
	ID                       int64        `json:"id"`
	Name                     string       `json:"name"`
	Email                    string       `json:"email"`
	Password                 string       `json:"-"`
	Role                     Role         `json:"role"`
	DefaultBillingAddressID  *int64       `json:"-"`
	DefaultShippingAddressID *int64       `json:"-"`
	DefaultBillingAddress    *UserAddress `json:"defaultBillingAddress,omitempty"`
	DefaultShippingAddress   *UserAddress `json:"defaultShippingAddress,omitempty"`
	CreatedAt                time.Time    `json:"createdAt"`
	UpdatedAt                time.Time    `json:"updatedAt"`
}

type UserAddress struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"-"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Address1   string      `json:"address1"`
	Address2   *string     `json:"address2"`
	City       string      `json:"city"`
	Region     string      `json:"region"`
	PostalCode string      `json:"postalCode"`
	Country    string      `json:"country"`
	Phone      string      `json:"phone"`
	Type       AddressType `json:"type"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// BasketItem is one row of a user's basket. At most one row may exist per
// (user, product) pair; the user_basket table enforces this.
type BasketItem struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"-"`
	ProductID int64     `json:"-"`
	Product   *Product  `json:"product"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PaymentMethod struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"-"`
	Label           *string `json:"label"`
	FullName        string  `json:"fullName"`
	CardNumber      string  `json:"-"`
	ExpirationMonth int     `json:"expirationMonth"`
	ExpirationYear  int     `json:"expirationYear"`
	CVV             string  `json:"-"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	ThumbnailID *int64    `json:"-"`
	Thumbnail   *Media    `json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Material struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const MediaMaxSize = 10 * 1024 * 1024

var MediaAllowedTypes = []string{"image/png", "image/jpg", "image/jpeg"}

type Media struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Filename  string    `json:"filename"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Slug              string          `json:"slug"`
	Price             decimal.Decimal `json:"price"`
	Stock             int             `json:"stock"`
	Priority          int             `json:"priority"`
	IsFeatured        bool            `json:"isFeatured"`
	CategoryID        *int64          `json:"-"`
	Category          *Category       `json:"category,omitempty"`
	Materials         []Material      `json:"materials"`
	Images            []Media         `json:"images"`
	BackgroundImageID *int64          `json:"-"`
	BackgroundImage   *Media          `json:"backgroundImage,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type Order struct {
	ID                int64          `json:"id"`
	UserID            int64          `json:"userId"`
	Status            OrderStatus    `json:"status"`
	BillingAddressID  int64          `json:"-"`
	ShippingAddressID int64          `json:"-"`
	BillingAddress    *OrderAddress  `json:"billingAddress,omitempty"`
	ShippingAddress   *OrderAddress  `json:"shippingAddress,omitempty"`
	Products          []OrderProduct `json:"products"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// OrderAddress is an immutable copy of a user address taken at order time.
type OrderAddress struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Address1   string    `json:"address1"`
	Address2   *string   `json:"address2"`
	City       string    `json:"city"`
	Region     string    `json:"region"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OrderProduct copies the product name and price at order time so the
// order total stays stable when the catalog changes. ProductID is nil
// once the original product has been deleted.
type OrderProduct struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"-"`
	ProductID *int64          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
