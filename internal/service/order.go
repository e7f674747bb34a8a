package service

import (
	"context"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

// OrderService turns baskets into orders. Placing an order snapshots the
// product lines and both addresses so later catalog or address edits
// never change what was bought.
type OrderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	basketRepo  repository.BasketRepository
	productRepo repository.ProductRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	basketRepo repository.BasketRepository,
	productRepo repository.ProductRepository,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		basketRepo:  basketRepo,
		productRepo: productRepo,
	}
}

type OrderPage struct {
	Orders     []model.Order
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func snapshotAddress(a *model.UserAddress) *model.OrderAddress {
	return &model.OrderAddress{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Address1:   a.Address1,
		Address2:   a.Address2,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func (s *OrderService) Create(ctx context.Context, userID int64, req dto.CreateOrderRequest) (*model.Order, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.BadRequest("User with id %d not found", userID)
	}

	items, err := s.basketRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.BadRequest("Empty basket")
	}

	billing, err := s.addressRepo.GetByUser(ctx, userID, req.BillingAddressID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		return nil, apperr.BadRequest("Billing address with id %d not found for user with id %d", req.BillingAddressID, userID)
	}
	shipping, err := s.addressRepo.GetByUser(ctx, userID, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if shipping == nil {
		return nil, apperr.BadRequest("Shipping address with id %d not found for user with id %d", req.ShippingAddressID, userID)
	}

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		BillingAddress:  snapshotAddress(billing),
		ShippingAddress: snapshotAddress(shipping),
		Products:        []model.OrderProduct{},
	}
	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperr.BadRequest("Product with id %d not found", item.ProductID)
		}
		productID := product.ID
		order.Products = append(order.Products, model.OrderProduct{
			ProductID: &productID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
	}

	// One transaction: address snapshots, order row, line snapshots and
	// the basket wipe all land or none do.
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) FindAll(ctx context.Context, query dto.QueryOrderFilters) (*OrderPage, error) {
	if query.User != nil {
		user, err := s.userRepo.GetByID(ctx, *query.User)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, apperr.BadRequest("User with id %d not found", *query.User)
		}
	}

	filters := repository.OrderFilters{UserID: query.User, Order: query.Order}
	count, err := s.orderRepo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}
	offset, totalPages, err := paginate(count, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	filters.Limit = query.Limit
	filters.Offset = offset

	orders, err := s.orderRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return &OrderPage{
		Orders:     orders,
		Page:       pageOrDefault(query.Page),
		Limit:      query.Limit,
		Total:      count,
		TotalPages: totalPages,
	}, nil
}

// FindOne loads an order. A non-nil userID additionally requires the
// order to belong to that user, and hides its existence otherwise.
func (s *OrderService) FindOne(ctx context.Context, orderID int64, userID *int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.BadRequest("Order with id %d not found", orderID)
	}
	if userID != nil && order.UserID != *userID {
		return nil, apperr.BadRequest("Order with id %d not found for user with id %d", orderID, *userID)
	}
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, orderID int64, req dto.UpdateOrderRequest) (*model.Order, error) {
	if !req.Status.Valid() {
		return nil, apperr.BadRequest("Invalid order status %s", req.Status)
	}
	order, err := s.FindOne(ctx, orderID, nil)
	if err != nil {
		return nil, err
	}

	affected, err := s.orderRepo.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		return nil, apperr.Internal("Failed to update order with id %d", orderID)
	}
	order.Status = req.Status
	return order, nil
}

// Cancel moves an order to canceled, once. Orders already handed to
// fulfillment cannot be canceled anymore.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID int64) (*model.Order, error) {
	order, err := s.FindOne(ctx, orderID, &userID)
	if err != nil {
		return nil, err
	}

	if order.Status == model.OrderStatusCanceled {
		return nil, apperr.BadRequest("Order with id %d is already canceled", orderID)
	}
	if !order.Status.Cancelable() {
		return nil, apperr.BadRequest("Order with id %d cannot be canceled", orderID)
	}

	affected, err := s.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatusCanceled)
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		return nil, apperr.Internal("Failed to cancel order with id %d", orderID)
	}
	order.Status = model.OrderStatusCanceled
	return order, nil
}
