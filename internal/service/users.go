package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

// UsersService owns accounts and everything hanging off them: addresses,
// the basket and stored payment methods.
type UsersService struct {
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	basketRepo  repository.BasketRepository
	paymentRepo repository.PaymentMethodRepository
	productRepo repository.ProductRepository
}

func NewUsersService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	basketRepo repository.BasketRepository,
	paymentRepo repository.PaymentMethodRepository,
	productRepo repository.ProductRepository,
) *UsersService {
	return &UsersService{
		userRepo:    userRepo,
		addressRepo: addressRepo,
		basketRepo:  basketRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
	}
}

type UserPage struct {
	Users      []model.User
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

type Basket struct {
	Items []model.BasketItem
	Price decimal.Decimal
}

func (s *UsersService) Create(ctx context.Context, req dto.CreateUserRequest) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Email %s is already in use", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email %s is already in use", req.Email)
		}
		return nil, err
	}
	return user, nil
}

func (s *UsersService) FindAll(ctx context.Context, filters dto.QueryUserFilters) (*UserPage, error) {
	count, err := s.userRepo.Count(ctx, filters.Search)
	if err != nil {
		return nil, err
	}
	offset, totalPages, err := paginate(count, filters.Page, filters.Limit)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, filters.Search, filters.Limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserPage{
		Users:      users,
		Page:       pageOrDefault(filters.Page),
		Limit:      filters.Limit,
		Total:      count,
		TotalPages: totalPages,
	}, nil
}

// FindOne loads a user with its default addresses resolved.
func (s *UsersService) FindOne(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User with id %d not found", id)
	}

	if user.DefaultBillingAddressID != nil {
		user.DefaultBillingAddress, err = s.addressRepo.GetByUser(ctx, user.ID, *user.DefaultBillingAddressID)
		if err != nil {
			return nil, err
		}
	}
	if user.DefaultShippingAddressID != nil {
		user.DefaultShippingAddress, err = s.addressRepo.GetByUser(ctx, user.ID, *user.DefaultShippingAddressID)
		if err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UsersService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User with id %d not found", id)
	}

	if req.Email != nil {
		if strings.EqualFold(*req.Email, user.Email) {
			return nil, apperr.BadRequest("New email must be different from the current email")
		}
		taken, err := s.userRepo.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, apperr.Conflict("Email %s is already in use by another user", *req.Email)
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.applyDefaultAddress(ctx, user, req.DefaultBillingAddressID, model.AddressTypeBilling); err != nil {
		return nil, err
	}
	if err := s.applyDefaultAddress(ctx, user, req.DefaultShippingAddressID, model.AddressTypeShipping); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Email %s is already in use by another user", user.Email)
		}
		return nil, err
	}
	return s.FindOne(ctx, id)
}

func (s *UsersService) applyDefaultAddress(ctx context.Context, user *model.User, field dto.Optional[int64], kind model.AddressType) error {
	if !field.Set {
		return nil
	}
	if field.Value == nil {
		if kind == model.AddressTypeBilling {
			user.DefaultBillingAddressID = nil
		} else {
			user.DefaultShippingAddressID = nil
		}
		return nil
	}

	address, err := s.addressRepo.GetByUser(ctx, user.ID, *field.Value)
	if err != nil {
		return err
	}
	if address == nil {
		return apperr.NotFound("Address with id %d not found for user with id %d", *field.Value, user.ID)
	}
	if address.Type != kind {
		return apperr.BadRequest("Address with id %d is not a %s address", address.ID, kind)
	}

	if kind == model.AddressTypeBilling {
		user.DefaultBillingAddressID = &address.ID
	} else {
		user.DefaultShippingAddressID = &address.ID
	}
	return nil
}

func (s *UsersService) UpdatePassword(ctx context.Context, id int64, req dto.PasswordUpdateRequest) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User with id %d not found", id)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return apperr.Unauthorized("Old password is incorrect")
	}
	if req.OldPassword == req.NewPassword {
		return apperr.BadRequest("New password must be different from the old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	affected, err := s.userRepo.UpdatePassword(ctx, id, string(hash))
	if err != nil {
		return err
	}
	if affected != 1 {
		return apperr.Internal("Failed to update password for user with id %d", id)
	}
	return nil
}

func (s *UsersService) Remove(ctx context.Context, id int64) error {
	affected, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("User with id %d not found", id)
	}
	return nil
}

func (s *UsersService) ensureUser(ctx context.Context, id int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("User with id %d not found", id)
	}
	return nil
}

// Addresses.

func (s *UsersService) CreateAddress(ctx context.Context, userID int64, req dto.AddressRequest) (*model.UserAddress, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	address := &model.UserAddress{
		UserID:     userID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address1:   req.Address1,
		Address2:   req.Address2,
		City:       req.City,
		Region:     req.Region,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
		Type:       req.Type,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *UsersService) FindAddresses(ctx context.Context, userID int64) ([]model.UserAddress, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []model.UserAddress{}
	}
	return addresses, nil
}

func (s *UsersService) FindAddress(ctx context.Context, userID, addressID int64) (*model.UserAddress, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	address, err := s.addressRepo.GetByUser(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, apperr.NotFound("Address with id %d not found for user with id %d", addressID, userID)
	}
	return address, nil
}

func (s *UsersService) UpdateAddress(ctx context.Context, userID, addressID int64, req dto.UpdateAddressRequest) (*model.UserAddress, error) {
	address, err := s.FindAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		address.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		address.LastName = *req.LastName
	}
	if req.Address1 != nil {
		address.Address1 = *req.Address1
	}
	if req.Address2.Set {
		address.Address2 = req.Address2.Value
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.Region != nil {
		address.Region = *req.Region
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.Phone != nil {
		address.Phone = *req.Phone
	}
	if req.Type != nil {
		address.Type = *req.Type
	}

	affected, err := s.addressRepo.Update(ctx, address)
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		return nil, apperr.Internal("Failed to update address with id %d", addressID)
	}
	return address, nil
}

func (s *UsersService) RemoveAddress(ctx context.Context, userID, addressID int64) error {
	if _, err := s.FindAddress(ctx, userID, addressID); err != nil {
		return err
	}
	affected, err := s.addressRepo.Delete(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if affected != 1 {
		return apperr.Internal("Failed to remove address with id %d", addressID)
	}
	return nil
}

// Basket.

func (s *UsersService) GetBasket(ctx context.Context, userID int64) (*Basket, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	items, err := s.basketRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	basket := &Basket{Items: []model.BasketItem{}, Price: decimal.Zero}
	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}
		item.Product = product
		basket.Items = append(basket.Items, item)
		basket.Price = basket.Price.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return basket, nil
}

func (s *UsersService) AddBasketItem(ctx context.Context, userID int64, req dto.BasketRequest) (*model.BasketItem, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product with id %d not found", req.ProductID)
	}

	exists, err := s.basketRepo.Exists(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Product with id %d is already in the basket", req.ProductID)
	}

	item := &model.BasketItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := s.basketRepo.Insert(ctx, item); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Product with id %d is already in the basket", req.ProductID)
		}
		return nil, err
	}
	item.Product = product
	return item, nil
}

func (s *UsersService) UpdateBasketItem(ctx context.Context, userID int64, req dto.BasketRequest) (*model.BasketItem, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product with id %d not found", req.ProductID)
	}

	affected, err := s.basketRepo.UpdateQuantity(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.NotFound("Product with id %d is not in the basket", req.ProductID)
	}

	return &model.BasketItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Product:   product,
		Quantity:  req.Quantity,
	}, nil
}

func (s *UsersService) RemoveBasketItem(ctx context.Context, userID, productID int64) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.NotFound("Product with id %d not found", productID)
	}

	affected, err := s.basketRepo.Delete(ctx, userID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Product with id %d is not in the basket", productID)
	}
	return nil
}

func (s *UsersService) ClearBasket(ctx context.Context, userID int64) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	return s.basketRepo.Clear(ctx, userID)
}

// Payment methods.

func redactPaymentMethod(m *model.PaymentMethod) *dto.PaymentMethodResponse {
	lastDigits := m.CardNumber
	if len(lastDigits) > 4 {
		lastDigits = lastDigits[len(lastDigits)-4:]
	}
	return &dto.PaymentMethodResponse{
		ID:              m.ID,
		Label:           m.Label,
		FullName:        m.FullName,
		LastDigits:      lastDigits,
		ExpirationMonth: m.ExpirationMonth,
		ExpirationYear:  m.ExpirationYear,
	}
}

func (s *UsersService) CreatePaymentMethod(ctx context.Context, userID int64, req dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	method := &model.PaymentMethod{
		UserID:          userID,
		Label:           req.Label,
		FullName:        req.FullName,
		CardNumber:      req.CardNumber,
		ExpirationMonth: req.ExpirationMonth,
		ExpirationYear:  req.ExpirationYear,
		CVV:             req.CVV,
	}
	if err := s.paymentRepo.Create(ctx, method); err != nil {
		return nil, err
	}
	return redactPaymentMethod(method), nil
}

func (s *UsersService) FindPaymentMethods(ctx context.Context, userID int64) ([]dto.PaymentMethodResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	methods, err := s.paymentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := []dto.PaymentMethodResponse{}
	for i := range methods {
		responses = append(responses, *redactPaymentMethod(&methods[i]))
	}
	return responses, nil
}

func (s *UsersService) findPaymentMethod(ctx context.Context, userID, methodID int64) (*model.PaymentMethod, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	method, err := s.paymentRepo.GetByUser(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperr.NotFound("Payment method with id %d not found for user with id %d", methodID, userID)
	}
	return method, nil
}

func (s *UsersService) FindPaymentMethod(ctx context.Context, userID, methodID int64) (*dto.PaymentMethodResponse, error) {
	method, err := s.findPaymentMethod(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}
	return redactPaymentMethod(method), nil
}

func (s *UsersService) UpdatePaymentMethod(ctx context.Context, userID, methodID int64, req dto.PaymentMethodRequest) (*dto.PaymentMethodResponse, error) {
	method, err := s.findPaymentMethod(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}

	method.Label = req.Label
	method.FullName = req.FullName
	method.CardNumber = req.CardNumber
	method.ExpirationMonth = req.ExpirationMonth
	method.ExpirationYear = req.ExpirationYear
	method.CVV = req.CVV

	affected, err := s.paymentRepo.Update(ctx, method)
	if err != nil {
		return nil, err
	}
	if affected != 1 {
		return nil, apperr.Internal("Failed to update payment method with id %d", methodID)
	}
	return redactPaymentMethod(method), nil
}

func (s *UsersService) RemovePaymentMethod(ctx context.Context, userID, methodID int64) error {
	if _, err := s.findPaymentMethod(ctx, userID, methodID); err != nil {
		return err
	}
	affected, err := s.paymentRepo.Delete(ctx, userID, methodID)
	if err != nil {
		return err
	}
	if affected != 1 {
		return apperr.Internal("Failed to remove payment method with id %d", methodID)
	}
	return nil
}
