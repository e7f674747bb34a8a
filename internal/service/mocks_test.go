package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

// Map-backed fakes for the repository interfaces. IDs are assigned
// sequentially per repo.

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(_ context.Context, search string, limit, offset int) ([]model.User, error) {
	var ids []int64
	for id, u := range m.users {
		if search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var users []model.User
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(users) == limit {
			break
		}
		users = append(users, *m.users[id])
	}
	return users, nil
}

func (m *mockUserRepo) Count(_ context.Context, search string) (int, error) {
	count := 0
	for _, u := range m.users {
		if search == "" || strings.Contains(strings.ToLower(u.Name), strings.ToLower(search)) {
			count++
		}
	}
	return count, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id int64, hash string) (int64, error) {
	if u, ok := m.users[id]; ok {
		u.Password = hash
		return 1, nil
	}
	return 0, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.users[id]; ok {
		delete(m.users, id)
		return 1, nil
	}
	return 0, nil
}

type mockAddressRepo struct {
	addresses map[int64]*model.UserAddress
	nextID    int64
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{addresses: make(map[int64]*model.UserAddress), nextID: 1}
}

func (m *mockAddressRepo) Create(_ context.Context, address *model.UserAddress) error {
	address.ID = m.nextID
	m.nextID++
	clone := *address
	m.addresses[address.ID] = &clone
	return nil
}

func (m *mockAddressRepo) ListByUser(_ context.Context, userID int64) ([]model.UserAddress, error) {
	var out []model.UserAddress
	for _, a := range m.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAddressRepo) GetByUser(_ context.Context, userID, addressID int64) (*model.UserAddress, error) {
	if a, ok := m.addresses[addressID]; ok && a.UserID == userID {
		clone := *a
		return &clone, nil
	}
	return nil, nil
}

func (m *mockAddressRepo) Update(_ context.Context, address *model.UserAddress) (int64, error) {
	if a, ok := m.addresses[address.ID]; ok && a.UserID == address.UserID {
		clone := *address
		m.addresses[address.ID] = &clone
		return 1, nil
	}
	return 0, nil
}

func (m *mockAddressRepo) Delete(_ context.Context, userID, addressID int64) (int64, error) {
	if a, ok := m.addresses[addressID]; ok && a.UserID == userID {
		delete(m.addresses, addressID)
		return 1, nil
	}
	return 0, nil
}

type basketKey struct{ userID, productID int64 }

type mockBasketRepo struct {
	items  map[basketKey]*model.BasketItem
	nextID int64
}

func newMockBasketRepo() *mockBasketRepo {
	return &mockBasketRepo{items: make(map[basketKey]*model.BasketItem), nextID: 1}
}

func (m *mockBasketRepo) ListByUser(_ context.Context, userID int64) ([]model.BasketItem, error) {
	var out []model.BasketItem
	for key, item := range m.items {
		if key.userID == userID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockBasketRepo) Exists(_ context.Context, userID, productID int64) (bool, error) {
	_, ok := m.items[basketKey{userID, productID}]
	return ok, nil
}

func (m *mockBasketRepo) Insert(_ context.Context, item *model.BasketItem) error {
	item.ID = m.nextID
	m.nextID++
	clone := *item
	m.items[basketKey{item.UserID, item.ProductID}] = &clone
	return nil
}

func (m *mockBasketRepo) UpdateQuantity(_ context.Context, userID, productID int64, quantity int) (int64, error) {
	if item, ok := m.items[basketKey{userID, productID}]; ok {
		item.Quantity = quantity
		return 1, nil
	}
	return 0, nil
}

func (m *mockBasketRepo) Delete(_ context.Context, userID, productID int64) (int64, error) {
	key := basketKey{userID, productID}
	if _, ok := m.items[key]; ok {
		delete(m.items, key)
		return 1, nil
	}
	return 0, nil
}

func (m *mockBasketRepo) Clear(_ context.Context, userID int64) error {
	for key := range m.items {
		if key.userID == userID {
			delete(m.items, key)
		}
	}
	return nil
}

type mockPaymentRepo struct {
	methods map[int64]*model.PaymentMethod
	nextID  int64
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{methods: make(map[int64]*model.PaymentMethod), nextID: 1}
}

func (m *mockPaymentRepo) Create(_ context.Context, method *model.PaymentMethod) error {
	method.ID = m.nextID
	m.nextID++
	clone := *method
	m.methods[method.ID] = &clone
	return nil
}

func (m *mockPaymentRepo) ListByUser(_ context.Context, userID int64) ([]model.PaymentMethod, error) {
	var out []model.PaymentMethod
	for _, pm := range m.methods {
		if pm.UserID == userID {
			out = append(out, *pm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockPaymentRepo) GetByUser(_ context.Context, userID, methodID int64) (*model.PaymentMethod, error) {
	if pm, ok := m.methods[methodID]; ok && pm.UserID == userID {
		clone := *pm
		return &clone, nil
	}
	return nil, nil
}

func (m *mockPaymentRepo) Update(_ context.Context, method *model.PaymentMethod) (int64, error) {
	if pm, ok := m.methods[method.ID]; ok && pm.UserID == method.UserID {
		clone := *method
		m.methods[method.ID] = &clone
		return 1, nil
	}
	return 0, nil
}

func (m *mockPaymentRepo) Delete(_ context.Context, userID, methodID int64) (int64, error) {
	if pm, ok := m.methods[methodID]; ok && pm.UserID == userID {
		delete(m.methods, methodID)
		return 1, nil
	}
	return 0, nil
}

type mockCategoryRepo struct {
	categories map[int64]*model.Category
	nextID     int64
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[int64]*model.Category), nextID: 1}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	category.ID = m.nextID
	m.nextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (m *mockCategoryRepo) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	clone := *category
	m.categories[category.ID] = &clone
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.categories[id]; ok {
		delete(m.categories, id)
		return 1, nil
	}
	return 0, nil
}

type mockMaterialRepo struct {
	materials map[int64]*model.Material
	nextID    int64
}

func newMockMaterialRepo() *mockMaterialRepo {
	return &mockMaterialRepo{materials: make(map[int64]*model.Material), nextID: 1}
}

func (m *mockMaterialRepo) Create(_ context.Context, material *model.Material) error {
	material.ID = m.nextID
	m.nextID++
	clone := *material
	m.materials[material.ID] = &clone
	return nil
}

func (m *mockMaterialRepo) GetByID(_ context.Context, id int64) (*model.Material, error) {
	if mat, ok := m.materials[id]; ok {
		clone := *mat
		return &clone, nil
	}
	return nil, nil
}

func (m *mockMaterialRepo) List(_ context.Context) ([]model.Material, error) {
	var out []model.Material
	for _, mat := range m.materials {
		out = append(out, *mat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockMaterialRepo) Update(_ context.Context, material *model.Material) (int64, error) {
	if _, ok := m.materials[material.ID]; ok {
		clone := *material
		m.materials[material.ID] = &clone
		return 1, nil
	}
	return 0, nil
}

func (m *mockMaterialRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.materials[id]; ok {
		delete(m.materials, id)
		return 1, nil
	}
	return 0, nil
}

type mockMediaRepo struct {
	media  map[int64]*model.Media
	nextID int64
}

func newMockMediaRepo() *mockMediaRepo {
	return &mockMediaRepo{media: make(map[int64]*model.Media), nextID: 1}
}

func (m *mockMediaRepo) Create(_ context.Context, media *model.Media) error {
	media.ID = m.nextID
	m.nextID++
	media.CreatedAt = time.Now()
	media.UpdatedAt = time.Now()
	clone := *media
	m.media[media.ID] = &clone
	return nil
}

func (m *mockMediaRepo) GetByID(_ context.Context, id int64) (*model.Media, error) {
	if md, ok := m.media[id]; ok {
		clone := *md
		return &clone, nil
	}
	return nil, nil
}

func (m *mockMediaRepo) GetByFilename(_ context.Context, filename string) (*model.Media, error) {
	for _, md := range m.media {
		if md.Filename == filename {
			clone := *md
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockMediaRepo) matches(md *model.Media, search string, types []string) bool {
	if search != "" && !strings.Contains(strings.ToLower(md.Name), strings.ToLower(search)) {
		return false
	}
	if len(types) > 0 {
		found := false
		for _, t := range types {
			if md.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *mockMediaRepo) List(_ context.Context, search string, types []string, limit, offset int) ([]model.Media, error) {
	var all []model.Media
	for _, md := range m.media {
		if m.matches(md, search, types) {
			all = append(all, *md)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	var out []model.Media
	for i, md := range all {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, md)
	}
	return out, nil
}

func (m *mockMediaRepo) Count(_ context.Context, search string, types []string) (int, error) {
	count := 0
	for _, md := range m.media {
		if m.matches(md, search, types) {
			count++
		}
	}
	return count, nil
}

func (m *mockMediaRepo) Update(_ context.Context, media *model.Media) (int64, error) {
	if _, ok := m.media[media.ID]; ok {
		clone := *media
		m.media[media.ID] = &clone
		return 1, nil
	}
	return 0, nil
}

func (m *mockMediaRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.media[id]; ok {
		delete(m.media, id)
		return 1, nil
	}
	return 0, nil
}

type mockProductRepo struct {
	products map[int64]*model.Product
	nextID   int64
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[int64]*model.Product), nextID: 1}
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = m.nextID
	m.nextID++
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*model.Product, error) {
	if p, ok := m.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (m *mockProductRepo) GetBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) matches(p *model.Product, filters repository.ProductFilters) bool {
	if filters.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filters.Search)) {
		return false
	}
	if filters.MinPrice != nil && p.Price.LessThan(decimal.NewFromInt(*filters.MinPrice)) {
		return false
	}
	if filters.MaxPrice != nil && p.Price.GreaterThan(decimal.NewFromInt(*filters.MaxPrice)) {
		return false
	}
	if filters.Stock != nil {
		if *filters.Stock == 1 && p.Stock < 1 {
			return false
		}
		if *filters.Stock == 0 && p.Stock != 0 {
			return false
		}
	}
	if filters.IsFeatured != nil && p.IsFeatured != *filters.IsFeatured {
		return false
	}
	return true
}

func (m *mockProductRepo) List(_ context.Context, filters repository.ProductFilters) ([]model.Product, error) {
	var all []model.Product
	for _, p := range m.products {
		if m.matches(p, filters) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	var out []model.Product
	for i, p := range all {
		if i < filters.Offset {
			continue
		}
		if len(out) == filters.Limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepo) Count(_ context.Context, filters repository.ProductFilters) (int, error) {
	count := 0
	for _, p := range m.products {
		if m.matches(p, filters) {
			count++
		}
	}
	return count, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := m.products[id]; ok {
		delete(m.products, id)
		return 1, nil
	}
	return 0, nil
}

// mockOrderRepo mirrors the real repository's transactional Create by
// clearing the owner's basket as part of the same call.
type mockOrderRepo struct {
	orders map[int64]*model.Order
	basket *mockBasketRepo
	nextID int64
}

func newMockOrderRepo(basket *mockBasketRepo) *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]*model.Order), basket: basket, nextID: 1}
}

func (m *mockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.ID = m.nextID
	m.nextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Products {
		order.Products[i].ID = int64(i + 1)
		order.Products[i].OrderID = order.ID
	}
	clone := *order
	m.orders[order.ID] = &clone
	if m.basket != nil {
		_ = m.basket.Clear(ctx, order.UserID)
	}
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	if o, ok := m.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, nil
}

func (m *mockOrderRepo) List(_ context.Context, filters repository.OrderFilters) ([]model.Order, error) {
	var all []model.Order
	for _, o := range m.orders {
		if filters.UserID == nil || o.UserID == *filters.UserID {
			all = append(all, *o)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if filters.Order == "asc" {
			return all[i].ID < all[j].ID
		}
		return all[i].ID > all[j].ID
	})

	var out []model.Order
	for i, o := range all {
		if i < filters.Offset {
			continue
		}
		if len(out) == filters.Limit {
			break
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) Count(_ context.Context, filters repository.OrderFilters) (int, error) {
	count := 0
	for _, o := range m.orders {
		if filters.UserID == nil || o.UserID == *filters.UserID {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, status model.OrderStatus) (int64, error) {
	if o, ok := m.orders[id]; ok {
		o.Status = status
		return 1, nil
	}
	return 0, nil
}
