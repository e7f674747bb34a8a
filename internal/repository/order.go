package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

type OrderFilters struct {
	UserID *int64
	Order  string
	Limit  int
	Offset int
}

type OrderRepository interface {
	// Create persists the order, both address snapshots and all line
	// snapshots, and clears the owner's basket, in one transaction.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filters OrderFilters) ([]model.Order, error)
	Count(ctx context.Context, filters OrderFilters) (int, error)
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (int64, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertOrderAddress(ctx, tx, order.BillingAddress); err != nil {
		return err
	}
	if err := insertOrderAddress(ctx, tx, order.ShippingAddress); err != nil {
		return err
	}
	order.BillingAddressID = order.BillingAddress.ID
	order.ShippingAddressID = order.ShippingAddress.ID

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, status, billing_address_id, shipping_address_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		order.UserID, order.Status, order.BillingAddressID, order.ShippingAddressID,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Products {
		line := &order.Products[i]
		line.OrderID = order.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO order_products (order_id, product_id, name, price, quantity, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`,
			line.OrderID, line.ProductID, line.Name, line.Price, line.Quantity,
		).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order product: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_basket WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("clear basket: %w", err)
	}

	return tx.Commit(ctx)
}

func insertOrderAddress(ctx context.Context, tx pgx.Tx, address *model.OrderAddress) error {
	err := tx.QueryRow(ctx,
		`INSERT INTO order_addresses
		 (first_name, last_name, address1, address2, city, region, postal_code, country, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		address.FirstName, address.LastName, address.Address1, address.Address2,
		address.City, address.Region, address.PostalCode, address.Country, address.Phone,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order address: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, status, billing_address_id, shipping_address_id, created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&order.ID, &order.UserID, &order.Status,
		&order.BillingAddressID, &order.ShippingAddressID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadRelations(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *pgOrderRepo) List(ctx context.Context, filters OrderFilters) ([]model.Order, error) {
	order := "DESC"
	if filters.Order == "asc" {
		order = "ASC"
	}
	query := fmt.Sprintf(
		`SELECT id, user_id, status, billing_address_id, shipping_address_id, created_at, updated_at
		 FROM orders WHERE ($1::bigint IS NULL OR user_id = $1)
		 ORDER BY created_at %s LIMIT $2 OFFSET $3`, order)

	rows, err := r.pool.Query(ctx, query, filters.UserID, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status,
			&o.BillingAddressID, &o.ShippingAddressID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadRelations(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *pgOrderRepo) Count(ctx context.Context, filters OrderFilters) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE ($1::bigint IS NULL OR user_id = $1)`,
		filters.UserID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgOrderRepo) loadRelations(ctx context.Context, order *model.Order) error {
	billing, err := r.getOrderAddress(ctx, order.BillingAddressID)
	if err != nil {
		return err
	}
	shipping, err := r.getOrderAddress(ctx, order.ShippingAddressID)
	if err != nil {
		return err
	}
	order.BillingAddress = billing
	order.ShippingAddress = shipping

	order.Products = []model.OrderProduct{}
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, name, price, quantity, created_at, updated_at
		 FROM order_products WHERE order_id = $1 ORDER BY id`, order.ID)
	if err != nil {
		return fmt.Errorf("load order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.OrderProduct
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Name,
			&line.Price, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return fmt.Errorf("scan order product: %w", err)
		}
		order.Products = append(order.Products, line)
	}
	return rows.Err()
}

func (r *pgOrderRepo) getOrderAddress(ctx context.Context, id int64) (*model.OrderAddress, error) {
	a := &model.OrderAddress{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, address1, address2, city, region, postal_code, country, phone, created_at, updated_at
		 FROM order_addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Address1, &a.Address2,
		&a.City, &a.Region, &a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order address: %w", err)
	}
	return a, nil
}
