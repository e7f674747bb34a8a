package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

type BasketRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.BasketItem, error)
	Exists(ctx context.Context, userID, productID int64) (bool, error)
	Insert(ctx context.Context, item *model.BasketItem) error
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (int64, error)
	Delete(ctx context.Context, userID, productID int64) (int64, error)
	Clear(ctx context.Context, userID int64) error
}

type pgBasketRepo struct{ pool *pgxpool.Pool }

func NewBasketRepository(pool *pgxpool.Pool) BasketRepository {
	return &pgBasketRepo{pool: pool}
}

func (r *pgBasketRepo) ListByUser(ctx context.Context, userID int64) ([]model.BasketItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, product_id, quantity, created_at, updated_at
		 FROM user_basket WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list basket: %w", err)
	}
	defer rows.Close()

	var items []model.BasketItem
	for rows.Next() {
		var item model.BasketItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan basket item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgBasketRepo) Exists(ctx context.Context, userID, productID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_basket WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count basket item: %w", err)
	}
	return count > 0, nil
}

// Insert relies on the unique (user_id, product_id) constraint; callers
// translate a unique violation into the same conflict the pre-check gives.
func (r *pgBasketRepo) Insert(ctx context.Context, item *model.BasketItem) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_basket (user_id, product_id, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		item.UserID, item.ProductID, item.Quantity,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert basket item: %w", err)
	}
	return nil
}

func (r *pgBasketRepo) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE user_basket SET quantity = $3, updated_at = NOW()
		 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		return 0, fmt.Errorf("update basket item: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgBasketRepo) Delete(ctx context.Context, userID, productID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM user_basket WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return 0, fmt.Errorf("delete basket item: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgBasketRepo) Clear(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_basket WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear basket: %w", err)
	}
	return nil
}
