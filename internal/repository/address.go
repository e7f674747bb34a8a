package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

// AddressRepository operations are scoped to the owning user: a lookup
// with the wrong user id behaves like a missing row.
type AddressRepository interface {
	Create(ctx context.Context, address *model.UserAddress) error
	ListByUser(ctx context.Context, userID int64) ([]model.UserAddress, error)
	GetByUser(ctx context.Context, userID, addressID int64) (*model.UserAddress, error)
	Update(ctx context.Context, address *model.UserAddress) (int64, error)
	Delete(ctx context.Context, userID, addressID int64) (int64, error)
}

type pgAddressRepo struct{ pool *pgxpool.Pool }

func NewAddressRepository(pool *pgxpool.Pool) AddressRepository {
	return &pgAddressRepo{pool: pool}
}

const addressColumns = `id, user_id, first_name, last_name, address1, address2,
	city, region, postal_code, country, phone, type, created_at, updated_at`

func (r *pgAddressRepo) Create(ctx context.Context, address *model.UserAddress) error {
	query := `INSERT INTO user_addresses
			  (user_id, first_name, last_name, address1, address2, city, region, postal_code, country, phone, type, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			  RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		address.UserID, address.FirstName, address.LastName, address.Address1, address.Address2,
		address.City, address.Region, address.PostalCode, address.Country, address.Phone, address.Type,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

func (r *pgAddressRepo) ListByUser(ctx context.Context, userID int64) ([]model.UserAddress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.UserAddress
	for rows.Next() {
		var a model.UserAddress
		if err := scanAddress(rows, &a); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *pgAddressRepo) GetByUser(ctx context.Context, userID, addressID int64) (*model.UserAddress, error) {
	a := &model.UserAddress{}
	err := scanAddress(r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE id = $1 AND user_id = $2`,
		addressID, userID), a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (r *pgAddressRepo) Update(ctx context.Context, address *model.UserAddress) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE user_addresses SET first_name=$3, last_name=$4, address1=$5, address2=$6,
		 city=$7, region=$8, postal_code=$9, country=$10, phone=$11, type=$12, updated_at=NOW()
		 WHERE id = $1 AND user_id = $2`,
		address.ID, address.UserID, address.FirstName, address.LastName, address.Address1, address.Address2,
		address.City, address.Region, address.PostalCode, address.Country, address.Phone, address.Type,
	)
	if err != nil {
		return 0, fmt.Errorf("update address: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgAddressRepo) Delete(ctx context.Context, userID, addressID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM user_addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete address: %w", err)
	}
	return ct.RowsAffected(), nil
}

func scanAddress(row pgx.Row, a *model.UserAddress) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.FirstName, &a.LastName, &a.Address1, &a.Address2,
		&a.City, &a.Region, &a.PostalCode, &a.Country, &a.Phone, &a.Type,
		&a.CreatedAt, &a.UpdatedAt,
	)
}
