package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

type PaymentMethodRepository interface {
	Create(ctx context.Context, method *model.PaymentMethod) error
	ListByUser(ctx context.Context, userID int64) ([]model.PaymentMethod, error)
	GetByUser(ctx context.Context, userID, methodID int64) (*model.PaymentMethod, error)
	Update(ctx context.Context, method *model.PaymentMethod) (int64, error)
	Delete(ctx context.Context, userID, methodID int64) (int64, error)
}

type pgPaymentMethodRepo struct{ pool *pgxpool.Pool }

func NewPaymentMethodRepository(pool *pgxpool.Pool) PaymentMethodRepository {
	return &pgPaymentMethodRepo{pool: pool}
}

const paymentColumns = `id, user_id, label, full_name, card_number, expiration_month, expiration_year, cvv`

func (r *pgPaymentMethodRepo) Create(ctx context.Context, method *model.PaymentMethod) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_payment_methods
		 (user_id, label, full_name, card_number, expiration_month, expiration_year, cvv)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		method.UserID, method.Label, method.FullName, method.CardNumber,
		method.ExpirationMonth, method.ExpirationYear, method.CVV,
	).Scan(&method.ID)
	if err != nil {
		return fmt.Errorf("create payment method: %w", err)
	}
	return nil
}

func (r *pgPaymentMethodRepo) ListByUser(ctx context.Context, userID int64) ([]model.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM user_payment_methods WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []model.PaymentMethod
	for rows.Next() {
		var m model.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Label, &m.FullName, &m.CardNumber,
			&m.ExpirationMonth, &m.ExpirationYear, &m.CVV); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r *pgPaymentMethodRepo) GetByUser(ctx context.Context, userID, methodID int64) (*model.PaymentMethod, error) {
	m := &model.PaymentMethod{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM user_payment_methods WHERE id = $1 AND user_id = $2`,
		methodID, userID,
	).Scan(&m.ID, &m.UserID, &m.Label, &m.FullName, &m.CardNumber,
		&m.ExpirationMonth, &m.ExpirationYear, &m.CVV)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return m, nil
}

func (r *pgPaymentMethodRepo) Update(ctx context.Context, method *model.PaymentMethod) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE user_payment_methods SET label=$3, full_name=$4, card_number=$5,
		 expiration_month=$6, expiration_year=$7, cvv=$8
		 WHERE id = $1 AND user_id = $2`,
		method.ID, method.UserID, method.Label, method.FullName, method.CardNumber,
		method.ExpirationMonth, method.ExpirationYear, method.CVV,
	)
	if err != nil {
		return 0, fmt.Errorf("update payment method: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgPaymentMethodRepo) Delete(ctx context.Context, userID, methodID int64) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM user_payment_methods WHERE id = $1 AND user_id = $2`, methodID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete payment method: %w", err)
	}
	return ct.RowsAffected(), nil
}
