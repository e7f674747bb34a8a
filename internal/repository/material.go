package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *model.Material) error
	GetByID(ctx context.Context, id int64) (*model.Material, error)
	List(ctx context.Context) ([]model.Material, error)
	Update(ctx context.Context, material *model.Material) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type pgMaterialRepo struct{ pool *pgxpool.Pool }

func NewMaterialRepository(pool *pgxpool.Pool) MaterialRepository {
	return &pgMaterialRepo{pool: pool}
}

func (r *pgMaterialRepo) Create(ctx context.Context, material *model.Material) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO materials (name) VALUES ($1) RETURNING id`, material.Name,
	).Scan(&material.ID)
	if err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

func (r *pgMaterialRepo) GetByID(ctx context.Context, id int64) (*model.Material, error) {
	m := &model.Material{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM materials WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

func (r *pgMaterialRepo) List(ctx context.Context) ([]model.Material, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM materials ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []model.Material
	for rows.Next() {
		var m model.Material
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *pgMaterialRepo) Update(ctx context.Context, material *model.Material) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE materials SET name = $2 WHERE id = $1`, material.ID, material.Name)
	if err != nil {
		return 0, fmt.Errorf("update material: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgMaterialRepo) Delete(ctx context.Context, id int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete material: %w", err)
	}
	return ct.RowsAffected(), nil
}
