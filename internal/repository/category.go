package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type pgCategoryRepo struct{ pool *pgxpool.Pool }

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &pgCategoryRepo{pool: pool}
}

func (r *pgCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, description, slug, thumbnail_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		category.Name, category.Description, category.Slug, category.ThumbnailID,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *pgCategoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return r.getOne(ctx, `WHERE c.id = $1`, id)
}

func (r *pgCategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getOne(ctx, `WHERE c.slug = $1`, slug)
}

const categorySelect = `SELECT c.id, c.name, c.description, c.slug, c.thumbnail_id, c.created_at, c.updated_at,
	m.id, m.name, m.filename, m.type, m.size, m.created_at, m.updated_at
	FROM categories c LEFT JOIN media m ON m.id = c.thumbnail_id `

func (r *pgCategoryRepo) getOne(ctx context.Context, where string, arg any) (*model.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, categorySelect+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *pgCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, categorySelect+`ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE categories SET name=$2, description=$3, slug=$4, thumbnail_id=$5, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		category.ID, category.Name, category.Description, category.Slug, category.ThumbnailID,
	).Scan(&category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *pgCategoryRepo) Delete(ctx context.Context, id int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return ct.RowsAffected(), nil
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	c := &model.Category{}
	var (
		mediaID       *int64
		mediaName     *string
		mediaFilename *string
		mediaType     *string
		mediaSize     *int64
		mediaCreated  *time.Time
		mediaUpdated  *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Slug, &c.ThumbnailID, &c.CreatedAt, &c.UpdatedAt,
		&mediaID, &mediaName, &mediaFilename, &mediaType, &mediaSize, &mediaCreated, &mediaUpdated,
	)
	if err != nil {
		return nil, err
	}
	if mediaID != nil {
		c.Thumbnail = &model.Media{
			ID: *mediaID, Name: *mediaName, Filename: *mediaFilename,
			Type: *mediaType, Size: *mediaSize,
			CreatedAt: *mediaCreated, UpdatedAt: *mediaUpdated,
		}
	}
	return c, nil
}
