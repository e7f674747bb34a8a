package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

type MediaRepository interface {
	Create(ctx context.Context, media *model.Media) error
	GetByID(ctx context.Context, id int64) (*model.Media, error)
	GetByFilename(ctx context.Context, filename string) (*model.Media, error)
	List(ctx context.Context, search string, types []string, limit, offset int) ([]model.Media, error)
	Count(ctx context.Context, search string, types []string) (int, error)
	Update(ctx context.Context, media *model.Media) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type pgMediaRepo struct{ pool *pgxpool.Pool }

func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &pgMediaRepo{pool: pool}
}

const mediaColumns = `id, name, filename, type, size, created_at, updated_at`

func (r *pgMediaRepo) Create(ctx context.Context, media *model.Media) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO media (name, filename, type, size, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		media.Name, media.Filename, media.Type, media.Size,
	).Scan(&media.ID, &media.CreatedAt, &media.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create media: %w", err)
	}
	return nil
}

func (r *pgMediaRepo) GetByID(ctx context.Context, id int64) (*model.Media, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *pgMediaRepo) GetByFilename(ctx context.Context, filename string) (*model.Media, error) {
	return r.getOne(ctx, `WHERE filename = $1`, filename)
}

func (r *pgMediaRepo) getOne(ctx context.Context, where string, arg any) (*model.Media, error) {
	m := &model.Media{}
	err := r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media `+where, arg).Scan(
		&m.ID, &m.Name, &m.Filename, &m.Type, &m.Size, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}

func (r *pgMediaRepo) List(ctx context.Context, search string, types []string, limit, offset int) ([]model.Media, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+mediaColumns+` FROM media
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		   AND (cardinality($2::text[]) = 0 OR type = ANY($2))
		 ORDER BY id LIMIT $3 OFFSET $4`,
		search, types, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var medias []model.Media
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Name, &m.Filename, &m.Type, &m.Size,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		medias = append(medias, m)
	}
	return medias, rows.Err()
}

func (r *pgMediaRepo) Count(ctx context.Context, search string, types []string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM media
		 WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		   AND (cardinality($2::text[]) = 0 OR type = ANY($2))`,
		search, types,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return total, nil
}

func (r *pgMediaRepo) Update(ctx context.Context, media *model.Media) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE media SET name=$2, filename=$3, type=$4, size=$5, updated_at=NOW() WHERE id=$1`,
		media.ID, media.Name, media.Filename, media.Type, media.Size,
	)
	if err != nil {
		return 0, fmt.Errorf("update media: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *pgMediaRepo) Delete(ctx context.Context, id int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete media: %w", err)
	}
	return ct.RowsAffected(), nil
}
