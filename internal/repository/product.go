package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/airneis/airneis-api/internal/model"
)

// ProductFilters mirrors the catalog listing query string. Stock filters
// on availability: 1 keeps rows with stock >= 1, 0 keeps sold-out rows.
type ProductFilters struct {
	Search      string
	CategoryIDs []int64
	MaterialIDs []int64
	MinPrice    *int64
	MaxPrice    *int64
	Stock       *int
	IsFeatured  *bool
	Sort        string
	Order       string
	Limit       int
	Offset      int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	List(ctx context.Context, filters ProductFilters) ([]model.Product, error)
	Count(ctx context.Context, filters ProductFilters) (int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `id, name, description, slug, price, stock, priority, is_featured,
	category_id, background_image_id, created_at, updated_at`

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO products
		 (name, description, slug, price, stock, priority, is_featured, category_id, background_image_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		product.Name, product.Description, product.Slug, product.Price, product.Stock,
		product.Priority, product.IsFeatured, product.CategoryID, product.BackgroundImageID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	if err := r.syncJunctions(ctx, tx, product); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE products SET name=$2, description=$3, slug=$4, price=$5, stock=$6,
		 priority=$7, is_featured=$8, category_id=$9, background_image_id=$10, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		product.ID, product.Name, product.Description, product.Slug, product.Price, product.Stock,
		product.Priority, product.IsFeatured, product.CategoryID, product.BackgroundImageID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM product_materials WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("clear product materials: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("clear product images: %w", err)
	}
	if err := r.syncJunctions(ctx, tx, product); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgProductRepo) syncJunctions(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	for _, material := range product.Materials {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_materials (product_id, material_id) VALUES ($1, $2)`,
			product.ID, material.ID); err != nil {
			return fmt.Errorf("link material: %w", err)
		}
	}
	for _, image := range product.Images {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_images (product_id, media_id) VALUES ($1, $2)`,
			product.ID, image.ID); err != nil {
			return fmt.Errorf("link image: %w", err)
		}
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *pgProductRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.getOne(ctx, `WHERE slug = $1`, slug)
}

func (r *pgProductRepo) getOne(ctx context.Context, where string, arg any) (*model.Product, error) {
	p := &model.Product{}
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products `+where, arg).Scan(
		&p.ID, &p.Name, &p.Description, &p.Slug, &p.Price, &p.Stock, &p.Priority, &p.IsFeatured,
		&p.CategoryID, &p.BackgroundImageID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadRelations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func productWhere(filters ProductFilters) (string, []any) {
	conditions := []string{"1=1"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE '%%' || %s || '%%'", arg(filters.Search)))
	}
	if len(filters.CategoryIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("category_id = ANY(%s)", arg(filters.CategoryIDs)))
	}
	if len(filters.MaterialIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM product_materials pm WHERE pm.product_id = products.id AND pm.material_id = ANY(%s))",
			arg(filters.MaterialIDs)))
	}
	if filters.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= %s", arg(*filters.MinPrice)))
	}
	if filters.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= %s", arg(*filters.MaxPrice)))
	}
	if filters.Stock != nil {
		if *filters.Stock == 1 {
			conditions = append(conditions, "stock >= 1")
		} else {
			conditions = append(conditions, "stock = 0")
		}
	}
	if filters.IsFeatured != nil {
		conditions = append(conditions, fmt.Sprintf("is_featured = %s", arg(*filters.IsFeatured)))
	}

	return strings.Join(conditions, " AND "), args
}

func (r *pgProductRepo) Count(ctx context.Context, filters ProductFilters) (int, error) {
	where, args := productWhere(filters)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

func (r *pgProductRepo) List(ctx context.Context, filters ProductFilters) ([]model.Product, error) {
	allowedSorts := map[string]string{"priority": "priority", "price": "price", "createdAt": "created_at"}
	sort, ok := allowedSorts[filters.Sort]
	if !ok {
		sort = "created_at"
	}
	order := "desc"
	if filters.Order == "asc" {
		order = "asc"
	}

	where, args := productWhere(filters)
	args = append(args, filters.Limit, filters.Offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productColumns, where, sort, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Slug, &p.Price, &p.Stock, &p.Priority, &p.IsFeatured,
			&p.CategoryID, &p.BackgroundImageID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		if err := r.loadRelations(ctx, &products[i]); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *pgProductRepo) loadRelations(ctx context.Context, p *model.Product) error {
	if p.CategoryID != nil {
		c, err := scanCategory(r.pool.QueryRow(ctx, categorySelect+`WHERE c.id = $1`, *p.CategoryID))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load product category: %w", err)
		}
		p.Category = c
	}

	if p.BackgroundImageID != nil {
		bg := &model.Media{}
		err := r.pool.QueryRow(ctx,
			`SELECT `+mediaColumns+` FROM media WHERE id = $1`, *p.BackgroundImageID,
		).Scan(&bg.ID, &bg.Name, &bg.Filename, &bg.Type, &bg.Size, &bg.CreatedAt, &bg.UpdatedAt)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("load background image: %w", err)
		}
		if err == nil {
			p.BackgroundImage = bg
		}
	}

	p.Materials = []model.Material{}
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.name FROM materials m
		 JOIN product_materials pm ON pm.material_id = m.id
		 WHERE pm.product_id = $1 ORDER BY m.id`, p.ID)
	if err != nil {
		return fmt.Errorf("load product materials: %w", err)
	}
	for rows.Next() {
		var m model.Material
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			rows.Close()
			return fmt.Errorf("scan product material: %w", err)
		}
		p.Materials = append(p.Materials, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	p.Images = []model.Media{}
	rows, err = r.pool.Query(ctx,
		`SELECT md.id, md.name, md.filename, md.type, md.size, md.created_at, md.updated_at
		 FROM media md
		 JOIN product_images pi ON pi.media_id = md.id
		 WHERE pi.product_id = $1 ORDER BY md.id`, p.ID)
	if err != nil {
		return fmt.Errorf("load product images: %w", err)
	}
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Name, &m.Filename, &m.Type, &m.Size, &m.CreatedAt, &m.UpdatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan product image: %w", err)
		}
		p.Images = append(p.Images, m)
	}
	rows.Close()
	return rows.Err()
}

func (r *pgProductRepo) Delete(ctx context.Context, id int64) (int64, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return ct.RowsAffected(), nil
}
