package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	materialRepo repository.MaterialRepository
	mediaRepo    repository.MediaRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	materialRepo repository.MaterialRepository,
	mediaRepo repository.MediaRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		materialRepo: materialRepo,
		mediaRepo:    mediaRepo,
	}
}

type ProductPage struct {
	Products   []model.Product
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func (s *ProductService) resolveSlug(ctx context.Context, slug *string, name string, currentID int64) (string, error) {
	candidate := ""
	if slug != nil {
		candidate = *slug
	}
	if candidate == "" {
		candidate = generateSlug(name)
	}
	candidate = slugify(candidate)

	existing, err := s.productRepo.GetBySlug(ctx, candidate)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ID != currentID {
		return "", apperr.BadRequest("Slug with the name %q already exists", candidate)
	}
	return candidate, nil
}

func (s *ProductService) applyCategory(ctx context.Context, product *model.Product, field dto.Optional[int64]) error {
	if !field.Set {
		return nil
	}
	if field.Value == nil {
		product.CategoryID = nil
		product.Category = nil
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *field.Value)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.NotFound("Category with id %d not found", *field.Value)
	}
	product.CategoryID = &category.ID
	product.Category = category
	return nil
}

func (s *ProductService) applyBackgroundImage(ctx context.Context, product *model.Product, field dto.Optional[int64]) error {
	if !field.Set {
		return nil
	}
	if field.Value == nil {
		product.BackgroundImageID = nil
		product.BackgroundImage = nil
		return nil
	}
	media, err := s.mediaRepo.GetByID(ctx, *field.Value)
	if err != nil {
		return err
	}
	if media == nil {
		return apperr.NotFound("Media with id %d not found", *field.Value)
	}
	product.BackgroundImageID = &media.ID
	product.BackgroundImage = media
	return nil
}

func (s *ProductService) applyMaterials(ctx context.Context, product *model.Product, ids *[]int64) error {
	if ids == nil {
		return nil
	}
	materials := []model.Material{}
	for _, id := range *ids {
		material, err := s.materialRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if material == nil {
			return apperr.NotFound("Material with id %d not found", id)
		}
		materials = append(materials, *material)
	}
	product.Materials = materials
	return nil
}

func (s *ProductService) applyImages(ctx context.Context, product *model.Product, ids *[]int64) error {
	if ids == nil {
		return nil
	}
	images := []model.Media{}
	for _, id := range *ids {
		media, err := s.mediaRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if media == nil {
			return apperr.NotFound("Media with id %d not found", id)
		}
		images = append(images, *media)
	}
	product.Images = images
	return nil
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	slug, err := s.resolveSlug(ctx, req.Slug, req.Name, 0)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Slug:        slug,
		Price:       req.Price,
		Stock:       req.Stock,
		Materials:   []model.Material{},
		Images:      []model.Media{},
	}
	if req.Priority != nil {
		product.Priority = *req.Priority
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.applyCategory(ctx, product, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.applyBackgroundImage(ctx, product, req.BackgroundImageID); err != nil {
		return nil, err
	}
	if err := s.applyMaterials(ctx, product, req.MaterialIDs); err != nil {
		return nil, err
	}
	if err := s.applyImages(ctx, product, req.ImageIDs); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.BadRequest("Slug with the name %q already exists", slug)
		}
		return nil, err
	}
	return product, nil
}

// parseIDList splits a comma separated id list from the query string.
func parseIDList(raw, name string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, apperr.BadRequest("Invalid %s filter", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *ProductService) FindAll(ctx context.Context, query dto.QueryProductFilters) (*ProductPage, error) {
	categoryIDs, err := parseIDList(query.Categories, "categories")
	if err != nil {
		return nil, err
	}
	materialIDs, err := parseIDList(query.Materials, "materials")
	if err != nil {
		return nil, err
	}
	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		return nil, apperr.BadRequest("Min price must be lower than max price")
	}

	filters := repository.ProductFilters{
		Search:      query.Search,
		CategoryIDs: categoryIDs,
		MaterialIDs: materialIDs,
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
		Stock:       query.Stock,
		IsFeatured:  query.IsFeatured,
		Sort:        query.Sort,
		Order:       query.Order,
	}

	count, err := s.productRepo.Count(ctx, filters)
	if err != nil {
		return nil, err
	}
	offset, totalPages, err := paginate(count, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	filters.Limit = query.Limit
	filters.Offset = offset

	products, err := s.productRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return &ProductPage{
		Products:   products,
		Page:       pageOrDefault(query.Page),
		Limit:      query.Limit,
		Total:      count,
		TotalPages: totalPages,
	}, nil
}

func (s *ProductService) FindOne(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product with id %d not found", id)
	}
	return product, nil
}

func (s *ProductService) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product with slug %q not found", slug)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Slug != nil {
		slug, err := s.resolveSlug(ctx, req.Slug, product.Name, product.ID)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Priority != nil {
		product.Priority = *req.Priority
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.applyCategory(ctx, product, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.applyBackgroundImage(ctx, product, req.BackgroundImageID); err != nil {
		return nil, err
	}
	if err := s.applyMaterials(ctx, product, req.MaterialIDs); err != nil {
		return nil, err
	}
	if err := s.applyImages(ctx, product, req.ImageIDs); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.BadRequest("Slug with the name %q already exists", product.Slug)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Remove(ctx context.Context, id int64) error {
	affected, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Product with id %d not found", id)
	}
	return nil
}
