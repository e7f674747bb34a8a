package service

import (
	"context"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	mediaRepo    repository.MediaRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, mediaRepo repository.MediaRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, mediaRepo: mediaRepo}
}

// resolveSlug normalizes the requested slug, or derives one from the name
// when none was given, and rejects it when another row already holds it.
// currentID excludes the row being updated from the collision check.
func (s *CategoryService) resolveSlug(ctx context.Context, slug *string, name string, currentID int64) (string, error) {
	candidate := ""
	if slug != nil {
		candidate = *slug
	}
	if candidate == "" {
		candidate = generateSlug(name)
	}
	candidate = slugify(candidate)

	existing, err := s.categoryRepo.GetBySlug(ctx, candidate)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ID != currentID {
		return "", apperr.BadRequest("Slug with the name %q already exists", candidate)
	}
	return candidate, nil
}

func (s *CategoryService) applyThumbnail(ctx context.Context, category *model.Category, field dto.Optional[int64]) error {
	if !field.Set {
		return nil
	}
	if field.Value == nil {
		category.ThumbnailID = nil
		category.Thumbnail = nil
		return nil
	}
	media, err := s.mediaRepo.GetByID(ctx, *field.Value)
	if err != nil {
		return err
	}
	if media == nil {
		return apperr.NotFound("Media with id %d not found", *field.Value)
	}
	category.ThumbnailID = &media.ID
	category.Thumbnail = media
	return nil
}

func (s *CategoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*model.Category, error) {
	slug, err := s.resolveSlug(ctx, req.Slug, req.Name, 0)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Slug:        slug,
	}
	if err := s.applyThumbnail(ctx, category, req.ThumbnailID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.BadRequest("Slug with the name %q already exists", slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) FindAll(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *CategoryService) FindOne(ctx context.Context, id int64) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category with id %d not found", id)
	}
	return category, nil
}

func (s *CategoryService) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.NotFound("Category with slug %q not found", slug)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req dto.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Slug != nil {
		slug, err := s.resolveSlug(ctx, req.Slug, category.Name, category.ID)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if err := s.applyThumbnail(ctx, category, req.ThumbnailID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.BadRequest("Slug with the name %q already exists", category.Slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Remove(ctx context.Context, id int64) error {
	affected, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Category with id %d not found", id)
	}
	return nil
}
