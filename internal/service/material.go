package service

import (
	"context"

	"github.com/airneis/airneis-api/internal/apperr"
	"github.com/airneis/airneis-api/internal/dto"
	"github.com/airneis/airneis-api/internal/model"
	"github.com/airneis/airneis-api/internal/repository"
)

type MaterialService struct {
	materialRepo repository.MaterialRepository
}

func NewMaterialService(materialRepo repository.MaterialRepository) *MaterialService {
	return &MaterialService{materialRepo: materialRepo}
}

func (s *MaterialService) Create(ctx context.Context, req dto.MaterialRequest) (*model.Material, error) {
	material := &model.Material{Name: req.Name}
	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) FindAll(ctx context.Context) ([]model.Material, error) {
	materials, err := s.materialRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if materials == nil {
		materials = []model.Material{}
	}
	return materials, nil
}

func (s *MaterialService) FindOne(ctx context.Context, id int64) (*model.Material, error) {
	material, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperr.NotFound("Material with id %d not found", id)
	}
	return material, nil
}

func (s *MaterialService) Update(ctx context.Context, id int64, req dto.MaterialRequest) (*model.Material, error) {
	material := &model.Material{ID: id, Name: req.Name}
	affected, err := s.materialRepo.Update(ctx, material)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, apperr.NotFound("Material with id %d not found", id)
	}
	return material, nil
}

func (s *MaterialService) Remove(ctx context.Context, id int64) error {
	affected, err := s.materialRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("Material with id %d not found", id)
	}
	return nil
}
