package mappers

import (
	"fmt"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
)

func BrandToEntity(model *models.BrandModel) (*brand.Brand, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := brand.ReconstructBrand(model.ID, model.Name, model.Slug, model.APIKeyHash, model.APIKeyPrefix,
		model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct brand entity: %w", err)
	}
	return entity, nil
}

func BrandToModel(entity *brand.Brand) *models.BrandModel {
	return &models.BrandModel{
		ID:           entity.ID(),
		Name:         entity.Name(),
		Slug:         entity.Slug(),
		APIKeyHash:   entity.APIKeyHash(),
		APIKeyPrefix: entity.APIKeyPrefix(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func ProductToEntity(model *models.ProductModel) (*brand.Product, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := brand.ReconstructProduct(model.ID, model.BrandID, model.Name, model.Slug, model.Description,
		model.Active, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct product entity: %w", err)
	}
	return entity, nil
}

func ProductToModel(entity *brand.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:          entity.ID(),
		BrandID:     entity.BrandID(),
		Name:        entity.Name(),
		Slug:        entity.Slug(),
		Description: entity.Description(),
		Active:      entity.IsActive(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}
