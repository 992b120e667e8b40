package mappers

import (
	"fmt"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/mapper"
)

// LicenseMapper converts between license aggregates and their rows
type LicenseMapper interface {
	ToEntity(model *models.LicenseModel) (*license.License, error)
	ToModel(entity *license.License) *models.LicenseModel
	ToEntities(models []models.LicenseModel) ([]*license.License, error)

	KeyToEntity(model *models.LicenseKeyModel) (*license.LicenseKey, error)
	KeyToModel(entity *license.LicenseKey) *models.LicenseKeyModel

	ActivationToModel(entity *license.Activation) *models.ActivationModel
}

type licenseMapper struct{}

func NewLicenseMapper() LicenseMapper {
	return &licenseMapper{}
}

func (m *licenseMapper) ToEntity(model *models.LicenseModel) (*license.License, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := license.ReconstructLicense(
		model.ID,
		model.BrandID,
		model.LicenseKeyID,
		model.ProductID,
		license.Status(model.Status),
		model.ExpiresAt,
		model.SeatLimit,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct license entity: %w", err)
	}
	return entity, nil
}

func (m *licenseMapper) ToModel(entity *license.License) *models.LicenseModel {
	if entity == nil {
		return nil
	}
	return &models.LicenseModel{
		ID:           entity.ID(),
		BrandID:      entity.BrandID(),
		LicenseKeyID: entity.LicenseKeyID(),
		ProductID:    entity.ProductID(),
		Status:       entity.Status().String(),
		ExpiresAt:    entity.ExpiresAt(),
		SeatLimit:    entity.SeatLimit(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func (m *licenseMapper) ToEntities(rows []models.LicenseModel) ([]*license.License, error) {
	entities, err := mapper.MapSliceWithError(rows, func(row models.LicenseModel) (*license.License, error) {
		return m.ToEntity(&row)
	})
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []*license.License{}
	}
	return entities, nil
}

func (m *licenseMapper) KeyToEntity(model *models.LicenseKeyModel) (*license.LicenseKey, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := license.ReconstructLicenseKey(
		model.ID,
		model.BrandID,
		model.KeyString,
		model.CustomerEmail,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct license key entity: %w", err)
	}
	return entity, nil
}

func (m *licenseMapper) KeyToModel(entity *license.LicenseKey) *models.LicenseKeyModel {
	if entity == nil {
		return nil
	}
	return &models.LicenseKeyModel{
		ID:            entity.ID(),
		BrandID:       entity.BrandID(),
		KeyString:     entity.Key(),
		CustomerEmail: entity.CustomerEmail(),
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}

func (m *licenseMapper) ActivationToModel(entity *license.Activation) *models.ActivationModel {
	return &models.ActivationModel{
		ID:         entity.ID(),
		LicenseID:  entity.LicenseID(),
		InstanceID: entity.InstanceID(),
		CreatedAt:  entity.CreatedAt(),
	}
}
