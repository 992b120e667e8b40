package mappers

import (
	"gorm.io/datatypes"

	"github.com/entitle-inc/entitle/internal/domain/idempotency"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
)

func IdempotencyRecordToEntity(model *models.IdempotencyRecordModel) (*idempotency.Record, error) {
	if model == nil {
		return nil, nil
	}
	return idempotency.ReconstructRecord(
		model.ID,
		model.BrandID,
		model.IdempotencyKey,
		model.AttemptID,
		idempotency.Status(model.Status),
		model.RequestHash,
		model.StatusCode,
		[]byte(model.ResponseData),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func IdempotencyRecordToModel(entity *idempotency.Record) *models.IdempotencyRecordModel {
	var body datatypes.JSON
	if len(entity.Body()) > 0 {
		body = datatypes.JSON(entity.Body())
	}
	return &models.IdempotencyRecordModel{
		ID:             entity.ID(),
		BrandID:        entity.BrandID(),
		IdempotencyKey: entity.Key(),
		AttemptID:      entity.AttemptID(),
		Status:         string(entity.Status()),
		RequestHash:    entity.RequestHash(),
		StatusCode:     entity.StatusCode(),
		ResponseData:   body,
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}
