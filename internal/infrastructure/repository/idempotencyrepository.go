package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/idempotency"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/mappers"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/db"
	apperrors "github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// IdempotencyRepositoryImpl implements idempotency.Repository
type IdempotencyRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewIdempotencyRepository(db *gorm.DB, logger logger.Interface) idempotency.Repository {
	return &IdempotencyRepositoryImpl{db: db, logger: logger}
}

func (r *IdempotencyRepositoryImpl) Reserve(ctx context.Context, rec *idempotency.Record) error {
	model := mappers.IdempotencyRecordToModel(rec)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return idempotency.ErrAlreadyReserved
		}
		r.logger.Errorw("failed to reserve idempotency key", "brand_id", rec.BrandID(), "error", err)
		return storeError("reserve idempotency key", err)
	}
	rec.SetID(model.ID)
	return nil
}

func (r *IdempotencyRepositoryImpl) Get(ctx context.Context, brandID uint, key string) (*idempotency.Record, error) {
	var model models.IdempotencyRecordModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(brandID)).
		Where("idempotency_key = ?", key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("get idempotency record", err)
	}
	return mappers.IdempotencyRecordToEntity(&model)
}

func (r *IdempotencyRepositoryImpl) pending(ctx context.Context, brandID uint, key string) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Model(&models.IdempotencyRecordModel{}).
		Scopes(db.OwnedByBrand(brandID)).
		Where("idempotency_key = ? AND status = ?", key, string(idempotency.StatusPending))
}

func (r *IdempotencyRepositoryImpl) TakeOver(ctx context.Context, brandID uint, key, attemptID, requestHash string, staleBefore, now time.Time) (bool, error) {
	result := r.pending(ctx, brandID, key).
		Where("updated_at < ?", staleBefore).
		Updates(map[string]any{
			"attempt_id":   attemptID,
			"request_hash": requestHash,
			"updated_at":   now,
		})
	if result.Error != nil {
		return false, storeError("take over idempotency key", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *IdempotencyRepositoryImpl) Complete(ctx context.Context, brandID uint, key, attemptID string, statusCode int, body []byte, now time.Time) error {
	result := r.pending(ctx, brandID, key).
		Where("attempt_id = ?", attemptID).
		Updates(map[string]any{
			"status":        string(idempotency.StatusCompleted),
			"status_code":   statusCode,
			"response_data": datatypes.JSON(body),
			"updated_at":    now,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to complete idempotency record", "brand_id", brandID, "error", result.Error)
		return storeError("complete idempotency record", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("idempotency reservation for attempt %s no longer held", attemptID)
	}
	return nil
}

func (r *IdempotencyRepositoryImpl) Release(ctx context.Context, brandID uint, key, attemptID string) error {
	if err := r.pending(ctx, brandID, key).
		Where("attempt_id = ?", attemptID).
		Delete(&models.IdempotencyRecordModel{}).Error; err != nil {
		return storeError("release idempotency key", err)
	}
	return nil
}
