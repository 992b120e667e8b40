package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/mappers"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/db"
	apperrors "github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// ActivationRepositoryImpl implements license.ActivationRepository
type ActivationRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewActivationRepository(db *gorm.DB, logger logger.Interface) license.ActivationRepository {
	return &ActivationRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

func (r *ActivationRepositoryImpl) Create(ctx context.Context, a *license.Activation) error {
	model := r.mapper.ActivationToModel(a)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return license.ErrActivationExists
		}
		r.logger.Errorw("failed to create activation",
			"license_id", a.LicenseID(),
			"instance_id", a.InstanceID(),
			"error", err)
		return storeError("create activation", err)
	}

	a.SetID(model.ID)
	return nil
}

func (r *ActivationRepositoryImpl) Exists(ctx context.Context, licenseID uint, instanceID string) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ActivationModel{}).
		Where("license_id = ? AND instance_identifier = ?", licenseID, instanceID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, storeError("check activation", err)
	}
	return count > 0, nil
}

func (r *ActivationRepositoryImpl) CountByLicense(ctx context.Context, licenseID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ActivationModel{}).
		Where("license_id = ?", licenseID).
		Count(&count).Error; err != nil {
		return 0, storeError("count activations", err)
	}
	return count, nil
}

func (r *ActivationRepositoryImpl) DeleteForInstance(ctx context.Context, brandID uint, keyString string, productID uint, instanceID string) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	licenseIDs := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.LicenseModel{}).
		Select("licenses.id").
		Joins(joinLicenseKeys).
		Where("licenses.brand_id = ? AND license_keys.brand_id = ?", brandID, brandID).
		Where("license_keys.key_string = ? AND licenses.product_id = ?", keyString, productID)

	result := tx.
		Where("instance_identifier = ? AND license_id IN (?)", instanceID, licenseIDs).
		Delete(&models.ActivationModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete activation",
			"brand_id", brandID,
			"product_id", productID,
			"instance_id", instanceID,
			"error", result.Error)
		return 0, storeError("delete activation", result.Error)
	}
	return result.RowsAffected, nil
}
