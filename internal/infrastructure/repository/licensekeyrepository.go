package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/mappers"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/db"
	apperrors "github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// LicenseKeyRepositoryImpl implements license.LicenseKeyRepository
type LicenseKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewLicenseKeyRepository(db *gorm.DB, logger logger.Interface) license.LicenseKeyRepository {
	return &LicenseKeyRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

func (r *LicenseKeyRepositoryImpl) Create(ctx context.Context, key *license.LicenseKey) error {
	model := r.mapper.KeyToModel(key)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return license.ErrDuplicateKeyString
		}
		r.logger.Errorw("failed to create license key", "brand_id", key.BrandID(), "error", err)
		return storeError("create license key", err)
	}

	return key.SetID(model.ID)
}

func (r *LicenseKeyRepositoryImpl) LockForCustomer(ctx context.Context, brandID uint, keyString, customerEmail string) (*license.LicenseKey, error) {
	var model models.LicenseKeyModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(brandID), db.ForUpdate()).
		Where("key_string = ? AND LOWER(customer_email) = LOWER(?)", keyString, customerEmail).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("lock license key", err)
	}
	return r.mapper.KeyToEntity(&model)
}

func (r *LicenseKeyRepositoryImpl) GetByID(ctx context.Context, id uint) (*license.LicenseKey, error) {
	var model models.LicenseKeyModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("get license key", err)
	}
	return r.mapper.KeyToEntity(&model)
}
