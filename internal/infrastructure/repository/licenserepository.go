package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/mappers"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

const joinLicenseKeys = "JOIN license_keys ON license_keys.id = licenses.license_key_id"

// LicenseRepositoryImpl implements license.LicenseRepository
type LicenseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewLicenseRepository(db *gorm.DB, logger logger.Interface) license.LicenseRepository {
	return &LicenseRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

// CreateBatch inserts all licenses in one statement and assigns their IDs
func (r *LicenseRepositoryImpl) CreateBatch(ctx context.Context, licenses []*license.License) error {
	if len(licenses) == 0 {
		return nil
	}

	rows := make([]*models.LicenseModel, len(licenses))
	for i, l := range licenses {
		rows[i] = r.mapper.ToModel(l)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		r.logger.Errorw("failed to create licenses", "count", len(rows), "error", err)
		return storeError("create licenses", err)
	}

	for i, row := range rows {
		if err := licenses[i].SetID(row.ID); err != nil {
			return fmt.Errorf("failed to set license ID: %w", err)
		}
	}
	return nil
}

// Update writes the mutable columns. The caller holds the row lock, so the
// row is known to exist.
func (r *LicenseRepositoryImpl) Update(ctx context.Context, l *license.License) error {
	model := r.mapper.ToModel(l)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseModel{}).
		Where("id = ? AND brand_id = ?", l.ID(), l.BrandID()).
		Select("status", "expiration_date", "seat_limit", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update license", "license_id", l.ID(), "error", result.Error)
		return storeError("update license", result.Error)
	}
	return nil
}

func (r *LicenseRepositoryImpl) LockValidForCustomer(ctx context.Context, brandID uint, customerEmail string, productIDs []uint) ([]*license.License, error) {
	if len(productIDs) == 0 {
		return []*license.License{}, nil
	}

	var rows []models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseModel{}).
		Select("licenses.*").
		Joins(joinLicenseKeys).
		Scopes(db.OwnedByBrandWithAlias(constants.TableLicenses, brandID), db.ForUpdate(constants.TableLicenses)).
		Where("LOWER(license_keys.customer_email) = LOWER(?)", customerEmail).
		Where("licenses.product_id IN ? AND licenses.status = ?", productIDs, license.StatusValid.String()).
		Order("licenses.id").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("lock customer licenses", err)
	}
	return r.mapper.ToEntities(rows)
}

func (r *LicenseRepositoryImpl) LockForActivation(ctx context.Context, brandID uint, keyString string, productID uint) (*license.License, error) {
	var row models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.LicenseModel{}).
		Select("licenses.*").
		Joins(joinLicenseKeys).
		Scopes(db.OwnedByBrandWithAlias(constants.TableLicenses, brandID), db.ForUpdate(constants.TableLicenses)).
		Where("license_keys.brand_id = ? AND license_keys.key_string = ?", brandID, keyString).
		Where("licenses.product_id = ? AND licenses.status = ?", productID, license.StatusValid.String()).
		Order("licenses.id").
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, storeError("lock license", err)
	}
	if row.ID == 0 {
		return nil, nil
	}
	return r.mapper.ToEntity(&row)
}

func (r *LicenseRepositoryImpl) LockByID(ctx context.Context, brandID, licenseID uint) (*license.License, error) {
	var row models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(brandID), db.ForUpdate()).
		Where("id = ?", licenseID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("lock license", err)
	}
	return r.mapper.ToEntity(&row)
}

func (r *LicenseRepositoryImpl) LockValidSibling(ctx context.Context, l *license.License) (*license.License, error) {
	var row models.LicenseModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(l.BrandID()), db.ForUpdate()).
		Where("license_key_id = ? AND product_id = ? AND id <> ? AND status = ?",
			l.LicenseKeyID(), l.ProductID(), l.ID(), license.StatusValid.String()).
		Order("id").
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, storeError("lock sibling license", err)
	}
	if row.ID == 0 {
		return nil, nil
	}
	return r.mapper.ToEntity(&row)
}

func (r *LicenseRepositoryImpl) ListByKey(ctx context.Context, licenseKeyID uint) ([]*license.License, error) {
	var rows []models.LicenseModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("license_key_id = ?", licenseKeyID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, storeError("list licenses", err)
	}
	return r.mapper.ToEntities(rows)
}
