package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/mappers"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// LicenseReader implements license.Reader with plain reads and no locks
type LicenseReader struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewLicenseReader(db *gorm.DB, logger logger.Interface) license.Reader {
	return &LicenseReader{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

func (r *LicenseReader) withKeyGraph(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Licenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("licenses.id")
		}).
		Preload("Licenses.Product")
}

func (r *LicenseReader) KeyStatus(ctx context.Context, brandID uint, keyString string) (*license.KeyView, error) {
	var key models.LicenseKeyModel
	err := r.withKeyGraph(ctx).
		Where("brand_id = ? AND key_string = ?", brandID, keyString).
		First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to load license key status", "brand_id", brandID, "error", err)
		return nil, storeError("load license key status", err)
	}

	views, err := r.toViews(ctx, []models.LicenseKeyModel{key})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (r *LicenseReader) KeysByEmail(ctx context.Context, email string) ([]*license.KeyView, error) {
	var keys []models.LicenseKeyModel
	if err := r.withKeyGraph(ctx).
		Where("LOWER(customer_email) = LOWER(?)", email).
		Order("created_at, id").
		Find(&keys).Error; err != nil {
		r.logger.Errorw("failed to look up license keys by email", "error", err)
		return nil, storeError("look up license keys", err)
	}
	return r.toViews(ctx, keys)
}

func (r *LicenseReader) toViews(ctx context.Context, keys []models.LicenseKeyModel) ([]*license.KeyView, error) {
	var licenseIDs []uint
	for _, k := range keys {
		for _, l := range k.Licenses {
			licenseIDs = append(licenseIDs, l.ID)
		}
	}
	seats, err := r.seatCounts(ctx, licenseIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*license.KeyView, 0, len(keys))
	for i := range keys {
		k := &keys[i]
		entity, err := r.mapper.KeyToEntity(k)
		if err != nil {
			return nil, err
		}
		view := &license.KeyView{Key: entity, Licenses: make([]license.LicenseView, 0, len(k.Licenses))}
		if k.Brand != nil {
			view.BrandName = k.Brand.Name
			view.BrandSlug = k.Brand.Slug
		}
		for j := range k.Licenses {
			row := &k.Licenses[j]
			l, err := r.mapper.ToEntity(row)
			if err != nil {
				return nil, err
			}
			lv := license.LicenseView{License: l, ActiveSeats: seats[row.ID]}
			if row.Product != nil {
				lv.Product = license.ProductView{
					ID:          row.Product.ID,
					Name:        row.Product.Name,
					Slug:        row.Product.Slug,
					Description: row.Product.Description,
				}
			}
			view.Licenses = append(view.Licenses, lv)
		}
		views = append(views, view)
	}
	return views, nil
}

func (r *LicenseReader) seatCounts(ctx context.Context, licenseIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(licenseIDs))
	if len(licenseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		LicenseID uint
		Seats     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ActivationModel{}).
		Select("license_id, COUNT(*) AS seats").
		Where("license_id IN ?", licenseIDs).
		Group("license_id").
		Scan(&rows).Error; err != nil {
		return nil, storeError("count seats", err)
	}
	for _, row := range rows {
		counts[row.LicenseID] = row.Seats
	}
	return counts, nil
}
