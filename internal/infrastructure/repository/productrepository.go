package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/mappers"
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
	"github.com/entitle-inc/entitle/internal/shared/db"
	apperrors "github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/mapper"
)

// ProductRepositoryImpl implements brand.ProductRepository
type ProductRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProductRepository(db *gorm.DB, logger logger.Interface) brand.ProductRepository {
	return &ProductRepositoryImpl{db: db, logger: logger}
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, p *brand.Product) error {
	model := mappers.ProductToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("product slug already exists", p.Slug())
		}
		r.logger.Errorw("failed to create product", "brand_id", p.BrandID(), "slug", p.Slug(), "error", err)
		return storeError("create product", err)
	}

	if err := p.SetID(model.ID); err != nil {
		return err
	}
	r.logger.Infow("product created", "id", model.ID, "brand_id", model.BrandID, "slug", model.Slug)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, p *brand.Product) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProductModel{}).
		Scopes(db.OwnedByBrand(p.BrandID())).
		Where("id = ?", p.ID()).
		Updates(map[string]any{
			"name":        p.Name(),
			"description": p.Description(),
			"active":      p.IsActive(),
			"updated_at":  p.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update product", "id", p.ID(), "error", result.Error)
		return storeError("update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("product not found")
	}
	return nil
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, brandID, productID uint) (*brand.Product, error) {
	var model models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(brandID)).
		Where("id = ?", productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("get product", err)
	}
	return mappers.ProductToEntity(&model)
}

func (r *ProductRepositoryImpl) ListByBrand(ctx context.Context, brandID uint) ([]*brand.Product, error) {
	var rows []*models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(brandID)).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, storeError("list products", err)
	}
	return mapper.MapSliceWithError(rows, mappers.ProductToEntity)
}

func (r *ProductRepositoryImpl) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	return slugsWithPrefix(db.GetTxFromContext(ctx, r.db).Model(&models.ProductModel{}), base)
}

func (r *ProductRepositoryImpl) LockActiveByIDs(ctx context.Context, brandID uint, ids []uint) ([]*brand.Product, error) {
	if len(ids) == 0 {
		return []*brand.Product{}, nil
	}

	var rows []*models.ProductModel
	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.OwnedByBrand(brandID), db.ForUpdate()).
		Where("id IN ? AND active = ?", ids, true).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, storeError("lock products", err)
	}
	return mapper.MapSliceWithError(rows, mappers.ProductToEntity)
}
