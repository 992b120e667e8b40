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
)

// BrandRepositoryImpl implements brand.Repository
type BrandRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBrandRepository(db *gorm.DB, logger logger.Interface) brand.Repository {
	return &BrandRepositoryImpl{db: db, logger: logger}
}

func (r *BrandRepositoryImpl) Create(ctx context.Context, b *brand.Brand) error {
	model := mappers.BrandToModel(b)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("brand slug already exists", b.Slug())
		}
		r.logger.Errorw("failed to create brand", "slug", b.Slug(), "error", err)
		return storeError("create brand", err)
	}

	if err := b.SetID(model.ID); err != nil {
		return err
	}
	r.logger.Infow("brand created", "id", model.ID, "slug", model.Slug)
	return nil
}

func (r *BrandRepositoryImpl) GetByID(ctx context.Context, id uint) (*brand.Brand, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *BrandRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*brand.Brand, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *BrandRepositoryImpl) GetByAPIKeyHash(ctx context.Context, hash string) (*brand.Brand, error) {
	return r.first(ctx, "api_key_hash = ?", hash)
}

func (r *BrandRepositoryImpl) first(ctx context.Context, query string, arg any) (*brand.Brand, error) {
	var model models.BrandModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("get brand", err)
	}
	return mappers.BrandToEntity(&model)
}

func (r *BrandRepositoryImpl) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	return slugsWithPrefix(db.GetTxFromContext(ctx, r.db).Model(&models.BrandModel{}), base)
}

func slugsWithPrefix(q *gorm.DB, base string) ([]string, error) {
	var slugs []string
	if err := q.Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, storeError("list slugs", err)
	}
	return slugs, nil
}
