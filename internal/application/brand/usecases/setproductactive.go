package usecases

import (
	"context"

	"github.com/entitle-inc/entitle/internal/application/brand/dto"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// SetProductActiveUseCase enables or retires a product for new provisioning.
// Licenses already issued for it are left alone.
type SetProductActiveUseCase struct {
	productRepo brand.ProductRepository
	clock       biztime.Clock
	logger      logger.Interface
}

func NewSetProductActiveUseCase(productRepo brand.ProductRepository, clock biztime.Clock, logger logger.Interface) *SetProductActiveUseCase {
	return &SetProductActiveUseCase{productRepo: productRepo, clock: clock, logger: logger}
}

func (uc *SetProductActiveUseCase) Execute(ctx context.Context, brandID, productID uint, active bool) (*dto.ProductResponse, error) {
	log := logger.FromContext(ctx, uc.logger)

	p, err := uc.productRepo.GetByID(ctx, brandID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		log.Warnw("product not found", "brand_id", brandID, "product_id", productID)
		return nil, errors.NewNotFoundError("product not found")
	}

	if !p.SetActive(active, uc.clock.Now()) {
		return dto.ToProductResponse(p), nil
	}
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	log.Infow("product availability changed",
		"brand_id", brandID,
		"product_id", productID,
		"active", active,
		"action", "product.set_active")
	return dto.ToProductResponse(p), nil
}
