package usecases

import (
	"context"

	"github.com/entitle-inc/entitle/internal/application/brand/dto"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/mapper"
)

type ListProductsUseCase struct {
	productRepo brand.ProductRepository
	logger      logger.Interface
}

func NewListProductsUseCase(productRepo brand.ProductRepository, logger logger.Interface) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo, logger: logger}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, brandID uint) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.ListByBrand(ctx, brandID)
	if err != nil {
		logger.FromContext(ctx, uc.logger).Errorw("failed to list products", "brand_id", brandID, "error", err)
		return nil, err
	}
	return mapper.MapSlice(products, dto.ToProductResponse), nil
}
