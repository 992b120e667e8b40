package usecases

import (
	"context"

	"github.com/entitle-inc/entitle/internal/application/brand/dto"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type CreateProductCommand struct {
	BrandID     uint   `json:"brand_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"max=10000"`
}

type CreateProductUseCase struct {
	brandRepo   brand.Repository
	productRepo brand.ProductRepository
	md          markdown.MarkdownService
	clock       biztime.Clock
	logger      logger.Interface
}

func NewCreateProductUseCase(
	brandRepo brand.Repository,
	productRepo brand.ProductRepository,
	md markdown.MarkdownService,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateProductUseCase {
	return &CreateProductUseCase{
		brandRepo:   brandRepo,
		productRepo: productRepo,
		md:          md,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *CreateProductUseCase) Execute(ctx context.Context, cmd CreateProductCommand) (*dto.ProductResponse, error) {
	log := logger.FromContext(ctx, uc.logger)

	cmd.Name = uc.md.PlainText(cmd.Name)
	if err := utils.ValidateStruct(cmd); err != nil {
		log.Warnw("product creation rejected: invalid request", "error", err)
		return nil, err
	}

	b, err := uc.brandRepo.GetByID(ctx, cmd.BrandID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		log.Warnw("product creation rejected: unknown brand", "brand_id", cmd.BrandID)
		return nil, errors.NewNotFoundError("brand not found")
	}

	slug, err := resolveSlug(ctx, uc.productRepo.SlugsWithPrefix, cmd.Name, cmd.Slug, "product")
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("product creation rejected", "slug", cmd.Slug, "error", err)
		}
		return nil, err
	}

	p, err := brand.NewProduct(b.ID(), cmd.Name, slug, cmd.Description, uc.clock.Now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Infow("product created successfully",
		"brand_id", b.ID(),
		"product_id", p.ID(),
		"slug", p.Slug(),
		"action", "product.create")
	return dto.ToProductResponse(p), nil
}
