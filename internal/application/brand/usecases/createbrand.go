package usecases

import (
	"context"
	"fmt"

	"github.com/entitle-inc/entitle/internal/application/brand/dto"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type CreateBrandCommand struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=64"`
}

type CreateBrandUseCase struct {
	brandRepo brand.Repository
	keys      APIKeyGenerator
	md        markdown.MarkdownService
	clock     biztime.Clock
	logger    logger.Interface
}

func NewCreateBrandUseCase(
	brandRepo brand.Repository,
	keys APIKeyGenerator,
	md markdown.MarkdownService,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateBrandUseCase {
	return &CreateBrandUseCase{
		brandRepo: brandRepo,
		keys:      keys,
		md:        md,
		clock:     clock,
		logger:    logger,
	}
}

func (uc *CreateBrandUseCase) Execute(ctx context.Context, cmd CreateBrandCommand) (*dto.CreateBrandResponse, error) {
	log := logger.FromContext(ctx, uc.logger)

	cmd.Name = uc.md.PlainText(cmd.Name)
	if err := utils.ValidateStruct(cmd); err != nil {
		log.Warnw("brand creation rejected: invalid request", "error", err)
		return nil, err
	}

	slug, err := resolveSlug(ctx, uc.brandRepo.SlugsWithPrefix, cmd.Name, cmd.Slug, "brand")
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("brand creation rejected", "slug", cmd.Slug, "error", err)
		}
		return nil, err
	}

	issued, err := uc.keys.Generate()
	if err != nil {
		log.Errorw("failed to generate brand API key", "error", err)
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}

	b, err := brand.NewBrand(cmd.Name, slug, issued.Hash, issued.DisplayPrefix, uc.clock.Now())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.brandRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Infow("brand created successfully",
		"brand_id", b.ID(),
		"slug", b.Slug(),
		"api_key_prefix", b.APIKeyPrefix(),
		"action", "brand.create")

	return &dto.CreateBrandResponse{
		BrandResponse: dto.ToBrandResponse(b),
		APIKey:        issued.Plain,
	}, nil
}
