package usecases

import (
	"context"
	"strings"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

type Credentials struct {
	APIKey string
	Slug   string
}

// AuthenticateBrandUseCase resolves request credentials to a principal. A
// secret API key yields a brand principal; a bare slug only a product one.
type AuthenticateBrandUseCase struct {
	brandRepo brand.Repository
	keys      APIKeyGenerator
	logger    logger.Interface
}

func NewAuthenticateBrandUseCase(brandRepo brand.Repository, keys APIKeyGenerator, logger logger.Interface) *AuthenticateBrandUseCase {
	return &AuthenticateBrandUseCase{brandRepo: brandRepo, keys: keys, logger: logger}
}

func (uc *AuthenticateBrandUseCase) Execute(ctx context.Context, creds Credentials) (*brand.Principal, error) {
	log := logger.FromContext(ctx, uc.logger)
	apiKey := strings.TrimSpace(creds.APIKey)
	slug := strings.TrimSpace(creds.Slug)

	switch {
	case apiKey != "":
		b, err := uc.brandRepo.GetByAPIKeyHash(ctx, uc.keys.Hash(apiKey))
		if err != nil {
			log.Errorw("failed to look up brand by API key", "error", err)
			return nil, err
		}
		if b == nil {
			log.Warnw("authentication failed: unknown API key")
			return nil, errors.NewUnauthorizedError("invalid API key")
		}
		return &brand.Principal{Kind: brand.PrincipalBrand, Brand: b}, nil

	case slug != "":
		b, err := uc.brandRepo.GetBySlug(ctx, strings.ToLower(slug))
		if err != nil {
			log.Errorw("failed to look up brand by slug", "error", err)
			return nil, err
		}
		if b == nil {
			log.Warnw("authentication failed: unknown brand slug", "slug", slug)
			return nil, errors.NewUnauthorizedError("invalid brand slug")
		}
		return &brand.Principal{Kind: brand.PrincipalProduct, Brand: b}, nil

	default:
		return nil, errors.NewUnauthorizedError("authentication required")
	}
}
