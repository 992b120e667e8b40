package http

import (
	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/domain/idempotency"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/repository"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	brandRepo       brand.Repository
	productRepo     brand.ProductRepository
	licenseKeyRepo  license.LicenseKeyRepository
	licenseRepo     license.LicenseRepository
	activationRepo  license.ActivationRepository
	licenseReader   license.Reader
	idempotencyRepo idempotency.Repository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		brandRepo:       repository.NewBrandRepository(db, log),
		productRepo:     repository.NewProductRepository(db, log),
		licenseKeyRepo:  repository.NewLicenseKeyRepository(db, log),
		licenseRepo:     repository.NewLicenseRepository(db, log),
		activationRepo:  repository.NewActivationRepository(db, log),
		licenseReader:   repository.NewLicenseReader(db, log),
		idempotencyRepo: repository.NewIdempotencyRepository(db, log),
	}
}
