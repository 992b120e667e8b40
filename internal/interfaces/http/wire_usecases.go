package http

import (
	"gorm.io/gorm"

	brandUsecases "github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/application/idempotency"
	licenseUsecases "github.com/entitle-inc/entitle/internal/application/license/usecases"
	"github.com/entitle-inc/entitle/internal/infrastructure/apikey"
	"github.com/entitle-inc/entitle/internal/infrastructure/config"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Tenancy
	authenticateBrandUC *brandUsecases.AuthenticateBrandUseCase

	// License engines
	provisionLicenseUC    *licenseUsecases.ProvisionLicenseUseCase
	activateLicenseUC     *licenseUsecases.ActivateLicenseUseCase
	deactivateLicenseUC   *licenseUsecases.DeactivateLicenseUseCase
	updateLicenseStatusUC *licenseUsecases.UpdateLicenseStatusUseCase
	renewLicenseUC        *licenseUsecases.RenewLicenseUseCase
	setSeatLimitUC        *licenseUsecases.SetSeatLimitUseCase

	// Readers
	getLicenseStatusUC *licenseUsecases.GetLicenseStatusUseCase
	globalLookupUC     *licenseUsecases.GlobalLookupUseCase

	idempotencyGate *idempotency.Gate
}

func newUseCases(gdb *gorm.DB, repos *repositories, cfg *config.Config, clock biztime.Clock, log logger.Interface) *allUseCases {
	txMgr := db.NewTransactionManager(gdb)
	md := markdown.NewMarkdownService()

	return &allUseCases{
		authenticateBrandUC: brandUsecases.NewAuthenticateBrandUseCase(repos.brandRepo, apikey.NewGenerator(), log),

		provisionLicenseUC: licenseUsecases.NewProvisionLicenseUseCase(
			repos.licenseKeyRepo, repos.licenseRepo, repos.productRepo, repos.licenseReader, txMgr,
			licenseUsecases.NewKeyGenerator(cfg.License), cfg.License, clock, md, log,
		),
		activateLicenseUC:     licenseUsecases.NewActivateLicenseUseCase(repos.licenseRepo, repos.activationRepo, txMgr, clock, log),
		deactivateLicenseUC:   licenseUsecases.NewDeactivateLicenseUseCase(repos.activationRepo, txMgr, log),
		updateLicenseStatusUC: licenseUsecases.NewUpdateLicenseStatusUseCase(repos.licenseRepo, txMgr, clock, log),
		renewLicenseUC:        licenseUsecases.NewRenewLicenseUseCase(repos.licenseRepo, txMgr, clock, log),
		setSeatLimitUC:        licenseUsecases.NewSetSeatLimitUseCase(repos.licenseRepo, repos.activationRepo, txMgr, clock, log),

		getLicenseStatusUC: licenseUsecases.NewGetLicenseStatusUseCase(repos.licenseReader, clock, md, log),
		globalLookupUC:     licenseUsecases.NewGlobalLookupUseCase(repos.licenseReader, clock, md, log),

		idempotencyGate: idempotency.NewGate(repos.idempotencyRepo, cfg.Idempotency, clock, log),
	}
}
