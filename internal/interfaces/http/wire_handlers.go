package http

import (
	"database/sql"

	"github.com/entitle-inc/entitle/internal/interfaces/http/handlers"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	licenseHandler *handlers.LicenseHandler
	healthHandler  *handlers.HealthHandler
}

func newHandlers(ucs *allUseCases, sqlDB *sql.DB, log logger.Interface) *allHandlers {
	return &allHandlers{
		licenseHandler: handlers.NewLicenseHandler(
			ucs.provisionLicenseUC,
			ucs.activateLicenseUC,
			ucs.deactivateLicenseUC,
			ucs.getLicenseStatusUC,
			ucs.updateLicenseStatusUC,
			ucs.renewLicenseUC,
			ucs.setSeatLimitUC,
			ucs.globalLookupUC,
			log,
		),
		healthHandler: handlers.NewHealthHandler(sqlDB, log),
	}
}
