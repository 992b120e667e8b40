package handlers

import (
	"context"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/application/license/usecases"
)

// Use case interfaces for LicenseHandler

type provisionLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.ProvisionLicenseCommand) (*dto.ProvisionResponse, error)
}

type activateLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.ActivateLicenseCommand) (*dto.ActivationResponse, error)
}

type deactivateLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeactivateLicenseCommand) (*dto.DeactivationResponse, error)
}

type getLicenseStatusUseCase interface {
	Execute(ctx context.Context, brandID uint, keyString string) (*dto.LicenseKeyResponse, error)
}

type updateLicenseStatusUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateLicenseStatusCommand) (*dto.LicenseResponse, error)
}

type renewLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.RenewLicenseCommand) (*dto.LicenseResponse, error)
}

type setSeatLimitUseCase interface {
	Execute(ctx context.Context, cmd usecases.SetSeatLimitCommand) (*dto.LicenseResponse, error)
}

type globalLookupUseCase interface {
	Execute(ctx context.Context, email string) (*dto.GlobalLookupResponse, error)
}
