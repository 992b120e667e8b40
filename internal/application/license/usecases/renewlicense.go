package usecases

import (
	"context"
	"fmt"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type RenewLicenseCommand struct {
	BrandID       uint `json:"-"`
	LicenseID     uint `json:"license_id" validate:"required,gt=0"`
	ExtensionDays int  `json:"extension_days" validate:"required,gt=0,lte=36500"`
}

// RenewLicenseUseCase extends a license's expiration and makes it valid
// again, whatever its prior status.
type RenewLicenseUseCase struct {
	licenseRepo license.LicenseRepository
	txMgr       *db.TransactionManager
	clock       biztime.Clock
	logger      logger.Interface
}

func NewRenewLicenseUseCase(
	licenseRepo license.LicenseRepository,
	txMgr *db.TransactionManager,
	clock biztime.Clock,
	logger logger.Interface,
) *RenewLicenseUseCase {
	return &RenewLicenseUseCase{
		licenseRepo: licenseRepo,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *RenewLicenseUseCase) Execute(ctx context.Context, cmd RenewLicenseCommand) (*dto.LicenseResponse, error) {
	log := logger.FromContext(ctx, uc.logger)
	log.Infow("license renewal attempt", "license_id", cmd.LicenseID, "extension_days", cmd.ExtensionDays)

	if err := utils.ValidateStruct(cmd); err != nil {
		log.Warnw("renewal rejected: invalid request", "error", err)
		return nil, err
	}

	var renewed *license.License
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		l, err := uc.licenseRepo.LockByID(txCtx, cmd.BrandID, cmd.LicenseID)
		if err != nil {
			return err
		}
		if l == nil {
			return license.ErrLicenseNotFound()
		}
		if l.Status() != license.StatusValid {
			if err := ensureNoValidSibling(txCtx, uc.licenseRepo, l); err != nil {
				return err
			}
		}

		l.Renew(cmd.ExtensionDays, uc.clock.Now())
		if err := uc.licenseRepo.Update(txCtx, l); err != nil {
			return err
		}
		renewed = l
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("renewal rejected", "reason", reasonOf(err), "license_id", cmd.LicenseID)
			return nil, err
		}
		log.Errorw("renewal failed", "error", err, "license_id", cmd.LicenseID)
		return nil, fmt.Errorf("failed to renew license: %w", err)
	}

	log.Infow("license renewed successfully",
		"license_id", cmd.LicenseID,
		"new_expiration_date", renewed.ExpiresAt(),
		"action", "license.renew")

	resp := viewRenderer{}.licenseResponse(renewed, uc.clock.Now())
	return &resp, nil
}

// ensureNoValidSibling rejects bringing l back to valid when its key already
// holds another valid license for the same product, which a re-provision
// after cancellation or suspension creates.
func ensureNoValidSibling(ctx context.Context, repo license.LicenseRepository, l *license.License) error {
	sibling, err := repo.LockValidSibling(ctx, l)
	if err != nil {
		return err
	}
	if sibling != nil {
		return license.ErrDuplicateValidLicense(sibling.ID())
	}
	return nil
}
