package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

type UpdateLicenseStatusCommand struct {
	BrandID   uint
	LicenseID uint
	Status    string
}

// UpdateLicenseStatusUseCase suspends, resumes or cancels a license.
type UpdateLicenseStatusUseCase struct {
	licenseRepo license.LicenseRepository
	txMgr       *db.TransactionManager
	clock       biztime.Clock
	logger      logger.Interface
}

func NewUpdateLicenseStatusUseCase(
	licenseRepo license.LicenseRepository,
	txMgr *db.TransactionManager,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdateLicenseStatusUseCase {
	return &UpdateLicenseStatusUseCase{
		licenseRepo: licenseRepo,
		txMgr:       txMgr,
		clock:       clock,
		logger:      logger,
	}
}

func (uc *UpdateLicenseStatusUseCase) Execute(ctx context.Context, cmd UpdateLicenseStatusCommand) (*dto.LicenseResponse, error) {
	log := logger.FromContext(ctx, uc.logger)
	log.Infow("license status update attempt", "license_id", cmd.LicenseID, "new_status", cmd.Status)

	target := license.Status(strings.ToLower(strings.TrimSpace(cmd.Status)))
	if !target.IsValid() {
		log.Warnw("status update rejected: invalid status", "status", cmd.Status)
		return nil, license.ErrInvalidStatus(cmd.Status)
	}

	var (
		updated   *license.License
		oldStatus license.Status
		changed   bool
	)
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		l, err := uc.licenseRepo.LockByID(txCtx, cmd.BrandID, cmd.LicenseID)
		if err != nil {
			return err
		}
		if l == nil {
			return license.ErrLicenseNotFound()
		}

		oldStatus = l.Status()
		if target == license.StatusValid && oldStatus == license.StatusSuspended {
			if err := ensureNoValidSibling(txCtx, uc.licenseRepo, l); err != nil {
				return err
			}
		}
		changed, err = l.ChangeStatus(target, uc.clock.Now())
		if err != nil {
			return err
		}
		updated = l
		if !changed {
			return nil
		}
		return uc.licenseRepo.Update(txCtx, l)
	})
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("status update rejected", "reason", reasonOf(err), "license_id", cmd.LicenseID)
			return nil, err
		}
		log.Errorw("status update failed", "error", err, "license_id", cmd.LicenseID)
		return nil, fmt.Errorf("failed to update license status: %w", err)
	}

	if !changed {
		log.Infow("license already in desired status, no update", "license_id", cmd.LicenseID, "status", target)
	} else {
		log.Infow("license status updated successfully",
			"license_id", cmd.LicenseID,
			"old_status", oldStatus,
			"new_status", target,
			"action", "license.update_status")
	}

	resp := viewRenderer{}.licenseResponse(updated, uc.clock.Now())
	return &resp, nil
}
