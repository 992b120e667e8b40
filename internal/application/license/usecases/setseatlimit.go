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
)

// SetSeatLimitCommand sets the seat limit; a nil SeatLimit means unlimited.
type SetSeatLimitCommand struct {
	BrandID   uint
	LicenseID uint
	SeatLimit *int
}

// SetSeatLimitUseCase changes how many instances may hold a seat. It takes
// the same row lock as activation, so the limit is never set below the
// committed seat count.
type SetSeatLimitUseCase struct {
	licenseRepo    license.LicenseRepository
	activationRepo license.ActivationRepository
	txMgr          *db.TransactionManager
	clock          biztime.Clock
	logger         logger.Interface
}

func NewSetSeatLimitUseCase(
	licenseRepo license.LicenseRepository,
	activationRepo license.ActivationRepository,
	txMgr *db.TransactionManager,
	clock biztime.Clock,
	logger logger.Interface,
) *SetSeatLimitUseCase {
	return &SetSeatLimitUseCase{
		licenseRepo:    licenseRepo,
		activationRepo: activationRepo,
		txMgr:          txMgr,
		clock:          clock,
		logger:         logger,
	}
}

func (uc *SetSeatLimitUseCase) Execute(ctx context.Context, cmd SetSeatLimitCommand) (*dto.LicenseResponse, error) {
	log := logger.FromContext(ctx, uc.logger)
	log.Infow("seat limit update attempt", "license_id", cmd.LicenseID, "seat_limit", cmd.SeatLimit)

	var (
		updated *license.License
		seats   int64
	)
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		l, err := uc.licenseRepo.LockByID(txCtx, cmd.BrandID, cmd.LicenseID)
		if err != nil {
			return err
		}
		if l == nil {
			return license.ErrLicenseNotFound()
		}

		seats, err = uc.activationRepo.CountByLicense(txCtx, l.ID())
		if err != nil {
			return err
		}
		if err := l.ChangeSeatLimit(cmd.SeatLimit, seats, uc.clock.Now()); err != nil {
			return err
		}
		if err := uc.licenseRepo.Update(txCtx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("seat limit update rejected", "reason", reasonOf(err), "license_id", cmd.LicenseID)
			return nil, err
		}
		log.Errorw("seat limit update failed", "error", err, "license_id", cmd.LicenseID)
		return nil, fmt.Errorf("failed to set seat limit: %w", err)
	}

	log.Infow("seat limit updated successfully",
		"license_id", cmd.LicenseID,
		"seat_limit", updated.SeatLimit(),
		"active_seats", seats,
		"action", "license.set_seat_limit")

	resp := viewRenderer{}.licenseResponse(updated, uc.clock.Now())
	resp.ActiveSeats = &seats
	return &resp, nil
}
