package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type ActivateLicenseCommand struct {
	BrandID    uint   `json:"-"`
	LicenseKey string `json:"license_key" validate:"required,max=64"`
	ProductID  uint   `json:"product_id" validate:"required,gt=0"`
	InstanceID string `json:"instance_id" validate:"required,max=255"`
}

// ActivateLicenseUseCase consumes a seat on a license for one instance.
type ActivateLicenseUseCase struct {
	licenseRepo    license.LicenseRepository
	activationRepo license.ActivationRepository
	txMgr          *db.TransactionManager
	clock          biztime.Clock
	logger         logger.Interface
}

func NewActivateLicenseUseCase(
	licenseRepo license.LicenseRepository,
	activationRepo license.ActivationRepository,
	txMgr *db.TransactionManager,
	clock biztime.Clock,
	logger logger.Interface,
) *ActivateLicenseUseCase {
	return &ActivateLicenseUseCase{
		licenseRepo:    licenseRepo,
		activationRepo: activationRepo,
		txMgr:          txMgr,
		clock:          clock,
		logger:         logger,
	}
}

func (uc *ActivateLicenseUseCase) Execute(ctx context.Context, cmd ActivateLicenseCommand) (*dto.ActivationResponse, error) {
	cmd.LicenseKey = strings.TrimSpace(cmd.LicenseKey)
	cmd.InstanceID = strings.TrimSpace(cmd.InstanceID)

	log := logger.FromContext(ctx, uc.logger)
	log.Infow("license activation attempt",
		"key", utils.MaskKey(cmd.LicenseKey),
		"product_id", cmd.ProductID,
		"instance_id", cmd.InstanceID)

	if err := utils.ValidateStruct(cmd); err != nil {
		log.Warnw("activation rejected: invalid request", "error", err)
		return nil, err
	}

	var resp *dto.ActivationResponse
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		resp, err = uc.activate(txCtx, cmd)
		return err
	})
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("activation rejected", "reason", reasonOf(err), "instance_id", cmd.InstanceID, "error", err)
			return nil, err
		}
		log.Errorw("activation failed", "error", err, "action", "license.activate.failure")
		return nil, fmt.Errorf("failed to activate license: %w", err)
	}

	if resp.Status == license.ActivationResultAlreadyActive.String() {
		log.Infow("instance already active, activation skipped",
			"license_id", resp.LicenseID,
			"instance_id", resp.InstanceID)
	} else {
		log.Infow("activation successful",
			"license_id", resp.LicenseID,
			"instance_id", resp.InstanceID,
			"active_seats", resp.ActiveSeats,
			"action", "license.activate")
	}
	return resp, nil
}

func (uc *ActivateLicenseUseCase) activate(ctx context.Context, cmd ActivateLicenseCommand) (*dto.ActivationResponse, error) {
	now := uc.clock.Now()

	// The row lock is held until commit, so the seat count below cannot
	// change under us.
	l, err := uc.licenseRepo.LockForActivation(ctx, cmd.BrandID, cmd.LicenseKey, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, license.ErrLicenseNotFound()
	}
	if l.IsExpired(now) {
		return nil, license.ErrLicenseExpired()
	}

	resp := &dto.ActivationResponse{
		LicenseID:  l.ID(),
		InstanceID: cmd.InstanceID,
		SeatLimit:  l.SeatLimit(),
	}

	exists, err := uc.activationRepo.Exists(ctx, l.ID(), cmd.InstanceID)
	if err != nil {
		return nil, err
	}
	seats, err := uc.activationRepo.CountByLicense(ctx, l.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		resp.Status = license.ActivationResultAlreadyActive.String()
		resp.ActiveSeats = seats
		return resp, nil
	}

	if err := l.Admit(seats); err != nil {
		return nil, err
	}

	activation, err := license.NewActivation(l.ID(), cmd.InstanceID, now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.activationRepo.Create(ctx, activation); err != nil {
		if stderrors.Is(err, license.ErrActivationExists) {
			resp.Status = license.ActivationResultAlreadyActive.String()
			resp.ActiveSeats = seats
			return resp, nil
		}
		return nil, err
	}

	resp.Status = license.ActivationResultActivated.String()
	resp.ActiveSeats = seats + 1
	return resp, nil
}
