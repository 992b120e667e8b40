package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type DeactivateLicenseCommand struct {
	BrandID    uint   `json:"-"`
	LicenseKey string `json:"license_key" validate:"required,max=64"`
	ProductID  uint   `json:"product_id" validate:"required,gt=0"`
	InstanceID string `json:"instance_id" validate:"required,max=255"`
}

// DeactivateLicenseUseCase frees the seat an instance holds. The license's
// status and expiration are not checked: a suspended or lapsed license can
// still have installations removed.
type DeactivateLicenseUseCase struct {
	activationRepo license.ActivationRepository
	txMgr          *db.TransactionManager
	logger         logger.Interface
}

func NewDeactivateLicenseUseCase(
	activationRepo license.ActivationRepository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *DeactivateLicenseUseCase {
	return &DeactivateLicenseUseCase{
		activationRepo: activationRepo,
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *DeactivateLicenseUseCase) Execute(ctx context.Context, cmd DeactivateLicenseCommand) (*dto.DeactivationResponse, error) {
	cmd.LicenseKey = strings.TrimSpace(cmd.LicenseKey)
	cmd.InstanceID = strings.TrimSpace(cmd.InstanceID)

	log := logger.FromContext(ctx, uc.logger)
	log.Infow("license deactivation attempt",
		"key", utils.MaskKey(cmd.LicenseKey),
		"product_id", cmd.ProductID,
		"instance_id", cmd.InstanceID)

	if err := utils.ValidateStruct(cmd); err != nil {
		log.Warnw("deactivation rejected: invalid request", "error", err)
		return nil, err
	}

	var removed int64
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = uc.activationRepo.DeleteForInstance(txCtx, cmd.BrandID, cmd.LicenseKey, cmd.ProductID, cmd.InstanceID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return license.ErrActivationNotFound()
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("deactivation rejected", "reason", reasonOf(err), "instance_id", cmd.InstanceID)
			return nil, err
		}
		log.Errorw("deactivation failed", "error", err, "action", "license.deactivate.failure")
		return nil, fmt.Errorf("failed to deactivate license: %w", err)
	}

	log.Infow("deactivation successful",
		"instance_id", cmd.InstanceID,
		"removed", removed,
		"action", "license.deactivate")

	return &dto.DeactivationResponse{
		Status:     "deactivated",
		InstanceID: cmd.InstanceID,
	}, nil
}
