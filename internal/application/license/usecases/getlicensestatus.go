package usecases

import (
	"context"
	"strings"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

// GetLicenseStatusUseCase shows a key with its licenses and seat usage to
// the brand that issued it.
type GetLicenseStatusUseCase struct {
	reader license.Reader
	clock  biztime.Clock
	views  viewRenderer
	logger logger.Interface
}

func NewGetLicenseStatusUseCase(
	reader license.Reader,
	clock biztime.Clock,
	md markdown.MarkdownService,
	logger logger.Interface,
) *GetLicenseStatusUseCase {
	return &GetLicenseStatusUseCase{
		reader: reader,
		clock:  clock,
		views:  viewRenderer{md: md, logger: logger},
		logger: logger,
	}
}

func (uc *GetLicenseStatusUseCase) Execute(ctx context.Context, brandID uint, keyString string) (*dto.LicenseKeyResponse, error) {
	keyString = strings.TrimSpace(keyString)
	log := logger.FromContext(ctx, uc.logger)
	log.Infow("license status check", "key", utils.MaskKey(keyString))

	if keyString == "" {
		return nil, license.ErrLicenseNotFound()
	}

	view, err := uc.reader.KeyStatus(ctx, brandID, keyString)
	if err != nil {
		log.Errorw("status check failed", "error", err)
		return nil, err
	}
	if view == nil {
		log.Warnw("status check failed: key not found", "key", utils.MaskKey(keyString))
		return nil, license.ErrLicenseNotFound()
	}

	log.Infow("status check successful", "key", utils.MaskKey(keyString), "licenses", len(view.Licenses), "action", "license.status")
	resp := uc.views.keyResponse(view, false, uc.clock.Now())
	return &resp, nil
}
