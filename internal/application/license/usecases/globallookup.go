package usecases

import (
	"context"
	"strings"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type globalLookupQuery struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// GlobalLookupUseCase lists a customer's keys across every brand. Access is
// restricted to brand principals by the capability check in front of it.
type GlobalLookupUseCase struct {
	reader license.Reader
	clock  biztime.Clock
	views  viewRenderer
	logger logger.Interface
}

func NewGlobalLookupUseCase(
	reader license.Reader,
	clock biztime.Clock,
	md markdown.MarkdownService,
	logger logger.Interface,
) *GlobalLookupUseCase {
	return &GlobalLookupUseCase{
		reader: reader,
		clock:  clock,
		views:  viewRenderer{md: md, logger: logger},
		logger: logger,
	}
}

func (uc *GlobalLookupUseCase) Execute(ctx context.Context, email string) (*dto.GlobalLookupResponse, error) {
	email = strings.TrimSpace(email)
	log := logger.FromContext(ctx, uc.logger)
	log.Infow("global license lookup", "customer", utils.MaskEmail(email))

	if err := utils.ValidateStruct(globalLookupQuery{Email: email}); err != nil {
		log.Warnw("global lookup rejected: invalid email")
		return nil, err
	}

	views, err := uc.reader.KeysByEmail(ctx, email)
	if err != nil {
		log.Errorw("global lookup failed", "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to look up licenses")
	}

	now := uc.clock.Now()
	resp := &dto.GlobalLookupResponse{
		Email:       email,
		LicenseKeys: make([]dto.LicenseKeyResponse, 0, len(views)),
	}
	for _, v := range views {
		resp.LicenseKeys = append(resp.LicenseKeys, uc.views.keyResponse(v, true, now))
	}

	log.Infow("global lookup completed", "keys", len(resp.LicenseKeys), "action", "license.global_lookup")
	return resp, nil
}
