package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"time"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/config"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type ProvisionLicenseCommand struct {
	BrandID        uint   `json:"-"`
	CustomerEmail  string `json:"customer_email" validate:"required,email,max=255"`
	ProductIDs     []uint `json:"product_ids" validate:"required,min=1,max=100,dive,gt=0"`
	ExpirationDays *int   `json:"expiration_days" validate:"omitempty,gt=0,lte=36500"`
	ExistingKey    string `json:"existing_key" validate:"omitempty,max=64"`
}

// ProvisionLicenseUseCase issues a license bundle: a license key plus one
// valid license per requested product the customer does not hold yet.
type ProvisionLicenseUseCase struct {
	keyRepo     license.LicenseKeyRepository
	licenseRepo license.LicenseRepository
	productRepo brand.ProductRepository
	reader      license.Reader
	txMgr       *db.TransactionManager
	generateKey KeyGenerator
	cfg         config.LicenseConfig
	clock       biztime.Clock
	views       viewRenderer
	logger      logger.Interface
}

func NewProvisionLicenseUseCase(
	keyRepo license.LicenseKeyRepository,
	licenseRepo license.LicenseRepository,
	productRepo brand.ProductRepository,
	reader license.Reader,
	txMgr *db.TransactionManager,
	generateKey KeyGenerator,
	cfg config.LicenseConfig,
	clock biztime.Clock,
	md markdown.MarkdownService,
	logger logger.Interface,
) *ProvisionLicenseUseCase {
	return &ProvisionLicenseUseCase{
		keyRepo:     keyRepo,
		licenseRepo: licenseRepo,
		productRepo: productRepo,
		reader:      reader,
		txMgr:       txMgr,
		generateKey: generateKey,
		cfg:         cfg,
		clock:       clock,
		views:       viewRenderer{md: md, logger: logger},
		logger:      logger,
	}
}

type provisionOutcome struct {
	keyString    string
	created      []uint
	coveringKeys []string
}

func (uc *ProvisionLicenseUseCase) Execute(ctx context.Context, cmd ProvisionLicenseCommand) (*dto.ProvisionResponse, error) {
	log := logger.FromContext(ctx, uc.logger)
	log.Infow("license provisioning attempt",
		"customer", utils.MaskEmail(cmd.CustomerEmail),
		"product_ids", cmd.ProductIDs,
		"existing_key", cmd.ExistingKey != "")

	if err := utils.ValidateStruct(cmd); err != nil {
		log.Warnw("provisioning rejected: invalid request", "error", err)
		return nil, err
	}

	days := uc.cfg.DefaultExpirationDays
	if cmd.ExpirationDays != nil {
		days = *cmd.ExpirationDays
	}
	productIDs := uniqueIDs(cmd.ProductIDs)

	var outcome provisionOutcome
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		outcome, err = uc.provision(txCtx, log, cmd, productIDs, days)
		return err
	})
	if err != nil {
		if errors.IsAppError(err) {
			log.Warnw("provisioning rejected", "reason", reasonOf(err), "error", err)
			return nil, err
		}
		log.Errorw("provisioning failed", "error", err, "action", "license.provision.failure")
		return nil, fmt.Errorf("failed to provision licenses: %w", err)
	}

	view, err := uc.reader.KeyStatus(ctx, cmd.BrandID, outcome.keyString)
	if err != nil {
		log.Errorw("failed to load provisioned license key", "error", err)
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("provisioned license key %s not found", utils.MaskKey(outcome.keyString))
	}

	log.Infow("licenses provisioned successfully",
		"key", utils.MaskKey(outcome.keyString),
		"created_product_ids", outcome.created,
		"action", "license.provision")

	return &dto.ProvisionResponse{
		LicenseKeyResponse: uc.views.keyResponse(view, false, uc.clock.Now()),
		CreatedProductIDs:  outcome.created,
		CoveringKeys:       outcome.coveringKeys,
	}, nil
}

func (uc *ProvisionLicenseUseCase) provision(
	ctx context.Context,
	log logger.Interface,
	cmd ProvisionLicenseCommand,
	productIDs []uint,
	days int,
) (provisionOutcome, error) {
	now := uc.clock.Now()

	products, err := uc.productRepo.LockActiveByIDs(ctx, cmd.BrandID, productIDs)
	if err != nil {
		return provisionOutcome{}, err
	}
	if len(products) != len(productIDs) {
		return provisionOutcome{}, license.ErrInvalidProduct()
	}

	var key *license.LicenseKey
	if cmd.ExistingKey != "" {
		key, err = uc.keyRepo.LockForCustomer(ctx, cmd.BrandID, cmd.ExistingKey, cmd.CustomerEmail)
		if err != nil {
			return provisionOutcome{}, err
		}
		if key == nil {
			return provisionOutcome{}, license.ErrKeyNotFound()
		}
	}

	existing, err := uc.licenseRepo.LockValidForCustomer(ctx, cmd.BrandID, cmd.CustomerEmail, productIDs)
	if err != nil {
		return provisionOutcome{}, err
	}
	covered := make(map[uint]bool, len(existing))
	for _, l := range existing {
		covered[l.ProductID()] = true
	}
	var missing []uint
	for _, pid := range productIDs {
		if !covered[pid] {
			missing = append(missing, pid)
		}
	}

	if key == nil {
		if len(missing) == 0 {
			// Everything is already licensed; hand back the newest covering key
			// instead of creating an empty one.
			key, err = uc.keyRepo.GetByID(ctx, newestKeyID(existing))
			if err != nil {
				return provisionOutcome{}, err
			}
			if key == nil {
				return provisionOutcome{}, fmt.Errorf("license key of existing license not found")
			}
		} else {
			key, err = uc.createKey(ctx, log, cmd, now)
			if err != nil {
				return provisionOutcome{}, err
			}
		}
	}

	coveringKeys, err := uc.coveringKeys(ctx, existing, key.ID())
	if err != nil {
		return provisionOutcome{}, err
	}

	if len(missing) == 0 {
		log.Infow("all products already licensed", "key", utils.MaskKey(key.Key()))
		return provisionOutcome{keyString: key.Key(), created: []uint{}, coveringKeys: coveringKeys}, nil
	}

	expiresAt := biztime.AddDays(now, days)
	licenses := make([]*license.License, 0, len(missing))
	for _, pid := range missing {
		l, err := license.NewLicense(cmd.BrandID, key.ID(), pid, &expiresAt, now)
		if err != nil {
			return provisionOutcome{}, fmt.Errorf("failed to build license: %w", err)
		}
		licenses = append(licenses, l)
	}
	if err := uc.licenseRepo.CreateBatch(ctx, licenses); err != nil {
		return provisionOutcome{}, err
	}

	return provisionOutcome{keyString: key.Key(), created: missing, coveringKeys: coveringKeys}, nil
}

// createKey inserts a fresh key, drawing a new candidate whenever the store
// reports a collision.
func (uc *ProvisionLicenseUseCase) createKey(ctx context.Context, log logger.Interface, cmd ProvisionLicenseCommand, now time.Time) (*license.LicenseKey, error) {
	attempts := uc.cfg.KeyGenerationAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 1; i <= attempts; i++ {
		candidate, err := uc.generateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate license key: %w", err)
		}
		key, err := license.NewLicenseKey(cmd.BrandID, candidate, cmd.CustomerEmail, now)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		err = uc.keyRepo.Create(ctx, key)
		if err == nil {
			return key, nil
		}
		if !stderrors.Is(err, license.ErrDuplicateKeyString) {
			return nil, err
		}
		log.Warnw("license key collision, retrying", "attempt", i, "max_attempts", attempts)
	}
	return nil, license.ErrKeyGenerationExhausted(attempts)
}

// coveringKeys returns the key strings, sorted, of the existing licenses that
// live on a key other than keyID.
func (uc *ProvisionLicenseUseCase) coveringKeys(ctx context.Context, existing []*license.License, keyID uint) ([]string, error) {
	seen := make(map[uint]bool)
	var out []string
	for _, l := range existing {
		if l.LicenseKeyID() == keyID || seen[l.LicenseKeyID()] {
			continue
		}
		seen[l.LicenseKeyID()] = true
		k, err := uc.keyRepo.GetByID(ctx, l.LicenseKeyID())
		if err != nil {
			return nil, err
		}
		if k != nil {
			out = append(out, k.Key())
		}
	}
	slices.Sort(out)
	return out, nil
}

func newestKeyID(licenses []*license.License) uint {
	var newest *license.License
	for _, l := range licenses {
		if newest == nil || l.ID() > newest.ID() {
			newest = l
		}
	}
	if newest == nil {
		return 0
	}
	return newest.LicenseKeyID()
}

func uniqueIDs(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func reasonOf(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil {
		if appErr.Reason != "" {
			return appErr.Reason
		}
		return string(appErr.Type)
	}
	return ""
}
