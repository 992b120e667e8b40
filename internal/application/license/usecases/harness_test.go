package usecases

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/migration"
	"github.com/entitle-inc/entitle/internal/infrastructure/repository"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/config"
	"github.com/entitle-inc/entitle/internal/shared/db"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
)

var dbSeq atomic.Int64

var testLicenseConfig = config.LicenseConfig{
	KeyPrefix:             "G1",
	KeyHexBytes:           12,
	DefaultExpirationDays: 365,
	KeyGenerationAttempts: 3,
}

// harness wires the engines to real repositories over an in-memory SQLite
// database pinned to one connection.
type harness struct {
	db            *gorm.DB
	txMgr         *db.TransactionManager
	clock         *biztime.FixedClock
	log           logger.Interface
	brands        brand.Repository
	products      brand.ProductRepository
	keys          license.LicenseKeyRepository
	licenses      license.LicenseRepository
	activations   license.ActivationRepository
	reader        license.Reader
	generateKey   KeyGenerator
	licenseConfig config.LicenseConfig
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dsn := fmt.Sprintf("file:usecases%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.NewGormAutoMigrateStrategy().Migrate(gdb))
	return newHarnessOn(gdb)
}

func newHarnessOn(gdb *gorm.DB) *harness {
	log := logger.NewNop()
	return &harness{
		db:            gdb,
		txMgr:         db.NewTransactionManager(gdb),
		clock:         biztime.NewFixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		log:           log,
		brands:        repository.NewBrandRepository(gdb, log),
		products:      repository.NewProductRepository(gdb, log),
		keys:          repository.NewLicenseKeyRepository(gdb, log),
		licenses:      repository.NewLicenseRepository(gdb, log),
		activations:   repository.NewActivationRepository(gdb, log),
		reader:        repository.NewLicenseReader(gdb, log),
		generateKey:   NewKeyGenerator(testLicenseConfig),
		licenseConfig: testLicenseConfig,
	}
}

func (h *harness) seedBrand(t *testing.T, slug string) *brand.Brand {
	t.Helper()
	b, err := brand.NewBrand("Brand "+slug, slug, "hash-"+slug, "sk_live_abc", h.clock.Now())
	require.NoError(t, err)
	require.NoError(t, h.brands.Create(context.Background(), b))
	return b
}

func (h *harness) seedProduct(t *testing.T, b *brand.Brand, slug string) *brand.Product {
	t.Helper()
	p, err := brand.NewProduct(b.ID(), "Product "+slug, slug, "**"+slug+"** plugin", h.clock.Now())
	require.NoError(t, err)
	require.NoError(t, h.products.Create(context.Background(), p))
	return p
}

func (h *harness) provisionUC() *ProvisionLicenseUseCase {
	return NewProvisionLicenseUseCase(h.keys, h.licenses, h.products, h.reader, h.txMgr,
		h.generateKey, h.licenseConfig, h.clock, markdown.NewMarkdownService(), h.log)
}

func (h *harness) activateUC() *ActivateLicenseUseCase {
	return NewActivateLicenseUseCase(h.licenses, h.activations, h.txMgr, h.clock, h.log)
}

func (h *harness) deactivateUC() *DeactivateLicenseUseCase {
	return NewDeactivateLicenseUseCase(h.activations, h.txMgr, h.log)
}

func (h *harness) updateStatusUC() *UpdateLicenseStatusUseCase {
	return NewUpdateLicenseStatusUseCase(h.licenses, h.txMgr, h.clock, h.log)
}

func (h *harness) renewUC() *RenewLicenseUseCase {
	return NewRenewLicenseUseCase(h.licenses, h.txMgr, h.clock, h.log)
}

func (h *harness) seatLimitUC() *SetSeatLimitUseCase {
	return NewSetSeatLimitUseCase(h.licenses, h.activations, h.txMgr, h.clock, h.log)
}

func (h *harness) statusUC() *GetLicenseStatusUseCase {
	return NewGetLicenseStatusUseCase(h.reader, h.clock, markdown.NewMarkdownService(), h.log)
}

func (h *harness) lookupUC() *GlobalLookupUseCase {
	return NewGlobalLookupUseCase(h.reader, h.clock, markdown.NewMarkdownService(), h.log)
}

// provision is a shortcut that fails the test on error.
func (h *harness) provision(t *testing.T, b *brand.Brand, email string, products ...*brand.Product) string {
	t.Helper()
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID()
	}
	resp, err := h.provisionUC().Execute(context.Background(), ProvisionLicenseCommand{
		BrandID:       b.ID(),
		CustomerEmail: email,
		ProductIDs:    ids,
	})
	require.NoError(t, err)
	return resp.Key
}

// licenseID returns the id of the valid license of (key, product).
func (h *harness) licenseID(t *testing.T, b *brand.Brand, key string, p *brand.Product) uint {
	t.Helper()
	view, err := h.reader.KeyStatus(context.Background(), b.ID(), key)
	require.NoError(t, err)
	require.NotNil(t, view)
	for _, lv := range view.Licenses {
		if lv.License.ProductID() == p.ID() && lv.License.Status() == license.StatusValid {
			return lv.License.ID()
		}
	}
	t.Fatalf("no valid license for product %d on key %s", p.ID(), key)
	return 0
}

func (h *harness) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.db.Table(table).Count(&n).Error)
	return n
}

func intPtr(v int) *int { return &v }
