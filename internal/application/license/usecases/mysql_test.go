package usecases

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/infrastructure/migration"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/errors"
)

// The SQLite harness serializes transactions on its single connection, so
// only these tests exercise the SELECT ... FOR UPDATE row locks. They run
// against a scratch database named by ENTITLE_TEST_MYSQL_DSN, whose tables
// are emptied before each test.
const mysqlDSNEnv = "ENTITLE_TEST_MYSQL_DSN"

func newMySQLHarness(t *testing.T) *harness {
	t.Helper()

	dsn := os.Getenv(mysqlDSNEnv)
	if dsn == "" {
		t.Skipf("MySQL not configured: set %s", mysqlDSNEnv)
	}
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(16)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.NewGormAutoMigrateStrategy().Migrate(gdb))
	models := migration.AutoMigrateModels()
	slices.Reverse(models)
	for _, m := range models {
		require.NoError(t, gdb.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error)
	}
	return newHarnessOn(gdb)
}

func TestMySQL_ConcurrentActivationsNeverExceedSeatLimit(t *testing.T) {
	h := newMySQLHarness(t)
	b := h.seedBrand(t, "acme")
	p := h.seedProduct(t, b, "acme-seo")
	key := h.provision(t, b, "c@x.com", p)
	licenseID := h.licenseID(t, b, key, p)

	const limit = 3
	_, err := h.seatLimitUC().Execute(context.Background(), SetSeatLimitCommand{BrandID: b.ID(), LicenseID: licenseID, SeatLimit: intPtr(limit)})
	require.NoError(t, err)

	uc := h.activateUC()
	const workers = 12
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), ActivateLicenseCommand{
				BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: fmt.Sprintf("host-%d", i),
			})
		}(i)
	}
	wg.Wait()

	activated := 0
	for _, err := range errs {
		if err == nil {
			activated++
			continue
		}
		assert.True(t, errors.HasReason(err, license.ReasonSeatLimitReached), "got %v", err)
	}
	assert.Equal(t, limit, activated)
	seats, err := h.activations.CountByLicense(context.Background(), licenseID)
	require.NoError(t, err)
	assert.Equal(t, int64(limit), seats)
}

func TestMySQL_ConcurrentProvisioningCreatesOneLicense(t *testing.T) {
	h := newMySQLHarness(t)
	b := h.seedBrand(t, "acme")
	p := h.seedProduct(t, b, "acme-seo")
	uc := h.provisionUC()

	const workers = 8
	keys := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := uc.Execute(context.Background(), ProvisionLicenseCommand{
				BrandID:       b.ID(),
				CustomerEmail: "c@x.com",
				ProductIDs:    []uint{p.ID()},
			})
			errs[i] = err
			if resp != nil {
				keys[i] = resp.Key
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, keys[0], keys[i])
	}
	assert.Equal(t, int64(1), h.countRows(t, constants.TableLicenses))
	assert.Equal(t, int64(1), h.countRows(t, constants.TableLicenseKeys))
}
