package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/errors"
)

func TestActivateLicense_ActivatesAndIsIdempotentPerInstance(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	p := h.seedProduct(t, b, "acme-seo")
	key := h.provision(t, b, "c@x.com", p)
	uc := h.activateUC()

	cmd := ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-1"}

	first, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "activated", first.Status)
	assert.Equal(t, int64(1), first.ActiveSeats)

	second, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "already_active", second.Status)
	assert.Equal(t, int64(1), second.ActiveSeats)

	assert.Equal(t, int64(1), h.countRows(t, constants.TableActivations))
}

func TestActivateLicense_SeatLimitReached(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	p := h.seedProduct(t, b, "acme-seo")
	key := h.provision(t, b, "c@x.com", p)
	_, err := h.seatLimitUC().Execute(context.Background(), SetSeatLimitCommand{
		BrandID: b.ID(), LicenseID: h.licenseID(t, b, key, p), SeatLimit: intPtr(1),
	})
	require.NoError(t, err)
	uc := h.activateUC()

	_, err = uc.Execute(context.Background(), ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-1"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-2"})
	require.Error(t, err)
	assert.True(t, errors.HasReason(err, license.ReasonSeatLimitReached))
	assert.Contains(t, errors.GetAppError(err).Details, "1")
	assert.Equal(t, int64(1), h.countRows(t, constants.TableActivations))
}

func TestActivateLicense_NotFoundCases(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	other := h.seedBrand(t, "other")
	p1 := h.seedProduct(t, b, "acme-seo")
	p2 := h.seedProduct(t, b, "acme-cache")
	key := h.provision(t, b, "c@x.com", p1)

	suspendedKey := h.provision(t, b, "s@x.com", p1)
	_, err := h.updateStatusUC().Execute(context.Background(), UpdateLicenseStatusCommand{
		BrandID: b.ID(), LicenseID: h.licenseID(t, b, suspendedKey, p1), Status: "suspended",
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  ActivateLicenseCommand
	}{
		{name: "wrong brand", cmd: ActivateLicenseCommand{BrandID: other.ID(), LicenseKey: key, ProductID: p1.ID(), InstanceID: "h"}},
		{name: "wrong product", cmd: ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p2.ID(), InstanceID: "h"}},
		{name: "unknown key", cmd: ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: "G1-FFFF", ProductID: p1.ID(), InstanceID: "h"}},
		{name: "suspended license", cmd: ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: suspendedKey, ProductID: p1.ID(), InstanceID: "h"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.activateUC().Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.HasReason(err, license.ReasonLicenseNotFound), "got %v", err)
		})
	}
	assert.Zero(t, h.countRows(t, constants.TableActivations))
}

func TestActivateLicense_Expired(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	p := h.seedProduct(t, b, "acme-seo")

	resp, err := h.provisionUC().Execute(context.Background(), ProvisionLicenseCommand{
		BrandID: b.ID(), CustomerEmail: "c@x.com", ProductIDs: []uint{p.ID()}, ExpirationDays: intPtr(1),
	})
	require.NoError(t, err)

	h.clock.Advance(48 * time.Hour)

	_, err = h.activateUC().Execute(context.Background(), ActivateLicenseCommand{
		BrandID: b.ID(), LicenseKey: resp.Key, ProductID: p.ID(), InstanceID: "host-1",
	})
	require.Error(t, err)
	assert.True(t, errors.HasReason(err, license.ReasonLicenseExpired))
}

func TestActivateLicense_Validation(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")

	_, err := h.activateUC().Execute(context.Background(), ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: "G1-AA", ProductID: 1, InstanceID: "   "})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

// On SQLite the transactions queue on one connection; TestMySQL_ConcurrentActivationsNeverExceedSeatLimit
// covers the row locks.
func TestActivateLicense_ConcurrentAttemptsNeverExceedSeatLimit(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	p := h.seedProduct(t, b, "acme-seo")
	key := h.provision(t, b, "c@x.com", p)
	licenseID := h.licenseID(t, b, key, p)

	const limit = 3
	_, err := h.seatLimitUC().Execute(context.Background(), SetSeatLimitCommand{BrandID: b.ID(), LicenseID: licenseID, SeatLimit: intPtr(limit)})
	require.NoError(t, err)

	uc := h.activateUC()
	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		activated int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), ActivateLicenseCommand{
				BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: fmt.Sprintf("host-%d", i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				activated++
			} else if errors.HasReason(err, license.ReasonSeatLimitReached) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, limit, activated)
	assert.Equal(t, workers-limit, rejected)
	seats, err := h.activations.CountByLicense(context.Background(), licenseID)
	require.NoError(t, err)
	assert.Equal(t, int64(limit), seats)
}

func TestDeactivateLicense(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	other := h.seedBrand(t, "other")
	p := h.seedProduct(t, b, "acme-seo")
	key := h.provision(t, b, "c@x.com", p)

	_, err := h.activateUC().Execute(context.Background(), ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-1"})
	require.NoError(t, err)

	t.Run("unknown instance leaves state unchanged", func(t *testing.T) {
		_, err := h.deactivateUC().Execute(context.Background(), DeactivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-9"})
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, license.ReasonActivationNotFound))
		assert.Equal(t, int64(1), h.countRows(t, constants.TableActivations))
	})

	t.Run("other brand cannot free the seat", func(t *testing.T) {
		_, err := h.deactivateUC().Execute(context.Background(), DeactivateLicenseCommand{BrandID: other.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-1"})
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, license.ReasonActivationNotFound))
		assert.Equal(t, int64(1), h.countRows(t, constants.TableActivations))
	})

	t.Run("suspended license still frees the seat", func(t *testing.T) {
		_, err := h.updateStatusUC().Execute(context.Background(), UpdateLicenseStatusCommand{
			BrandID: b.ID(), LicenseID: h.licenseID(t, b, key, p), Status: "suspended",
		})
		require.NoError(t, err)

		resp, err := h.deactivateUC().Execute(context.Background(), DeactivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p.ID(), InstanceID: "host-1"})
		require.NoError(t, err)
		assert.Equal(t, "deactivated", resp.Status)
		assert.Zero(t, h.countRows(t, constants.TableActivations))
	})
}
