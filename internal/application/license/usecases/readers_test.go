package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/errors"
)

func TestGetLicenseStatus(t *testing.T) {
	h := newHarness(t)
	b := h.seedBrand(t, "acme")
	other := h.seedBrand(t, "other")
	p1 := h.seedProduct(t, b, "acme-seo")
	p2 := h.seedProduct(t, b, "acme-cache")
	key := h.provision(t, b, "c@x.com", p1, p2)

	_, err := h.activateUC().Execute(context.Background(), ActivateLicenseCommand{BrandID: b.ID(), LicenseKey: key, ProductID: p1.ID(), InstanceID: "host-1"})
	require.NoError(t, err)

	t.Run("owner sees licenses and seat usage", func(t *testing.T) {
		resp, err := h.statusUC().Execute(context.Background(), b.ID(), key)
		require.NoError(t, err)
		assert.Equal(t, key, resp.Key)
		assert.Nil(t, resp.Brand)
		require.Len(t, resp.Licenses, 2)
		assert.Equal(t, p1.ID(), resp.Licenses[0].ProductID)
		assert.Equal(t, int64(1), *resp.Licenses[0].ActiveSeats)
		assert.Equal(t, int64(0), *resp.Licenses[1].ActiveSeats)
		assert.Equal(t, "acme-cache", resp.Licenses[1].Product.Slug)
	})

	t.Run("other brand gets not found", func(t *testing.T) {
		_, err := h.statusUC().Execute(context.Background(), other.ID(), key)
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, license.ReasonLicenseNotFound))
	})

	t.Run("unknown key gets not found", func(t *testing.T) {
		_, err := h.statusUC().Execute(context.Background(), b.ID(), "G1-0000")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestGlobalLookup(t *testing.T) {
	h := newHarness(t)
	acme := h.seedBrand(t, "acme")
	rival := h.seedBrand(t, "rival")
	pa := h.seedProduct(t, acme, "acme-seo")
	pr := h.seedProduct(t, rival, "rival-seo")

	acmeKey := h.provision(t, acme, "Shared@X.com", pa)
	rivalKey := h.provision(t, rival, "shared@x.com", pr)
	h.provision(t, acme, "someone@else.com", pa)

	resp, err := h.lookupUC().Execute(context.Background(), "SHARED@x.com")
	require.NoError(t, err)
	require.Len(t, resp.LicenseKeys, 2)

	assert.Equal(t, acmeKey, resp.LicenseKeys[0].Key)
	assert.Equal(t, "acme", resp.LicenseKeys[0].Brand.Slug)
	assert.Equal(t, rivalKey, resp.LicenseKeys[1].Key)
	assert.Equal(t, "rival", resp.LicenseKeys[1].Brand.Slug)
	require.Len(t, resp.LicenseKeys[1].Licenses, 1)
	assert.Equal(t, "rival-seo", resp.LicenseKeys[1].Licenses[0].Product.Slug)

	empty, err := h.lookupUC().Execute(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, empty.LicenseKeys)

	_, err = h.lookupUC().Execute(context.Background(), "not-an-email")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
