package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/application/license/usecases"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/interfaces/http/handlers/testutil"
	"github.com/entitle-inc/entitle/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockProvisionUC struct{ mock.Mock }

func (m *mockProvisionUC) Execute(ctx context.Context, cmd usecases.ProvisionLicenseCommand) (*dto.ProvisionResponse, error) {
	args := m.Called(ctx, cmd)
	resp, _ := args.Get(0).(*dto.ProvisionResponse)
	return resp, args.Error(1)
}

type mockActivateUC struct{ mock.Mock }

func (m *mockActivateUC) Execute(ctx context.Context, cmd usecases.ActivateLicenseCommand) (*dto.ActivationResponse, error) {
	args := m.Called(ctx, cmd)
	resp, _ := args.Get(0).(*dto.ActivationResponse)
	return resp, args.Error(1)
}

type mockDeactivateUC struct{ mock.Mock }

func (m *mockDeactivateUC) Execute(ctx context.Context, cmd usecases.DeactivateLicenseCommand) (*dto.DeactivationResponse, error) {
	args := m.Called(ctx, cmd)
	resp, _ := args.Get(0).(*dto.DeactivationResponse)
	return resp, args.Error(1)
}

type mockStatusUC struct{ mock.Mock }

func (m *mockStatusUC) Execute(ctx context.Context, brandID uint, keyString string) (*dto.LicenseKeyResponse, error) {
	args := m.Called(ctx, brandID, keyString)
	resp, _ := args.Get(0).(*dto.LicenseKeyResponse)
	return resp, args.Error(1)
}

type mockUpdateStatusUC struct{ mock.Mock }

func (m *mockUpdateStatusUC) Execute(ctx context.Context, cmd usecases.UpdateLicenseStatusCommand) (*dto.LicenseResponse, error) {
	args := m.Called(ctx, cmd)
	resp, _ := args.Get(0).(*dto.LicenseResponse)
	return resp, args.Error(1)
}

type mockRenewUC struct{ mock.Mock }

func (m *mockRenewUC) Execute(ctx context.Context, cmd usecases.RenewLicenseCommand) (*dto.LicenseResponse, error) {
	args := m.Called(ctx, cmd)
	resp, _ := args.Get(0).(*dto.LicenseResponse)
	return resp, args.Error(1)
}

type mockSeatLimitUC struct{ mock.Mock }

func (m *mockSeatLimitUC) Execute(ctx context.Context, cmd usecases.SetSeatLimitCommand) (*dto.LicenseResponse, error) {
	args := m.Called(ctx, cmd)
	resp, _ := args.Get(0).(*dto.LicenseResponse)
	return resp, args.Error(1)
}

type mockLookupUC struct{ mock.Mock }

func (m *mockLookupUC) Execute(ctx context.Context, email string) (*dto.GlobalLookupResponse, error) {
	args := m.Called(ctx, email)
	resp, _ := args.Get(0).(*dto.GlobalLookupResponse)
	return resp, args.Error(1)
}

// =====================================================================
// Test helpers
// =====================================================================

type licenseMocks struct {
	provision    *mockProvisionUC
	activate     *mockActivateUC
	deactivate   *mockDeactivateUC
	status       *mockStatusUC
	updateStatus *mockUpdateStatusUC
	renew        *mockRenewUC
	seatLimit    *mockSeatLimitUC
	lookup       *mockLookupUC
}

func newTestLicenseHandler(t *testing.T) (*LicenseHandler, *licenseMocks) {
	m := &licenseMocks{
		provision:    &mockProvisionUC{},
		activate:     &mockActivateUC{},
		deactivate:   &mockDeactivateUC{},
		status:       &mockStatusUC{},
		updateStatus: &mockUpdateStatusUC{},
		renew:        &mockRenewUC{},
		seatLimit:    &mockSeatLimitUC{},
		lookup:       &mockLookupUC{},
	}
	t.Cleanup(func() {
		m.provision.AssertExpectations(t)
		m.activate.AssertExpectations(t)
		m.deactivate.AssertExpectations(t)
		m.status.AssertExpectations(t)
		m.updateStatus.AssertExpectations(t)
		m.renew.AssertExpectations(t)
		m.seatLimit.AssertExpectations(t)
		m.lookup.AssertExpectations(t)
	})
	h := NewLicenseHandler(m.provision, m.activate, m.deactivate, m.status, m.updateStatus,
		m.renew, m.seatLimit, m.lookup, testutil.NewMockLogger())
	return h, m
}

var testBrand = testutil.NewBrand(7, "rankmath")

func parseError(t *testing.T, body []byte) *testutil.ErrorInfo {
	t.Helper()
	var resp testutil.APIResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

// =====================================================================
// Provision
// =====================================================================

func TestLicenseHandler_Provision_Success(t *testing.T) {
	h, m := newTestLicenseHandler(t)

	days := 30
	want := usecases.ProvisionLicenseCommand{
		BrandID:        testBrand.ID(),
		CustomerEmail:  "user@example.com",
		ProductIDs:     []uint{1, 2},
		ExpirationDays: &days,
	}
	m.provision.On("Execute", mock.Anything, want).Return(&dto.ProvisionResponse{
		LicenseKeyResponse: dto.LicenseKeyResponse{Key: "G1-ABC", CustomerEmail: "user@example.com"},
		CreatedProductIDs:  []uint{1, 2},
	}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/provision", ProvisionRequest{
		CustomerEmail:  "user@example.com",
		ProductIDs:     []uint{1, 2},
		ExpirationDays: &days,
	})
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Provision(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var data dto.ProvisionResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "G1-ABC", data.Key)
	assert.Equal(t, []uint{1, 2}, data.CreatedProductIDs)
}

func TestLicenseHandler_Provision_MalformedBody(t *testing.T) {
	h, _ := newTestLicenseHandler(t)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/provision", map[string]any{
		"product_ids": "not-a-list",
	})
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Provision(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrorTypeValidation), parseError(t, w.Body.Bytes()).Type)
}

func TestLicenseHandler_Provision_UseCaseError(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.provision.On("Execute", mock.Anything, mock.Anything).Return(nil, license.ErrInvalidProduct())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/provision", ProvisionRequest{
		CustomerEmail: "user@example.com",
		ProductIDs:    []uint{99},
	})
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Provision(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, license.ReasonInvalidProduct, parseError(t, w.Body.Bytes()).Reason)
}

func TestLicenseHandler_NoPrincipal(t *testing.T) {
	h, _ := newTestLicenseHandler(t)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/provision", ProvisionRequest{})

	h.Provision(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// =====================================================================
// Activate / Deactivate
// =====================================================================

func TestLicenseHandler_Activate(t *testing.T) {
	tests := []struct {
		name       string
		result     *dto.ActivationResponse
		err        error
		wantStatus int
		wantReason string
	}{
		{
			name:       "activated",
			result:     &dto.ActivationResponse{Status: "activated", LicenseID: 3, InstanceID: "site-a", ActiveSeats: 1},
			wantStatus: http.StatusOK,
		},
		{
			name:       "already active",
			result:     &dto.ActivationResponse{Status: "already_active", LicenseID: 3, InstanceID: "site-a", ActiveSeats: 1},
			wantStatus: http.StatusOK,
		},
		{
			name:       "seat limit reached",
			err:        license.ErrSeatLimitReached(1),
			wantStatus: http.StatusConflict,
			wantReason: license.ReasonSeatLimitReached,
		},
		{
			name:       "expired",
			err:        license.ErrLicenseExpired(),
			wantStatus: http.StatusForbidden,
			wantReason: license.ReasonLicenseExpired,
		},
		{
			name:       "lock timeout is retryable",
			err:        license.ErrLockTimeout(),
			wantStatus: http.StatusServiceUnavailable,
			wantReason: license.ReasonLockTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestLicenseHandler(t)
			cmd := usecases.ActivateLicenseCommand{
				BrandID:    testBrand.ID(),
				LicenseKey: "G1-ABC",
				ProductID:  3,
				InstanceID: "site-a",
			}
			if tt.err != nil {
				m.activate.On("Execute", mock.Anything, cmd).Return(nil, tt.err)
			} else {
				m.activate.On("Execute", mock.Anything, cmd).Return(tt.result, nil)
			}

			c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/activate", ActivationRequest{
				LicenseKey: "G1-ABC",
				ProductID:  3,
				InstanceID: "site-a",
			})
			testutil.SetPrincipal(c, brand.PrincipalProduct, testBrand)

			h.Activate(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, parseError(t, w.Body.Bytes()).Reason)
				return
			}
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			var data dto.ActivationResponse
			require.NoError(t, json.Unmarshal(resp.Data, &data))
			assert.Equal(t, tt.result.Status, data.Status)
		})
	}
}

func TestLicenseHandler_LockTimeoutSetsRetryAfter(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.deactivate.On("Execute", mock.Anything, mock.Anything).Return(nil, license.ErrLockTimeout())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/deactivate", ActivationRequest{
		LicenseKey: "G1-ABC", ProductID: 3, InstanceID: "site-a",
	})
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Deactivate(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestLicenseHandler_Deactivate(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.deactivate.On("Execute", mock.Anything, usecases.DeactivateLicenseCommand{
		BrandID: testBrand.ID(), LicenseKey: "G1-ABC", ProductID: 3, InstanceID: "site-a",
	}).Return(&dto.DeactivationResponse{Status: "deactivated", InstanceID: "site-a"}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/deactivate", ActivationRequest{
		LicenseKey: "G1-ABC", ProductID: 3, InstanceID: "site-a",
	})
	testutil.SetPrincipal(c, brand.PrincipalProduct, testBrand)

	h.Deactivate(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// =====================================================================
// Status / lifecycle
// =====================================================================

func TestLicenseHandler_GetStatus(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.status.On("Execute", mock.Anything, testBrand.ID(), "G1-ABC").
		Return(&dto.LicenseKeyResponse{Key: "G1-ABC"}, nil).Once()
	m.status.On("Execute", mock.Anything, testBrand.ID(), "G1-NOPE").
		Return(nil, license.ErrLicenseNotFound()).Once()

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/licenses/status/G1-ABC", nil)
	testutil.SetURLParam(c, "key", "G1-ABC")
	testutil.SetPrincipal(c, brand.PrincipalProduct, testBrand)
	h.GetStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testutil.NewTestContext(http.MethodGet, "/api/v1/licenses/status/G1-NOPE", nil)
	testutil.SetURLParam(c, "key", "G1-NOPE")
	testutil.SetPrincipal(c, brand.PrincipalProduct, testBrand)
	h.GetStatus(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, license.ReasonLicenseNotFound, parseError(t, w.Body.Bytes()).Reason)
}

func TestLicenseHandler_UpdateStatus(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.updateStatus.On("Execute", mock.Anything, usecases.UpdateLicenseStatusCommand{
		BrandID: testBrand.ID(), LicenseID: 12, Status: "suspended",
	}).Return(&dto.LicenseResponse{ID: 12, Status: "suspended"}, nil)

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/licenses/12/status", UpdateStatusRequest{Status: "suspended"})
	testutil.SetURLParam(c, "id", "12")
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLicenseHandler_UpdateStatus_BadID(t *testing.T) {
	h, _ := newTestLicenseHandler(t)

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/licenses/abc/status", UpdateStatusRequest{Status: "valid"})
	testutil.SetURLParam(c, "id", "abc")
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLicenseHandler_UpdateStatus_MissingStatus(t *testing.T) {
	h, _ := newTestLicenseHandler(t)

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/licenses/12/status", map[string]string{})
	testutil.SetURLParam(c, "id", "12")
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLicenseHandler_Renew(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.renew.On("Execute", mock.Anything, usecases.RenewLicenseCommand{
		BrandID: testBrand.ID(), LicenseID: 12, ExtensionDays: 365,
	}).Return(&dto.LicenseResponse{ID: 12, Status: "valid"}, nil)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/licenses/12/renew", RenewRequest{ExtensionDays: 365})
	testutil.SetURLParam(c, "id", "12")
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Renew(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLicenseHandler_SetSeatLimit_NullMeansUnlimited(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.seatLimit.On("Execute", mock.Anything, usecases.SetSeatLimitCommand{
		BrandID: testBrand.ID(), LicenseID: 12, SeatLimit: nil,
	}).Return(&dto.LicenseResponse{ID: 12}, nil)

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/licenses/12/seat-limit", map[string]any{"seat_limit": nil})
	testutil.SetURLParam(c, "id", "12")
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.SetSeatLimit(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLicenseHandler_SetSeatLimit_BelowUsage(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	limit := 1
	m.seatLimit.On("Execute", mock.Anything, usecases.SetSeatLimitCommand{
		BrandID: testBrand.ID(), LicenseID: 12, SeatLimit: &limit,
	}).Return(nil, license.ErrSeatLimitBelowUsage(1, 3))

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/v1/licenses/12/seat-limit", SetSeatLimitRequest{SeatLimit: &limit})
	testutil.SetURLParam(c, "id", "12")
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.SetSeatLimit(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, license.ReasonSeatLimitBelowUsage, parseError(t, w.Body.Bytes()).Reason)
}

func TestLicenseHandler_Lookup(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.lookup.On("Execute", mock.Anything, "user@example.com").
		Return(&dto.GlobalLookupResponse{Email: "user@example.com"}, nil)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/licenses/lookup", nil)
	testutil.SetQueryParams(c, map[string]string{"email": "user@example.com"})
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Lookup(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLicenseHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	h, m := newTestLicenseHandler(t)
	m.lookup.On("Execute", mock.Anything, "user@example.com").
		Return(nil, assert.AnError)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/licenses/lookup?email=user@example.com", nil)
	testutil.SetPrincipal(c, brand.PrincipalBrand, testBrand)

	h.Lookup(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	info := parseError(t, w.Body.Bytes())
	assert.NotContains(t, info.Message, assert.AnError.Error())
}
