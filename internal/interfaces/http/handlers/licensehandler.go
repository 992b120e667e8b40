package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/application/license/usecases"
	"github.com/entitle-inc/entitle/internal/interfaces/http/middleware"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

// LicenseHandler serves the brand-facing license API. Every route runs
// behind RequireBrand, so a principal is always present.
type LicenseHandler struct {
	provisionUseCase    provisionLicenseUseCase
	activateUseCase     activateLicenseUseCase
	deactivateUseCase   deactivateLicenseUseCase
	statusUseCase       getLicenseStatusUseCase
	updateStatusUseCase updateLicenseStatusUseCase
	renewUseCase        renewLicenseUseCase
	seatLimitUseCase    setSeatLimitUseCase
	lookupUseCase       globalLookupUseCase
	logger              logger.Interface
}

func NewLicenseHandler(
	provisionUC provisionLicenseUseCase,
	activateUC activateLicenseUseCase,
	deactivateUC deactivateLicenseUseCase,
	statusUC getLicenseStatusUseCase,
	updateStatusUC updateLicenseStatusUseCase,
	renewUC renewLicenseUseCase,
	seatLimitUC setSeatLimitUseCase,
	lookupUC globalLookupUseCase,
	logger logger.Interface,
) *LicenseHandler {
	return &LicenseHandler{
		provisionUseCase:    provisionUC,
		activateUseCase:     activateUC,
		deactivateUseCase:   deactivateUC,
		statusUseCase:       statusUC,
		updateStatusUseCase: updateStatusUC,
		renewUseCase:        renewUC,
		seatLimitUseCase:    seatLimitUC,
		lookupUseCase:       lookupUC,
		logger:              logger,
	}
}

type ProvisionRequest struct {
	CustomerEmail  string `json:"customer_email"`
	ProductIDs     []uint `json:"product_ids"`
	ExpirationDays *int   `json:"expiration_days"`
	ExistingKey    string `json:"existing_key"`
}

type ActivationRequest struct {
	LicenseKey string `json:"license_key"`
	ProductID  uint   `json:"product_id"`
	InstanceID string `json:"instance_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RenewRequest struct {
	ExtensionDays int `json:"extension_days"`
}

// SetSeatLimitRequest takes a null seat_limit as "unlimited".
type SetSeatLimitRequest struct {
	SeatLimit *int `json:"seat_limit"`
}

func (h *LicenseHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Warnw("invalid request body", "path", c.FullPath(), "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return false
	}
	return true
}

// Provision handles POST /licenses/provision
func (h *LicenseHandler) Provision(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req ProvisionRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.provisionUseCase.Execute(c.Request.Context(), usecases.ProvisionLicenseCommand{
		BrandID:        principal.Brand.ID(),
		CustomerEmail:  req.CustomerEmail,
		ProductIDs:     req.ProductIDs,
		ExpirationDays: req.ExpirationDays,
		ExistingKey:    req.ExistingKey,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, resp, "License provisioned successfully")
}

// Activate handles POST /licenses/activate
func (h *LicenseHandler) Activate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req ActivationRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.activateUseCase.Execute(c.Request.Context(), usecases.ActivateLicenseCommand{
		BrandID:    principal.Brand.ID(),
		LicenseKey: req.LicenseKey,
		ProductID:  req.ProductID,
		InstanceID: req.InstanceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp)
}

// Deactivate handles POST /licenses/deactivate
func (h *LicenseHandler) Deactivate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	var req ActivationRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.deactivateUseCase.Execute(c.Request.Context(), usecases.DeactivateLicenseCommand{
		BrandID:    principal.Brand.ID(),
		LicenseKey: req.LicenseKey,
		ProductID:  req.ProductID,
		InstanceID: req.InstanceID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp)
}

// GetStatus handles GET /licenses/status/:key
func (h *LicenseHandler) GetStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	resp, err := h.statusUseCase.Execute(c.Request.Context(), principal.Brand.ID(), c.Param("key"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp)
}

// UpdateStatus handles PATCH /licenses/:id/status
func (h *LicenseHandler) UpdateStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	licenseID, err := utils.ParseUintParam(c, "id", "license")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req UpdateStatusRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.updateStatusUseCase.Execute(c.Request.Context(), usecases.UpdateLicenseStatusCommand{
		BrandID:   principal.Brand.ID(),
		LicenseID: licenseID,
		Status:    req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp, "License status updated")
}

// Renew handles POST /licenses/:id/renew
func (h *LicenseHandler) Renew(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	licenseID, err := utils.ParseUintParam(c, "id", "license")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req RenewRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.renewUseCase.Execute(c.Request.Context(), usecases.RenewLicenseCommand{
		BrandID:       principal.Brand.ID(),
		LicenseID:     licenseID,
		ExtensionDays: req.ExtensionDays,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp, "License renewed")
}

// SetSeatLimit handles PATCH /licenses/:id/seat-limit
func (h *LicenseHandler) SetSeatLimit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	licenseID, err := utils.ParseUintParam(c, "id", "license")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	var req SetSeatLimitRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.seatLimitUseCase.Execute(c.Request.Context(), usecases.SetSeatLimitCommand{
		BrandID:   principal.Brand.ID(),
		LicenseID: licenseID,
		SeatLimit: req.SeatLimit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp, "Seat limit updated")
}

// Lookup handles GET /licenses/lookup?email=
func (h *LicenseHandler) Lookup(c *gin.Context) {
	resp, err := h.lookupUseCase.Execute(c.Request.Context(), c.Query("email"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, resp)
}
