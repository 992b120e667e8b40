package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/domain/permission"
	"github.com/entitle-inc/entitle/internal/interfaces/http/handlers"
	"github.com/entitle-inc/entitle/internal/interfaces/http/middleware"
	"github.com/entitle-inc/entitle/internal/shared/constants"
)

type LicenseRouteConfig struct {
	LicenseHandler        *handlers.LicenseHandler
	AuthMiddleware        *middleware.AuthMiddleware
	CapabilityMiddleware  *middleware.CapabilityMiddleware
	IdempotencyMiddleware *middleware.IdempotencyMiddleware
	RateLimiter           *middleware.RateLimiter
}

func SetupLicenseRoutes(engine *gin.Engine, config *LicenseRouteConfig) {
	h := config.LicenseHandler
	can := config.CapabilityMiddleware.Require
	idempotent := config.IdempotencyMiddleware.Handle()

	licenses := engine.Group(constants.APIVersionPrefix + "/licenses")
	licenses.Use(config.AuthMiddleware.RequireBrand(), config.RateLimiter.LimitPublic())
	{
		// Static paths share the level with /:id; gin matches them first.
		licenses.POST("/provision",
			can(permission.ActionProvision), idempotent, h.Provision)
		licenses.POST("/activate",
			can(permission.ActionActivate), idempotent, h.Activate)
		licenses.POST("/deactivate",
			can(permission.ActionDeactivate), idempotent, h.Deactivate)
		licenses.GET("/status/:key",
			can(permission.ActionReadStatus), h.GetStatus)
		licenses.GET("/lookup",
			can(permission.ActionGlobalLookup), h.Lookup)

		licenses.PATCH("/:id/status",
			can(permission.ActionUpdateStatus), idempotent, h.UpdateStatus)
		licenses.POST("/:id/renew",
			can(permission.ActionRenew), idempotent, h.Renew)
		licenses.PATCH("/:id/seat-limit",
			can(permission.ActionSetSeatLimit), idempotent, h.SetSeatLimit)
	}
}
