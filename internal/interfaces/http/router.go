package http

import (
	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/interfaces/http/middleware"
	"github.com/entitle-inc/entitle/internal/interfaces/http/routes"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

func NewRouter(c *Container) *Router {
	return &Router{Container: c}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID(r.log))
	r.engine.Use(middleware.AccessLog(r.log))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.hdlrs.healthHandler.HealthCheck)

	routes.SetupLicenseRoutes(r.engine, &routes.LicenseRouteConfig{
		LicenseHandler:        r.hdlrs.licenseHandler,
		AuthMiddleware:        r.authMiddleware,
		CapabilityMiddleware:  r.capabilityMiddleware,
		IdempotencyMiddleware: r.idempotencyMiddleware,
		RateLimiter:           r.rateLimiter,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
