package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/domain/permission"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type CapabilityMiddleware struct {
	enforcer permission.Enforcer
	logger   logger.Interface
}

func NewCapabilityMiddleware(enforcer permission.Enforcer, logger logger.Interface) *CapabilityMiddleware {
	return &CapabilityMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// Require lets the request through only if the principal's role may
// perform action on licenses.
func (m *CapabilityMiddleware) Require(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			return
		}
		log := logger.FromContext(c.Request.Context(), m.logger)

		allowed, err := m.enforcer.Enforce(principal.Role(), permission.ObjectLicense, action)
		if err != nil {
			log.Errorw("capability check failed", "error", err, "role", principal.Role(), "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
			c.Abort()
			return
		}

		if !allowed {
			log.Warnw("capability denied", "role", principal.Role(), "action", action, "reason", "forbidden")
			utils.ErrorResponseWithError(c, errForbidden(action))
			c.Abort()
			return
		}

		c.Next()
	}
}
