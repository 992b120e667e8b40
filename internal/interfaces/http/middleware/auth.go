package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type brandAuthenticator interface {
	Execute(ctx context.Context, creds usecases.Credentials) (*brand.Principal, error)
}

type AuthMiddleware struct {
	authenticator brandAuthenticator
	logger        logger.Interface
}

func NewAuthMiddleware(authenticator brandAuthenticator, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// RequireBrand resolves X-Brand-Api-Key or X-Brand-Slug to a principal and
// rebinds the request logger to the brand.
func (m *AuthMiddleware) RequireBrand() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		principal, err := m.authenticator.Execute(ctx, usecases.Credentials{
			APIKey: c.GetHeader(constants.HeaderBrandAPIKey),
			Slug:   c.GetHeader(constants.HeaderBrandSlug),
		})
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		reqLog := logger.ForRequest(m.logger, logger.RequestFields{
			RequestID: GetRequestID(c),
			BrandID:   principal.Brand.ID(),
			BrandName: principal.Brand.Name(),
		}).With("principal", principal.Role())
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLog))
		c.Set(constants.ContextKeyPrincipal, principal)

		c.Next()
	}
}

// GetPrincipal returns the principal stored by RequireBrand.
func GetPrincipal(c *gin.Context) (*brand.Principal, bool) {
	v, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	p, ok := v.(*brand.Principal)
	return p, ok && p != nil
}

// MustPrincipal aborts with 401 when no principal is present.
func MustPrincipal(c *gin.Context) (*brand.Principal, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		c.Abort()
	}
	return p, ok
}
