package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/infrastructure/ratelimit"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

// RateLimiter throttles product-principal traffic per client IP. Brand
// principals are not limited. A nil limiter disables the check.
type RateLimiter struct {
	limiter ratelimit.Limiter
	limit   int
	window  time.Duration
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.Limiter, limit int, window time.Duration, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
}

func (rl *RateLimiter) LimitPublic() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limiter == nil || rl.limit <= 0 {
			c.Next()
			return
		}
		if principal, ok := GetPrincipal(c); ok && principal.IsBrand() {
			c.Next()
			return
		}

		log := logger.FromContext(c.Request.Context(), rl.logger)
		clientIP := c.ClientIP()

		decision, err := rl.limiter.Allow(c.Request.Context(), "public:"+clientIP, rl.limit, rl.window)
		if err != nil {
			// Redis being down must not take the public endpoints with it.
			log.Warnw("rate limit check failed, allowing request", "client_ip", clientIP, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds()) + 1
			log.Warnw("rate limit exceeded", "client_ip", clientIP, "limit", rl.limit)
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("rate limit exceeded, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
