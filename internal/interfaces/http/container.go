package http

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	domainPermission "github.com/entitle-inc/entitle/internal/domain/permission"
	"github.com/entitle-inc/entitle/internal/infrastructure/config"
	"github.com/entitle-inc/entitle/internal/infrastructure/permission"
	"github.com/entitle-inc/entitle/internal/infrastructure/ratelimit"
	"github.com/entitle-inc/entitle/internal/interfaces/http/middleware"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and middlewares, and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	sqlDB  *sql.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware        *middleware.AuthMiddleware
	capabilityMiddleware  *middleware.CapabilityMiddleware
	idempotencyMiddleware *middleware.IdempotencyMiddleware
	rateLimiter           *middleware.RateLimiter

	enforcer *permission.Enforcer
}

// NewContainer wires the service against db. The casbin policies are seeded
// here, so the process never serves requests with an empty policy set.
func NewContainer(cfg *config.Config, db *gorm.DB, clock biztime.Clock, log logger.Interface) (*Container, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	enforcer, err := permission.NewEnforcer(db, log)
	if err != nil {
		return nil, err
	}
	if err := enforcer.SeedPolicies(domainPermission.DefaultPolicies()); err != nil {
		return nil, err
	}

	c := &Container{
		engine:   gin.New(),
		db:       db,
		sqlDB:    sqlDB,
		cfg:      cfg,
		log:      log,
		enforcer: enforcer,
	}

	c.repos = newRepositories(db, log)
	c.ucs = newUseCases(db, c.repos, cfg, clock, log)
	c.hdlrs = newHandlers(c.ucs, sqlDB, log)

	c.authMiddleware = middleware.NewAuthMiddleware(c.ucs.authenticateBrandUC, log)
	c.capabilityMiddleware = middleware.NewCapabilityMiddleware(enforcer, log)
	c.idempotencyMiddleware = middleware.NewIdempotencyMiddleware(c.ucs.idempotencyGate, cfg.Idempotency.Header, log)
	c.rateLimiter = middleware.NewRateLimiter(c.newLimiter(), cfg.RateLimit.PublicRequestsPerMinute, time.Minute, log)

	return c, nil
}

// newLimiter connects to Redis when configured. An unreachable Redis is
// logged but kept: the limiter lets requests through while it is down.
func (c *Container) newLimiter() ratelimit.Limiter {
	if !c.cfg.Redis.Enabled() {
		c.log.Infow("redis not configured, public rate limiting disabled")
		return nil
	}

	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.redis.Ping(ctx).Err(); err != nil {
		c.log.Warnw("redis unreachable, rate limiting will fail open until it recovers",
			"addr", c.cfg.Redis.GetAddr(), "error", err)
	} else {
		c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())
	}
	return ratelimit.NewRedisRateLimiter(c.redis)
}

// Shutdown releases the connections the container opened itself. The
// database handle belongs to the caller.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
