package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/application/idempotency"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/domain/permission"
	"github.com/entitle-inc/entitle/internal/infrastructure/ratelimit"
	"github.com/entitle-inc/entitle/internal/interfaces/http/handlers/testutil"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Execute(ctx context.Context, creds usecases.Credentials) (*brand.Principal, error) {
	args := m.Called(ctx, creds)
	if p := args.Get(0); p != nil {
		return p.(*brand.Principal), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEnforcer struct {
	mock.Mock
}

func (m *mockEnforcer) Enforce(role, object, action string) (bool, error) {
	args := m.Called(role, object, action)
	return args.Bool(0), args.Error(1)
}

var _ permission.Enforcer = (*mockEnforcer)(nil)

type fakeGate struct {
	cached map[string]idempotency.Response
	err    error
	calls  int
}

func (g *fakeGate) Execute(ctx context.Context, req idempotency.Request, cmd idempotency.Command) (idempotency.Response, error) {
	g.calls++
	if g.err != nil {
		return idempotency.Response{}, g.err
	}
	if resp, ok := g.cached[req.Key]; ok {
		resp.Replayed = true
		return resp, nil
	}
	resp := cmd(ctx)
	if g.cached == nil {
		g.cached = make(map[string]idempotency.Response)
	}
	g.cached[req.Key] = resp
	return resp, nil
}

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error) {
	l.keys = append(l.keys, key)
	return l.decision, l.err
}

func withPrincipal(kind brand.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		testutil.SetPrincipal(c, kind, testutil.NewBrand(7, "acme"))
		c.Next()
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireBrand(t *testing.T) {
	b := testutil.NewBrand(7, "acme")

	t.Run("api key resolves a brand principal", func(t *testing.T) {
		auth := new(mockAuthenticator)
		auth.On("Execute", mock.Anything, usecases.Credentials{APIKey: "sk_live_x"}).
			Return(&brand.Principal{Kind: brand.PrincipalBrand, Brand: b}, nil)

		r := gin.New()
		r.GET("/x", NewAuthMiddleware(auth, logger.NewNop()).RequireBrand(), func(c *gin.Context) {
			p, ok := GetPrincipal(c)
			require.True(t, ok)
			assert.True(t, p.IsBrand())
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(constants.HeaderBrandAPIKey, "sk_live_x")
		w := serve(r, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		auth.AssertExpectations(t)
	})

	t.Run("failed authentication aborts", func(t *testing.T) {
		auth := new(mockAuthenticator)
		auth.On("Execute", mock.Anything, mock.Anything).
			Return(nil, errors.NewUnauthorizedError("missing brand credentials"))

		reached := false
		r := gin.New()
		r.GET("/x", NewAuthMiddleware(auth, logger.NewNop()).RequireBrand(), func(c *gin.Context) {
			reached = true
		})

		w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, reached)
	})
}

func TestCapabilityRequire(t *testing.T) {
	tests := []struct {
		name       string
		allowed    bool
		err        error
		wantStatus int
	}{
		{"allowed", true, nil, http.StatusNoContent},
		{"denied", false, nil, http.StatusForbidden},
		{"enforcer failure", false, assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enforcer := new(mockEnforcer)
			enforcer.On("Enforce", "product", permission.ObjectLicense, permission.ActionRenew).
				Return(tt.allowed, tt.err)

			r := gin.New()
			r.POST("/x", withPrincipal(brand.PrincipalProduct),
				NewCapabilityMiddleware(enforcer, logger.NewNop()).Require(permission.ActionRenew),
				func(c *gin.Context) { c.Status(http.StatusNoContent) })

			w := serve(r, httptest.NewRequest(http.MethodPost, "/x", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			enforcer.AssertExpectations(t)
		})
	}

	t.Run("no principal", func(t *testing.T) {
		enforcer := new(mockEnforcer)
		r := gin.New()
		r.POST("/x", NewCapabilityMiddleware(enforcer, logger.NewNop()).Require(permission.ActionRenew))

		w := serve(r, httptest.NewRequest(http.MethodPost, "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		enforcer.AssertNotCalled(t, "Enforce", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestIdempotencyHandle(t *testing.T) {
	newEngine := func(gate *fakeGate, kind brand.PrincipalKind, calls *int) *gin.Engine {
		r := gin.New()
		r.POST("/x", withPrincipal(kind),
			NewIdempotencyMiddleware(gate, "", logger.NewNop()).Handle(),
			func(c *gin.Context) {
				*calls++
				c.JSON(http.StatusCreated, gin.H{"n": *calls})
			})
		return r
	}
	post := func(key string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":1}`))
		if key != "" {
			req.Header.Set(constants.HeaderIdempotencyKey, key)
		}
		return req
	}

	t.Run("replays the first response", func(t *testing.T) {
		gate := &fakeGate{}
		calls := 0
		r := newEngine(gate, brand.PrincipalBrand, &calls)

		first := serve(r, post("k1"))
		second := serve(r, post("k1"))

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(constants.HeaderIdempotentReplay))
		assert.Empty(t, first.Header().Get(constants.HeaderIdempotentReplay))
		assert.Equal(t, 1, calls)
	})

	t.Run("requests without a key bypass the gate", func(t *testing.T) {
		gate := &fakeGate{}
		calls := 0
		r := newEngine(gate, brand.PrincipalBrand, &calls)

		serve(r, post(""))
		serve(r, post(""))

		assert.Equal(t, 2, calls)
		assert.Zero(t, gate.calls)
	})

	t.Run("product principals bypass the gate", func(t *testing.T) {
		gate := &fakeGate{}
		calls := 0
		r := newEngine(gate, brand.PrincipalProduct, &calls)

		serve(r, post("k1"))
		serve(r, post("k1"))

		assert.Equal(t, 2, calls)
		assert.Zero(t, gate.calls)
	})

	t.Run("in-progress key asks the client to retry", func(t *testing.T) {
		gate := &fakeGate{err: idempotency.ErrInProgress()}
		calls := 0
		r := newEngine(gate, brand.PrincipalBrand, &calls)

		w := serve(r, post("k1"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "1", w.Header().Get(constants.HeaderRetryAfter))
		assert.Zero(t, calls)
	})
}

func TestLimitPublic(t *testing.T) {
	newEngine := func(l ratelimit.Limiter, kind brand.PrincipalKind) *gin.Engine {
		r := gin.New()
		r.GET("/x", withPrincipal(kind),
			NewRateLimiter(l, 10, time.Minute, logger.NewNop()).LimitPublic(),
			func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	t.Run("allowed request carries rate headers", func(t *testing.T) {
		l := &fakeLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9, ResetAt: time.Now().Add(time.Minute)}}

		w := serve(newEngine(l, brand.PrincipalProduct), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
		require.Len(t, l.keys, 1)
		assert.True(t, strings.HasPrefix(l.keys[0], "public:"))
	})

	t.Run("exceeded limit is rejected", func(t *testing.T) {
		l := &fakeLimiter{decision: ratelimit.Decision{Allowed: false, Limit: 10, ResetAt: time.Now().Add(30 * time.Second)}}

		w := serve(newEngine(l, brand.PrincipalProduct), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get(constants.HeaderRetryAfter))
	})

	t.Run("limiter failure fails open", func(t *testing.T) {
		l := &fakeLimiter{err: assert.AnError}

		w := serve(newEngine(l, brand.PrincipalProduct), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("brand principals are not limited", func(t *testing.T) {
		l := &fakeLimiter{}

		w := serve(newEngine(l, brand.PrincipalBrand), httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, l.keys)
	})
}
