package middleware

import (
	"bytes"
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/entitle-inc/entitle/internal/application/idempotency"
	"github.com/entitle-inc/entitle/internal/shared/constants"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

const maxCommandBodyBytes = 1 << 20

type idempotencyGate interface {
	Execute(ctx context.Context, req idempotency.Request, cmd idempotency.Command) (idempotency.Response, error)
}

// IdempotencyMiddleware routes brand commands that carry an idempotency key
// through the gate. Product principals and requests without a key pass
// straight through.
type IdempotencyMiddleware struct {
	gate   idempotencyGate
	header string
	logger logger.Interface
}

func NewIdempotencyMiddleware(gate idempotencyGate, header string, logger logger.Interface) *IdempotencyMiddleware {
	if header == "" {
		header = constants.HeaderIdempotencyKey
	}
	return &IdempotencyMiddleware{
		gate:   gate,
		header: header,
		logger: logger,
	}
}

func (m *IdempotencyMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(m.header)
		principal, ok := GetPrincipal(c)
		if key == "" || !ok || !principal.IsBrand() {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCommandBodyBytes))
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		req := idempotency.Request{
			BrandID: principal.Brand.ID(),
			Key:     key,
			Hash:    idempotency.HashRequest(c.Request.Method, c.Request.URL.Path, body),
		}

		resp, err := m.gate.Execute(c.Request.Context(), req, func(ctx context.Context) idempotency.Response {
			recorder := &bodyRecorder{ResponseWriter: c.Writer}
			c.Writer = recorder
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			c.Writer = recorder.ResponseWriter
			return idempotency.Response{StatusCode: recorder.Status(), Body: recorder.body.Bytes()}
		})
		if err != nil {
			if errors.HasReason(err, idempotency.ReasonInProgress) {
				c.Header(constants.HeaderRetryAfter, "1")
			}
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if resp.Replayed {
			c.Header(constants.HeaderIdempotentReplay, "true")
			c.Data(resp.StatusCode, constants.ContentTypeJSON+"; charset=utf-8", resp.Body)
			c.Abort()
		}
	}
}

// bodyRecorder copies everything written to the client.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
