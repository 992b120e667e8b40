package logger

import "context"

type ctxKey struct{}

// RequestFields are the fields every request-scoped log line carries.
type RequestFields struct {
	RequestID string
	BrandID   uint
	BrandName string
}

// ForRequest returns base enriched with the request identity. Unknown values
// are logged as "system" / "unknown" so that every line has the same shape.
func ForRequest(base Interface, f RequestFields) Interface {
	requestID := f.RequestID
	if requestID == "" {
		requestID = "system"
	}
	brandName := f.BrandName
	if brandName == "" {
		brandName = "unknown"
	}
	return base.With("request_id", requestID, "brand_id", f.BrandID, "brand_name", brandName)
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Interface) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger stored in ctx, or fallback.
func FromContext(ctx context.Context, fallback Interface) Interface {
	if l, ok := ctx.Value(ctxKey{}).(Interface); ok && l != nil {
		return l
	}
	return fallback
}
