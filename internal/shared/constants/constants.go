package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType      = "Content-Type"
	HeaderXRequestID       = "X-Request-ID"
	HeaderBrandAPIKey      = "X-Brand-Api-Key"
	HeaderBrandSlug        = "X-Brand-Slug"
	HeaderIdempotencyKey   = "Idempotency-Key"
	HeaderIdempotentReplay = "Idempotent-Replayed"
	HeaderRetryAfter       = "Retry-After"

	// Content Types
	ContentTypeJSON = "application/json"

	APIVersionPrefix = "/api/v1"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyPrincipal = "principal"

	// Database table names
	TableBrands             = "brands"
	TableProducts           = "products"
	TableLicenseKeys        = "license_keys"
	TableLicenses           = "licenses"
	TableActivations        = "activations"
	TableIdempotencyRecords = "idempotency_records"
	TableCasbinRules        = "casbin_rule"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Authentication credentials were not provided or are invalid"
	ErrMsgForbidden           = "Access forbidden"
)
