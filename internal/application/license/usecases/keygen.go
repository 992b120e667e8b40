package usecases

import (
	"github.com/entitle-inc/entitle/internal/shared/config"
	"github.com/entitle-inc/entitle/internal/shared/id"
)

// KeyGenerator returns a candidate license key string. Candidates may
// collide; the store rejects duplicates.
type KeyGenerator func() (string, error)

// NewKeyGenerator builds the generator for the configured key shape.
func NewKeyGenerator(cfg config.LicenseConfig) KeyGenerator {
	return func() (string, error) {
		return id.NewLicenseKey(cfg.KeyPrefix, cfg.KeyHexBytes)
	}
}
