// Package id generates the opaque identifiers handed out to customers and
// callers.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultKeyPrefix is the license key prefix when none is configured.
	DefaultKeyPrefix = "G1"

	// DefaultKeyBytes is the number of random bytes behind a license key.
	DefaultKeyBytes = 12
)

// NewLicenseKey returns "PREFIX-<HEX>" with n random bytes rendered as
// uppercase hex. Uniqueness is enforced by the store, not here.
func NewLicenseKey(prefix string, n int) (string, error) {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if n <= 0 {
		n = DefaultKeyBytes
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// IsLicenseKey reports whether s has the "PREFIX-<HEX>" shape.
func IsLicenseKey(s string) bool {
	prefix, body, ok := strings.Cut(s, "-")
	if !ok || prefix == "" || body == "" || len(body)%2 != 0 {
		return false
	}
	for _, r := range body {
		if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}

// NewRequestID returns a random request identifier.
func NewRequestID() string {
	return uuid.NewString()
}
