package license

import (
	"fmt"
	"strings"
	"time"
)

// LicenseKey is the customer-facing credential grouping the licenses one
// customer holds with one brand.
type LicenseKey struct {
	id            uint
	brandID       uint
	key           string
	customerEmail string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewLicenseKey creates an unsaved key for a customer.
func NewLicenseKey(brandID uint, key, customerEmail string, now time.Time) (*LicenseKey, error) {
	if brandID == 0 {
		return nil, fmt.Errorf("brand ID is required")
	}
	if key == "" {
		return nil, fmt.Errorf("key string is required")
	}
	email := NormalizeEmail(customerEmail)
	if email == "" {
		return nil, fmt.Errorf("customer email is required")
	}
	return &LicenseKey{
		brandID:       brandID,
		key:           key,
		customerEmail: email,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructLicenseKey reconstructs a license key from persistence
func ReconstructLicenseKey(id, brandID uint, key, customerEmail string, createdAt, updatedAt time.Time) (*LicenseKey, error) {
	if id == 0 {
		return nil, fmt.Errorf("license key ID cannot be zero")
	}
	return &LicenseKey{
		id:            id,
		brandID:       brandID,
		key:           key,
		customerEmail: customerEmail,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

func (k *LicenseKey) ID() uint              { return k.id }
func (k *LicenseKey) BrandID() uint         { return k.brandID }
func (k *LicenseKey) Key() string           { return k.key }
func (k *LicenseKey) CustomerEmail() string { return k.customerEmail }
func (k *LicenseKey) CreatedAt() time.Time  { return k.createdAt }
func (k *LicenseKey) UpdatedAt() time.Time  { return k.updatedAt }

// SetID sets the key ID (only for persistence layer use)
func (k *LicenseKey) SetID(id uint) error {
	if k.id != 0 {
		return fmt.Errorf("license key ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("license key ID cannot be zero")
	}
	k.id = id
	return nil
}

// NormalizeEmail trims surrounding space. Case is preserved for display;
// lookups compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
