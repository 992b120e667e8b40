package license

import (
	"context"
	"errors"
)

// ErrDuplicateKeyString is returned by LicenseKeyRepository.Create when the
// generated key string collides with an existing one.
var ErrDuplicateKeyString = errors.New("license key string already exists")

// ErrActivationExists is returned by ActivationRepository.Create when the
// instance already holds a seat on the license.
var ErrActivationExists = errors.New("activation already exists")

// Lookups return (nil, nil) when nothing matches. Methods named Lock* must
// run inside a transaction and hold an exclusive row lock until it ends.

// LicenseKeyRepository persists license keys.
type LicenseKeyRepository interface {
	Create(ctx context.Context, key *LicenseKey) error

	// LockForCustomer locks the brand's key with this key string whose
	// customer email matches case-insensitively.
	LockForCustomer(ctx context.Context, brandID uint, keyString, customerEmail string) (*LicenseKey, error)

	GetByID(ctx context.Context, id uint) (*LicenseKey, error)
}

// LicenseRepository persists licenses.
type LicenseRepository interface {
	CreateBatch(ctx context.Context, licenses []*License) error
	Update(ctx context.Context, l *License) error

	// LockValidForCustomer locks the valid licenses the brand issued to
	// customerEmail for any of productIDs, across all of that customer's keys.
	LockValidForCustomer(ctx context.Context, brandID uint, customerEmail string, productIDs []uint) ([]*License, error)

	// LockForActivation locks the valid license of (brand, key string,
	// product). Wrong brand, wrong product and non-valid status all yield nil.
	LockForActivation(ctx context.Context, brandID uint, keyString string, productID uint) (*License, error)

	// LockByID locks the license only if it belongs to brandID.
	LockByID(ctx context.Context, brandID, licenseID uint) (*License, error)

	// LockValidSibling locks a valid license on l's key for l's product other
	// than l itself.
	LockValidSibling(ctx context.Context, l *License) (*License, error)

	ListByKey(ctx context.Context, licenseKeyID uint) ([]*License, error)
}

// ActivationRepository persists seats.
type ActivationRepository interface {
	Create(ctx context.Context, a *Activation) error
	Exists(ctx context.Context, licenseID uint, instanceID string) (bool, error)
	CountByLicense(ctx context.Context, licenseID uint) (int64, error)

	// DeleteForInstance removes the seat held by instanceID on the brand's
	// license of (key string, product) in one statement and reports how many
	// rows went away.
	DeleteForInstance(ctx context.Context, brandID uint, keyString string, productID uint, instanceID string) (int64, error)
}

// ProductView is the product data shown next to a license.
type ProductView struct {
	ID          uint
	Name        string
	Slug        string
	Description string // markdown
}

// LicenseView is a license with its product and seat usage.
type LicenseView struct {
	License     *License
	Product     ProductView
	ActiveSeats int64
}

// KeyView is a license key with everything a status or lookup response shows.
type KeyView struct {
	Key       *LicenseKey
	BrandName string
	BrandSlug string
	Licenses  []LicenseView
}

// Reader serves the read-only projections. It takes no locks.
type Reader interface {
	// KeyStatus returns the brand's key with licenses, products and seat
	// counts, or nil when the brand does not own such a key.
	KeyStatus(ctx context.Context, brandID uint, keyString string) (*KeyView, error)

	// KeysByEmail returns every brand's keys for the customer email, matched
	// case-insensitively, oldest first.
	KeysByEmail(ctx context.Context, email string) ([]*KeyView, error)
}
