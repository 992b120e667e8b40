package license

import (
	"fmt"
	"time"

	"github.com/entitle-inc/entitle/internal/shared/biztime"
)

// License is one product's entitlement under a LicenseKey. It is the unit of
// locking for activation and lifecycle commands. brandID always equals the
// owning key's brand.
type License struct {
	id           uint
	brandID      uint
	licenseKeyID uint
	productID    uint
	status       Status
	expiresAt    *time.Time // nil means non-expiring
	seatLimit    *int       // nil means unlimited
	createdAt    time.Time
	updatedAt    time.Time
}

// NewLicense creates a valid license for a product.
func NewLicense(brandID, licenseKeyID, productID uint, expiresAt *time.Time, now time.Time) (*License, error) {
	if brandID == 0 {
		return nil, fmt.Errorf("brand ID is required")
	}
	if licenseKeyID == 0 {
		return nil, fmt.Errorf("license key ID is required")
	}
	if productID == 0 {
		return nil, fmt.Errorf("product ID is required")
	}
	return &License{
		brandID:      brandID,
		licenseKeyID: licenseKeyID,
		productID:    productID,
		status:       StatusValid,
		expiresAt:    expiresAt,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructLicense reconstructs a license from persistence
func ReconstructLicense(
	id, brandID, licenseKeyID, productID uint,
	status Status,
	expiresAt *time.Time,
	seatLimit *int,
	createdAt, updatedAt time.Time,
) (*License, error) {
	if id == 0 {
		return nil, fmt.Errorf("license ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid license status: %s", status)
	}
	return &License{
		id:           id,
		brandID:      brandID,
		licenseKeyID: licenseKeyID,
		productID:    productID,
		status:       status,
		expiresAt:    expiresAt,
		seatLimit:    seatLimit,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (l *License) ID() uint              { return l.id }
func (l *License) BrandID() uint         { return l.brandID }
func (l *License) LicenseKeyID() uint    { return l.licenseKeyID }
func (l *License) ProductID() uint       { return l.productID }
func (l *License) Status() Status        { return l.status }
func (l *License) ExpiresAt() *time.Time { return l.expiresAt }
func (l *License) SeatLimit() *int       { return l.seatLimit }
func (l *License) CreatedAt() time.Time  { return l.createdAt }
func (l *License) UpdatedAt() time.Time  { return l.updatedAt }

// SetID sets the license ID (only for persistence layer use)
func (l *License) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("license ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("license ID cannot be zero")
	}
	l.id = id
	return nil
}

// IsExpired reports whether the license has an expiration in the past.
// A non-expiring license is never expired.
func (l *License) IsExpired(now time.Time) bool {
	return l.expiresAt != nil && l.expiresAt.Before(now)
}

// Admit checks whether one more seat fits, given the current number of
// activations.
func (l *License) Admit(activeSeats int64) error {
	if l.seatLimit != nil && activeSeats >= int64(*l.seatLimit) {
		return ErrSeatLimitReached(*l.seatLimit)
	}
	return nil
}

// ChangeStatus applies a brand-driven transition. It returns false when the
// license is already in target, which is not an error.
func (l *License) ChangeStatus(target Status, now time.Time) (bool, error) {
	if !target.IsValid() {
		return false, ErrInvalidStatus(target.String())
	}
	if target == l.status {
		return false, nil
	}
	if l.status == StatusCancelled && target == StatusValid {
		return false, ErrCancelledMustRenew()
	}
	l.status = target
	l.updatedAt = now
	return true, nil
}

// Renew extends the expiration by days from the later of the current
// expiration and now, and forces the status back to valid.
func (l *License) Renew(days int, now time.Time) {
	base := now
	if l.expiresAt != nil {
		base = biztime.Later(*l.expiresAt, now)
	}
	next := biztime.AddDays(base, days)
	l.expiresAt = &next
	l.status = StatusValid
	l.updatedAt = now
}

// ChangeSeatLimit sets the seat limit (nil for unlimited). A limit below the
// number of seats already in use is refused.
func (l *License) ChangeSeatLimit(limit *int, activeSeats int64, now time.Time) error {
	if limit != nil {
		if *limit <= 0 {
			return ErrInvalidSeatLimit(*limit)
		}
		if int64(*limit) < activeSeats {
			return ErrSeatLimitBelowUsage(*limit, activeSeats)
		}
		v := *limit
		limit = &v
	}
	l.seatLimit = limit
	l.updatedAt = now
	return nil
}
