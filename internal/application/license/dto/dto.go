// Package dto holds the response shapes of the license engines.
package dto

import "time"

// ProductResponse is the product a license entitles to
type ProductResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	DescriptionHTML string `json:"description_html,omitempty"`
}

// LicenseResponse is one per-product license
type LicenseResponse struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	Product     *ProductResponse `json:"product,omitempty"`
	Status      string           `json:"status"`
	ExpiresAt   *time.Time       `json:"expiration_date"`
	SeatLimit   *int             `json:"seat_limit"`
	ActiveSeats *int64           `json:"active_seats,omitempty"`
	IsExpired   bool             `json:"is_expired"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BrandRef names the brand that issued a key
type BrandRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LicenseKeyResponse is a license key with its licenses
type LicenseKeyResponse struct {
	Key           string            `json:"key"`
	CustomerEmail string            `json:"customer_email"`
	Brand         *BrandRef         `json:"brand,omitempty"`
	Licenses      []LicenseResponse `json:"licenses"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ProvisionResponse is the key after provisioning. CreatedProductIDs lists
// the products that got a new license in this call. CoveringKeys lists the
// customer's other keys that already hold a valid license for some of the
// requested products, so those products do not appear on this key.
type ProvisionResponse struct {
	LicenseKeyResponse
	CreatedProductIDs []uint   `json:"created_product_ids"`
	CoveringKeys      []string `json:"covering_keys,omitempty"`
}

// ActivationResponse reports the outcome of an activation
type ActivationResponse struct {
	Status      string `json:"status"` // activated | already_active
	LicenseID   uint   `json:"license_id"`
	InstanceID  string `json:"instance_id"`
	ActiveSeats int64  `json:"active_seats"`
	SeatLimit   *int   `json:"seat_limit"`
}

// DeactivationResponse reports a freed seat
type DeactivationResponse struct {
	Status     string `json:"status"` // deactivated
	InstanceID string `json:"instance_id"`
}

// GlobalLookupResponse lists every brand's keys for one customer email
type GlobalLookupResponse struct {
	Email       string               `json:"email"`
	LicenseKeys []LicenseKeyResponse `json:"license_keys"`
}
