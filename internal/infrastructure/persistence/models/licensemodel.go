package models

import (
	"time"

	"github.com/entitle-inc/entitle/internal/shared/constants"
)

// LicenseKeyModel is the persistence model for customer license keys
type LicenseKeyModel struct {
	ID            uint   `gorm:"primarykey"`
	BrandID       uint   `gorm:"not null;index:idx_license_keys_brand_email,priority:1"`
	KeyString     string `gorm:"column:key_string;not null;size:64;uniqueIndex:idx_license_keys_key_string"`
	CustomerEmail string `gorm:"not null;size:255;index:idx_license_keys_brand_email,priority:2;index:idx_license_keys_email"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Brand    *BrandModel    `gorm:"foreignKey:BrandID"`
	Licenses []LicenseModel `gorm:"foreignKey:LicenseKeyID"`
}

func (LicenseKeyModel) TableName() string {
	return constants.TableLicenseKeys
}

// LicenseModel is the persistence model for a per-product license.
// (license_key_id, product_id) is indexed but not unique: a cancelled
// license may sit next to a newer valid one for the same product.
type LicenseModel struct {
	ID           uint       `gorm:"primarykey"`
	BrandID      uint       `gorm:"not null;index:idx_licenses_brand"`
	LicenseKeyID uint       `gorm:"not null;index:idx_licenses_key_product,priority:1"`
	ProductID    uint       `gorm:"not null;index:idx_licenses_key_product,priority:2"`
	Status       string     `gorm:"not null;size:20;default:valid"`
	ExpiresAt    *time.Time `gorm:"column:expiration_date"`
	SeatLimit    *int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

func (LicenseModel) TableName() string {
	return constants.TableLicenses
}

// ActivationModel is one consumed seat
type ActivationModel struct {
	ID         uint   `gorm:"primarykey"`
	LicenseID  uint   `gorm:"not null;uniqueIndex:idx_activations_license_instance,priority:1"`
	InstanceID string `gorm:"column:instance_identifier;not null;size:255;uniqueIndex:idx_activations_license_instance,priority:2"`
	CreatedAt  time.Time
}

func (ActivationModel) TableName() string {
	return constants.TableActivations
}
