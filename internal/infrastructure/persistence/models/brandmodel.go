package models

import (
	"time"

	"github.com/entitle-inc/entitle/internal/shared/constants"
)

// BrandModel is the persistence model for tenants
type BrandModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"not null;size:255"`
	Slug         string `gorm:"not null;size:100;uniqueIndex:idx_brands_slug"`
	APIKeyHash   string `gorm:"column:api_key_hash;not null;size:64;uniqueIndex:idx_brands_api_key_hash"`
	APIKeyPrefix string `gorm:"column:api_key_prefix;not null;size:16"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (BrandModel) TableName() string {
	return constants.TableBrands
}

// ProductModel is the persistence model for a brand's products
type ProductModel struct {
	ID          uint   `gorm:"primarykey"`
	BrandID     uint   `gorm:"not null;index:idx_products_brand_active,priority:1"`
	Name        string `gorm:"not null;size:255"`
	Slug        string `gorm:"not null;size:100;uniqueIndex:idx_products_slug"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true;index:idx_products_brand_active,priority:2"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductModel) TableName() string {
	return constants.TableProducts
}
