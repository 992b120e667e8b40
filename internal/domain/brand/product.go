package brand

import (
	"fmt"
	"time"
)

// Product belongs to exactly one brand for its whole life.
type Product struct {
	id          uint
	brandID     uint
	name        string
	slug        string
	description string // markdown
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProduct(brandID uint, name, slug, description string, now time.Time) (*Product, error) {
	if brandID == 0 {
		return nil, fmt.Errorf("brand ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("product slug is required")
	}
	return &Product{
		brandID:     brandID,
		name:        name,
		slug:        slug,
		description: description,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructProduct reconstructs a product from persistence
func ReconstructProduct(id, brandID uint, name, slug, description string, active bool, createdAt, updatedAt time.Time) (*Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("product ID cannot be zero")
	}
	return &Product{
		id:          id,
		brandID:     brandID,
		name:        name,
		slug:        slug,
		description: description,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Product) ID() uint             { return p.id }
func (p *Product) BrandID() uint        { return p.brandID }
func (p *Product) Name() string         { return p.name }
func (p *Product) Slug() string         { return p.slug }
func (p *Product) Description() string  { return p.description }
func (p *Product) IsActive() bool       { return p.active }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// SetID sets the product ID (only for persistence layer use)
func (p *Product) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("product ID is already set")
	}
	p.id = id
	return nil
}

// SetActive toggles whether the product can be newly provisioned. It
// reports whether anything changed.
func (p *Product) SetActive(active bool, now time.Time) bool {
	if p.active == active {
		return false
	}
	p.active = active
	p.updatedAt = now
	return true
}
