// Package brand holds the tenants and the products they sell.
package brand

import (
	"fmt"
	"time"
)

// Brand is a tenant. Its slug is public; its API key is secret and only
// the SHA-256 hash is kept.
type Brand struct {
	id           uint
	name         string
	slug         string
	apiKeyHash   string
	apiKeyPrefix string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBrand creates an unsaved brand. slug must already be unique.
func NewBrand(name, slug, apiKeyHash, apiKeyPrefix string, now time.Time) (*Brand, error) {
	if name == "" {
		return nil, fmt.Errorf("brand name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("brand slug is required")
	}
	if apiKeyHash == "" {
		return nil, fmt.Errorf("API key hash is required")
	}
	return &Brand{
		name:         name,
		slug:         slug,
		apiKeyHash:   apiKeyHash,
		apiKeyPrefix: apiKeyPrefix,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructBrand reconstructs a brand from persistence
func ReconstructBrand(id uint, name, slug, apiKeyHash, apiKeyPrefix string, createdAt, updatedAt time.Time) (*Brand, error) {
	if id == 0 {
		return nil, fmt.Errorf("brand ID cannot be zero")
	}
	return &Brand{
		id:           id,
		name:         name,
		slug:         slug,
		apiKeyHash:   apiKeyHash,
		apiKeyPrefix: apiKeyPrefix,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (b *Brand) ID() uint             { return b.id }
func (b *Brand) Name() string         { return b.name }
func (b *Brand) Slug() string         { return b.slug }
func (b *Brand) APIKeyHash() string   { return b.apiKeyHash }
func (b *Brand) APIKeyPrefix() string { return b.apiKeyPrefix }
func (b *Brand) CreatedAt() time.Time { return b.createdAt }
func (b *Brand) UpdatedAt() time.Time { return b.updatedAt }

// SetID sets the brand ID (only for persistence layer use)
func (b *Brand) SetID(id uint) error {
	if b.id != 0 {
		return fmt.Errorf("brand ID is already set")
	}
	b.id = id
	return nil
}
