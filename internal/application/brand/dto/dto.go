package dto

import (
	"time"

	"github.com/entitle-inc/entitle/internal/domain/brand"
)

type BrandResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	APIKeyPrefix string    `json:"api_key_prefix"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateBrandResponse carries the plaintext API key. It is the only place
// the key is ever returned.
type CreateBrandResponse struct {
	BrandResponse
	APIKey string `json:"api_key"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	BrandID     uint      `json:"brand_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToBrandResponse(b *brand.Brand) BrandResponse {
	return BrandResponse{
		ID:           b.ID(),
		Name:         b.Name(),
		Slug:         b.Slug(),
		APIKeyPrefix: b.APIKeyPrefix(),
		CreatedAt:    b.CreatedAt(),
	}
}

func ToProductResponse(p *brand.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID(),
		BrandID:     p.BrandID(),
		Name:        p.Name(),
		Slug:        p.Slug(),
		Description: p.Description(),
		Active:      p.IsActive(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
