package brand

import "context"

// Lookups return (nil, nil) when nothing matches.

type Repository interface {
	// Create persists the brand; a taken slug or key hash is reported as a
	// conflict error.
	Create(ctx context.Context, b *Brand) error
	GetByID(ctx context.Context, id uint) (*Brand, error)
	GetBySlug(ctx context.Context, slug string) (*Brand, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*Brand, error)
	// SlugsWithPrefix lists the slugs equal to base or starting with base+"-".
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, brandID, productID uint) (*Product, error)
	ListByBrand(ctx context.Context, brandID uint) ([]*Product, error)
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)

	// LockActiveByIDs locks the brand's active products among ids, in id
	// order. Concurrent provisioning of the same product serializes here.
	LockActiveByIDs(ctx context.Context, brandID uint, ids []uint) ([]*Product, error)
}
