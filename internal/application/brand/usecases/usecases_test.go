package usecases

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/infrastructure/apikey"
	"github.com/entitle-inc/entitle/internal/infrastructure/migration"
	"github.com/entitle-inc/entitle/internal/infrastructure/repository"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
)

var dbSeq atomic.Int64

type fixture struct {
	brands   brand.Repository
	products brand.ProductRepository
	keys     apikey.Generator
	md       markdown.MarkdownService
	clock    *biztime.FixedClock
	log      logger.Interface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:brands%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.NewGormAutoMigrateStrategy().Migrate(gdb))

	log := logger.NewNop()
	return &fixture{
		brands:   repository.NewBrandRepository(gdb, log),
		products: repository.NewProductRepository(gdb, log),
		keys:     apikey.NewGenerator(),
		md:       markdown.NewMarkdownService(),
		clock:    biztime.NewFixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		log:      log,
	}
}

func (f *fixture) createBrandUC() *CreateBrandUseCase {
	return NewCreateBrandUseCase(f.brands, f.keys, f.md, f.clock, f.log)
}

func (f *fixture) createProductUC() *CreateProductUseCase {
	return NewCreateProductUseCase(f.brands, f.products, f.md, f.clock, f.log)
}

func TestCreateBrand(t *testing.T) {
	f := newFixture(t)
	uc := f.createBrandUC()

	resp, err := uc.Execute(context.Background(), CreateBrandCommand{Name: "Rank Math"})
	require.NoError(t, err)

	assert.Equal(t, "rank-math", resp.Slug)
	assert.True(t, strings.HasPrefix(resp.APIKey, apikey.PrefixLive))
	assert.Len(t, resp.APIKey, len(apikey.PrefixLive)+64)
	assert.True(t, strings.HasPrefix(resp.APIKey, resp.APIKeyPrefix))

	stored, err := f.brands.GetBySlug(context.Background(), "rank-math")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, resp.APIKey, stored.APIKeyHash())
	assert.Equal(t, f.keys.Hash(resp.APIKey), stored.APIKeyHash())
}

func TestCreateBrand_SlugCollisionsGetSuffix(t *testing.T) {
	f := newFixture(t)
	uc := f.createBrandUC()

	want := []string{"wp-rocket", "wp-rocket-1", "wp-rocket-2"}
	for _, slug := range want {
		resp, err := uc.Execute(context.Background(), CreateBrandCommand{Name: "WP Rocket"})
		require.NoError(t, err)
		assert.Equal(t, slug, resp.Slug)
	}
}

func TestCreateBrand_ExplicitSlug(t *testing.T) {
	f := newFixture(t)
	uc := f.createBrandUC()

	resp, err := uc.Execute(context.Background(), CreateBrandCommand{Name: "Rank Math", Slug: "rankmath"})
	require.NoError(t, err)
	assert.Equal(t, "rankmath", resp.Slug)

	_, err = uc.Execute(context.Background(), CreateBrandCommand{Name: "Other", Slug: "rankmath"})
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))

	_, err = uc.Execute(context.Background(), CreateBrandCommand{Name: "Other", Slug: "Not A Slug"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreateBrand_SanitizesName(t *testing.T) {
	f := newFixture(t)

	resp, err := f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "<b>Rank</b> Math<script>x</script>"})
	require.NoError(t, err)
	assert.Equal(t, "Rank Math", resp.Name)

	_, err = f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "<i></i>"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	b, err := f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "Rank Math"})
	require.NoError(t, err)

	uc := f.createProductUC()
	p, err := uc.Execute(context.Background(), CreateProductCommand{
		BrandID:     b.ID,
		Name:        "Content AI",
		Description: "Writes **for** you",
	})
	require.NoError(t, err)
	assert.Equal(t, "content-ai", p.Slug)
	assert.True(t, p.Active)
	assert.Equal(t, b.ID, p.BrandID)

	// Product slugs are unique across brands.
	other, err := f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "Other"})
	require.NoError(t, err)
	p2, err := uc.Execute(context.Background(), CreateProductCommand{BrandID: other.ID, Name: "Content AI"})
	require.NoError(t, err)
	assert.Equal(t, "content-ai-1", p2.Slug)

	_, err = uc.Execute(context.Background(), CreateProductCommand{BrandID: 999, Name: "Orphan"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListProductsAndSetActive(t *testing.T) {
	f := newFixture(t)
	b, err := f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "Rank Math"})
	require.NoError(t, err)
	for _, name := range []string{"Rank Math", "Content AI"} {
		_, err := f.createProductUC().Execute(context.Background(), CreateProductCommand{BrandID: b.ID, Name: name})
		require.NoError(t, err)
	}

	list, err := NewListProductsUseCase(f.products, f.log).Execute(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "rank-math", list[0].Slug)

	setActive := NewSetProductActiveUseCase(f.products, f.clock, f.log)
	resp, err := setActive.Execute(context.Background(), b.ID, list[1].ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	stored, err := f.products.GetByID(context.Background(), b.ID, list[1].ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())

	// Unchanged is a no-op.
	resp, err = setActive.Execute(context.Background(), b.ID, list[1].ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	_, err = setActive.Execute(context.Background(), b.ID+1, list[1].ID, true)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestAuthenticateBrand(t *testing.T) {
	f := newFixture(t)
	created, err := f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "Rank Math"})
	require.NoError(t, err)
	other, err := f.createBrandUC().Execute(context.Background(), CreateBrandCommand{Name: "WP Rocket"})
	require.NoError(t, err)

	uc := NewAuthenticateBrandUseCase(f.brands, f.keys, f.log)

	tests := []struct {
		name      string
		creds     Credentials
		wantKind  brand.PrincipalKind
		wantBrand uint
		wantErr   bool
	}{
		{"api key", Credentials{APIKey: created.APIKey}, brand.PrincipalBrand, created.ID, false},
		{"slug", Credentials{Slug: "wp-rocket"}, brand.PrincipalProduct, other.ID, false},
		{"api key wins over slug", Credentials{APIKey: created.APIKey, Slug: "wp-rocket"}, brand.PrincipalBrand, created.ID, false},
		{"unknown api key", Credentials{APIKey: "sk_live_nope"}, "", 0, true},
		{"unknown api key does not fall back to slug", Credentials{APIKey: "sk_live_nope", Slug: "wp-rocket"}, "", 0, true},
		{"unknown slug", Credentials{Slug: "nope"}, "", 0, true},
		{"no credentials", Credentials{}, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := uc.Execute(context.Background(), tt.creds)
			if tt.wantErr {
				require.Error(t, err)
				appErr := errors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, errors.ErrorTypeUnauthorized, appErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, p.Kind)
			assert.Equal(t, tt.wantBrand, p.Brand.ID())
		})
	}
}
