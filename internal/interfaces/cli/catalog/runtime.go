// Package catalog holds the operator commands that manage brands and their
// products. The HTTP API has no endpoints for these.
package catalog

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/infrastructure/apikey"
	"github.com/entitle-inc/entitle/internal/infrastructure/config"
	"github.com/entitle-inc/entitle/internal/infrastructure/database"
	"github.com/entitle-inc/entitle/internal/infrastructure/repository"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
)

var env string

type runtime struct {
	brandRepo     brand.Repository
	productRepo   brand.ProductRepository
	createBrand   *usecases.CreateBrandUseCase
	createProduct *usecases.CreateProductUseCase
	listProducts  *usecases.ListProductsUseCase
	setActive     *usecases.SetProductActiveUseCase
	logger        logger.Interface
}

func newRuntime(db *gorm.DB, clock biztime.Clock, log logger.Interface) *runtime {
	brandRepo := repository.NewBrandRepository(db, log)
	productRepo := repository.NewProductRepository(db, log)
	md := markdown.NewMarkdownService()

	return &runtime{
		brandRepo:     brandRepo,
		productRepo:   productRepo,
		createBrand:   usecases.NewCreateBrandUseCase(brandRepo, apikey.NewGenerator(), md, clock, log),
		createProduct: usecases.NewCreateProductUseCase(brandRepo, productRepo, md, clock, log),
		listProducts:  usecases.NewListProductsUseCase(productRepo, log),
		setActive:     usecases.NewSetProductActiveUseCase(productRepo, clock, log),
		logger:        log,
	}
}

// openRuntime loads the configuration and opens the database. The caller
// closes the database with database.Close.
func openRuntime() (*runtime, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return newRuntime(database.Get(), biztime.SystemClock, logger.NewLogger()), nil
}
