package migration

import (
	"github.com/entitle-inc/entitle/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models GormAutoMigrateStrategy creates, in
// dependency order.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.BrandModel{},
		&models.ProductModel{},
		&models.LicenseKeyModel{},
		&models.LicenseModel{},
		&models.ActivationModel{},
		&models.IdempotencyRecordModel{},
	}
}
