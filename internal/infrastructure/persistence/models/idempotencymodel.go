package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/entitle-inc/entitle/internal/shared/constants"
)

// IdempotencyRecordModel caches the response to a brand command keyed by the
// caller's idempotency key
type IdempotencyRecordModel struct {
	ID             uint   `gorm:"primarykey"`
	BrandID        uint   `gorm:"not null;uniqueIndex:idx_idempotency_brand_key,priority:1"`
	IdempotencyKey string `gorm:"not null;size:255;uniqueIndex:idx_idempotency_brand_key,priority:2"`
	AttemptID      string `gorm:"not null;size:36"`
	Status         string `gorm:"not null;size:20"`
	RequestHash    string `gorm:"not null;size:64"`
	StatusCode     int    `gorm:"not null;default:0"`
	ResponseData   datatypes.JSON
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (IdempotencyRecordModel) TableName() string {
	return constants.TableIdempotencyRecords
}
