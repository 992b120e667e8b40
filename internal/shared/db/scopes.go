package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForUpdate takes an exclusive row lock on the selected rows until the
// surrounding transaction ends. With a table name only that table's rows are
// locked in a join (FOR UPDATE OF). Dialects without row locks (SQLite)
// ignore the clause; there the single-writer database lock serializes instead.
func ForUpdate(table ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		locking := clause.Locking{Strength: clause.LockingStrengthUpdate}
		if len(table) > 0 {
			locking.Table = clause.Table{Name: table[0]}
		}
		return db.Clauses(locking)
	}
}

// OwnedByBrand restricts a query to rows belonging to brandID.
//
//	db.Model(&models.LicenseKeyModel{}).Scopes(db.OwnedByBrand(7)).Find(&keys)
func OwnedByBrand(brandID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("brand_id = ?", brandID)
	}
}

// OwnedByBrandWithAlias is OwnedByBrand for joined queries.
func OwnedByBrandWithAlias(alias string, brandID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(alias+".brand_id = ?", brandID)
	}
}

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsLockTimeout reports whether err means a row or database lock could not be
// acquired in time. Such errors are transient and safe to retry.
func IsLockTimeout(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlLockWaitTimeout || myErr.Number == mysqlDeadlock
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "Lock wait timeout exceeded")
}
