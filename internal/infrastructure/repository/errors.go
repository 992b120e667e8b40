package repository

import (
	"fmt"

	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/db"
)

// storeError wraps a store failure. Lock wait timeouts and deadlocks become
// the retryable lock timeout failure so callers can back off.
func storeError(op string, err error) error {
	if db.IsLockTimeout(err) {
		return license.ErrLockTimeout()
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
