package idempotency

import (
	"context"
	"time"
)

type Repository interface {
	// Reserve inserts a pending record. ErrAlreadyReserved when (brand, key)
	// exists in any state.
	Reserve(ctx context.Context, r *Record) error

	// Get returns the record for (brand, key), or nil.
	Get(ctx context.Context, brandID uint, key string) (*Record, error)

	// TakeOver hands a pending record last touched before staleBefore to
	// attemptID. False when someone else got there first or it completed.
	TakeOver(ctx context.Context, brandID uint, key, attemptID, requestHash string, staleBefore, now time.Time) (bool, error)

	// Complete stores the response on the pending record held by attemptID.
	Complete(ctx context.Context, brandID uint, key, attemptID string, statusCode int, body []byte, now time.Time) error

	// Release drops the pending record held by attemptID.
	Release(ctx context.Context, brandID uint, key, attemptID string) error
}
