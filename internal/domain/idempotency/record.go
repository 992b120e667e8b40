// Package idempotency models the per-brand cache of responses to
// brand-initiated mutating commands.
package idempotency

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	// StatusPending marks a key whose command is executing.
	StatusPending Status = "pending"
	// StatusCompleted marks a key whose successful response is cached.
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// ErrAlreadyReserved is returned by Reserve when (brand, key) already exists.
var ErrAlreadyReserved = errors.New("idempotency key already reserved")

// Record is one (brand, key) entry. A completed record never changes again.
type Record struct {
	id          uint
	brandID     uint
	key         string
	attemptID   string
	status      Status
	requestHash string
	statusCode  int
	body        []byte
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPendingRecord creates the reservation made before a command runs.
// attemptID identifies the execution holding the reservation.
func NewPendingRecord(brandID uint, key, attemptID, requestHash string, now time.Time) (*Record, error) {
	if brandID == 0 {
		return nil, fmt.Errorf("brand ID is required")
	}
	if key == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}
	if attemptID == "" {
		return nil, fmt.Errorf("attempt ID is required")
	}
	return &Record{
		brandID:     brandID,
		key:         key,
		attemptID:   attemptID,
		status:      StatusPending,
		requestHash: requestHash,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructRecord reconstructs a record from persistence
func ReconstructRecord(
	id, brandID uint,
	key, attemptID string,
	status Status,
	requestHash string,
	statusCode int,
	body []byte,
	createdAt, updatedAt time.Time,
) (*Record, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid idempotency status: %s", status)
	}
	return &Record{
		id:          id,
		brandID:     brandID,
		key:         key,
		attemptID:   attemptID,
		status:      status,
		requestHash: requestHash,
		statusCode:  statusCode,
		body:        body,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (r *Record) ID() uint             { return r.id }
func (r *Record) BrandID() uint        { return r.brandID }
func (r *Record) Key() string          { return r.key }
func (r *Record) AttemptID() string    { return r.attemptID }
func (r *Record) Status() Status       { return r.status }
func (r *Record) RequestHash() string  { return r.requestHash }
func (r *Record) StatusCode() int      { return r.statusCode }
func (r *Record) Body() []byte         { return r.body }
func (r *Record) CreatedAt() time.Time { return r.createdAt }
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

func (r *Record) SetID(id uint) {
	r.id = id
}

func (r *Record) IsCompleted() bool {
	return r.status == StatusCompleted
}

// IsStale reports whether a pending reservation is older than ttl and may be
// taken over by a new attempt.
func (r *Record) IsStale(now time.Time, ttl time.Duration) bool {
	return r.status == StatusPending && now.Sub(r.updatedAt) > ttl
}
