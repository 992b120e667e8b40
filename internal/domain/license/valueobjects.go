// Package license holds the entitlement aggregates: license keys, per-product
// licenses and the activations (seats) consumed on them.
package license

// Status is the brand-controlled lifecycle state of a License.
type Status string

const (
	StatusValid     Status = "valid"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is one of the recognized values
func (s Status) IsValid() bool {
	switch s {
	case StatusValid, StatusSuspended, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Statuses lists the recognized statuses in display order.
func Statuses() []Status {
	return []Status{StatusValid, StatusSuspended, StatusCancelled}
}

// ActivationResult tells a caller whether an activation consumed a new seat.
type ActivationResult string

const (
	ActivationResultActivated     ActivationResult = "activated"
	ActivationResultAlreadyActive ActivationResult = "already_active"
)

func (r ActivationResult) String() string {
	return string(r)
}
