package license

import (
	"fmt"
	"strings"
	"time"
)

// Activation is one seat consumed on a License by an instance (a site URL,
// a machine fingerprint).
type Activation struct {
	id         uint
	licenseID  uint
	instanceID string
	createdAt  time.Time
}

// NewActivation creates an unsaved activation.
func NewActivation(licenseID uint, instanceID string, now time.Time) (*Activation, error) {
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID is required")
	}
	instanceID = strings.TrimSpace(instanceID)
	if instanceID == "" {
		return nil, fmt.Errorf("instance ID is required")
	}
	return &Activation{
		licenseID:  licenseID,
		instanceID: instanceID,
		createdAt:  now,
	}, nil
}

// ReconstructActivation reconstructs an activation from persistence
func ReconstructActivation(id, licenseID uint, instanceID string, createdAt time.Time) *Activation {
	return &Activation{
		id:         id,
		licenseID:  licenseID,
		instanceID: instanceID,
		createdAt:  createdAt,
	}
}

func (a *Activation) ID() uint           { return a.id }
func (a *Activation) LicenseID() uint    { return a.licenseID }
func (a *Activation) InstanceID() string { return a.instanceID }
func (a *Activation) CreatedAt() time.Time {
	return a.createdAt
}

// SetID sets the activation ID (only for persistence layer use)
func (a *Activation) SetID(id uint) {
	a.id = id
}
