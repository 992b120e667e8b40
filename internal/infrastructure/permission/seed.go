package permission

import (
	"fmt"

	"github.com/entitle-inc/entitle/internal/domain/permission"
)

// SeedPolicies stores every default grant that is not stored yet. Running it
// again is a no-op.
func (e *Enforcer) SeedPolicies(policies []permission.Policy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, p := range policies {
		ok, err := e.enforcer.AddPolicy(p.Role, p.Object, p.Action)
		if err != nil {
			e.logger.Errorw("failed to add permission policy",
				"error", err,
				"role", p.Role,
				"object", p.Object,
				"action", p.Action)
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w", p.Role, p.Object, p.Action, err)
		}
		if ok {
			added++
		}
	}

	e.logger.Infow("permission policies seeded", "added", added, "total", len(policies))
	return nil
}
