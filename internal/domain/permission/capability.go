// Package permission names what each kind of caller may do.
package permission

// Roles are the principal kinds an authenticated request resolves to.
const (
	RoleBrand   = "brand"
	RoleProduct = "product"
)

// ObjectLicense is the only protected object.
const ObjectLicense = "license"

// Actions on ObjectLicense.
const (
	ActionProvision    = "provision"
	ActionActivate     = "activate"
	ActionDeactivate   = "deactivate"
	ActionReadStatus   = "read_status"
	ActionUpdateStatus = "update_status"
	ActionRenew        = "renew"
	ActionSetSeatLimit = "set_seat_limit"
	ActionGlobalLookup = "global_lookup"
)

// Policy is one (role, object, action) grant.
type Policy struct {
	Role   string
	Object string
	Action string
}

// DefaultPolicies is the complete grant table.
func DefaultPolicies() []Policy {
	brandActions := []string{
		ActionProvision, ActionActivate, ActionDeactivate, ActionReadStatus,
		ActionUpdateStatus, ActionRenew, ActionSetSeatLimit, ActionGlobalLookup,
	}
	productActions := []string{ActionActivate, ActionDeactivate, ActionReadStatus}

	policies := make([]Policy, 0, len(brandActions)+len(productActions))
	for _, a := range brandActions {
		policies = append(policies, Policy{Role: RoleBrand, Object: ObjectLicense, Action: a})
	}
	for _, a := range productActions {
		policies = append(policies, Policy{Role: RoleProduct, Object: ObjectLicense, Action: a})
	}
	return policies
}
