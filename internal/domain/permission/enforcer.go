package permission

type Enforcer interface {
	Enforce(role string, object string, action string) (bool, error)
}
