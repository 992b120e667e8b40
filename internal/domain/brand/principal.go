package brand

// PrincipalKind tells how a request authenticated.
type PrincipalKind string

const (
	// PrincipalBrand authenticated with the brand's secret API key.
	PrincipalBrand PrincipalKind = "brand"
	// PrincipalProduct identified the brand by its public slug only.
	PrincipalProduct PrincipalKind = "product"
)

// Principal is the authenticated caller. Both kinds act on behalf of Brand.
type Principal struct {
	Kind  PrincipalKind
	Brand *Brand
}

func (p *Principal) IsBrand() bool {
	return p != nil && p.Kind == PrincipalBrand
}

// Role is the permission role the principal is checked under.
func (p *Principal) Role() string {
	return string(p.Kind)
}
