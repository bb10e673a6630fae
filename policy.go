package lnaddr

// localUser is always servable. It acts as a standing permit for test and
// introspection flows.
const localUser = "local"

// IdentityPolicy decides which usernames this deployment serves. It is an
// allow-list check, not authentication: the literal "local" user plus the
// single configured operator.
type IdentityPolicy struct {
	operator string
}

func NewIdentityPolicy(operator string) *IdentityPolicy {
	return &IdentityPolicy{operator: operator}
}

// IsServable reports whether the username can be resolved locally.
func (p *IdentityPolicy) IsServable(username string) bool {
	if username == localUser {
		return true
	}

	return username == p.operator
}
