package domain

import "fmt"

// Role is the closed set of actor kinds. Anything outside it is rejected at
// the boundary by ParseRole.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleTrader Role = "trader"
)

// ParseRole converts a raw string into a Role. Matching is case-sensitive.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleFarmer, RoleTrader:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string { return string(r) }

// Principal is the authenticated caller extracted from an identity token.
type Principal struct {
	UserID string
	Role   Role
}

// Require returns a RoleError when the principal does not hold want.
// action completes the sentence "Only <role>s can <action>".
func (p Principal) Require(want Role, action string) error {
	switch p.Role {
	case RoleFarmer, RoleTrader:
		if p.Role == want {
			return nil
		}
	}
	return &RoleError{Want: want, Action: action}
}
