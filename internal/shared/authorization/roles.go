// Package authorization defines the administrative roles enforced on the admin API.
package authorization

type Role string

const (
	// RoleAdmin may perform every administrative operation
	RoleAdmin Role = "admin"
	// RoleSupport may read records and deactivate activations
	RoleSupport Role = "support"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleSupport
}
