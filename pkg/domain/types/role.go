package types

// Role represents the profile role of a user within a society
type Role string

const (
	RoleMember    Role = "member"
	RoleSecretary Role = "secretary"
	RoleWorker    Role = "worker"
	RoleAdmin     Role = "admin"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleSecretary, RoleWorker, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanAssign reports whether a user with this role may assign issues to workers
func (r Role) CanAssign() bool {
	return r == RoleAdmin || r == RoleSecretary
}

// Assignable reports whether a user with this role may be the target of an
// issue assignment
func (r Role) Assignable() bool {
	return r == RoleWorker || r == RoleAdmin
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
