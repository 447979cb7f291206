package models

// Role is the coarse permission group stored on an account.
type Role string

// Capability names a single operation class a role may perform.
type Capability string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

const (
	CapListingsRead  Capability = "listings:read"
	CapListingsWrite Capability = "listings:write"
	CapUsersRead     Capability = "users:read"
	CapUsersWrite    Capability = "users:write"
	CapProfileWrite  Capability = "profile:write"
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin: {CapListingsRead, CapListingsWrite, CapUsersRead, CapUsersWrite, CapProfileWrite},
	RoleUser:  {CapListingsRead, CapProfileWrite},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Capabilities returns the capability set granted to r.
// Unknown roles get an empty set.
func (r Role) Capabilities() []Capability {
	caps := roleCapabilities[r]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// Can reports whether r grants c.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
