package blogclient

// RoleValidator defines role-based access control checks over blog resources
type RoleValidator interface {
	// CanRead checks if the role can read published posts
	CanRead() bool

	// CanEdit checks if the role can edit existing posts
	CanEdit() bool

	// CanCreate checks if the role can create new posts
	CanCreate() bool

	// CanDelete checks if the role can delete posts
	CanDelete() bool

	// HasRole checks if this is a specific role
	HasRole(role UserRole) bool

	// IsAtLeast checks if the role is at least the minimum required role
	IsAtLeast(minRole UserRole) bool
}

var _ RoleValidator = RoleReader

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleReader, RoleAuthor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanRead checks if this role can read published posts
func (r UserRole) CanRead() bool {
	return r.IsValid()
}

// CanEdit checks if this role can edit posts
func (r UserRole) CanEdit() bool {
	switch r {
	case RoleAuthor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanCreate checks if this role can create posts
func (r UserRole) CanCreate() bool {
	switch r {
	case RoleAuthor, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanDelete checks if this role can delete posts
func (r UserRole) CanDelete() bool {
	return r == RoleAdmin
}

// HasRole checks if this is the given role
func (r UserRole) HasRole(role UserRole) bool {
	return r == role
}

// IsAtLeast checks if the role meets the minimum required level
func (r UserRole) IsAtLeast(minRole UserRole) bool {
	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

var roleHierarchy = map[UserRole]int{
	RoleReader: 0,
	RoleAuthor: 1,
	RoleAdmin:  2,
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleReader,
		RoleAuthor,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}
