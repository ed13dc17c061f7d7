package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RoleName identifies a permission role assigned to a user.
type RoleName string

const (
	// RoleSuperAdmin can manage everything, including backups.
	RoleSuperAdmin RoleName = "SUPERADMIN"
	// RoleAdmin manages master data and reports.
	RoleAdmin RoleName = "ADMIN"
	// RoleEngineer files complaints and work reports.
	RoleEngineer RoleName = "ENGINEER"
	// RoleViewer has read-only access.
	RoleViewer RoleName = "VIEWER"
)

// ValidRoleNames returns all known roles.
func ValidRoleNames() []RoleName {
	return []RoleName{RoleSuperAdmin, RoleAdmin, RoleEngineer, RoleViewer}
}

// IsValidRoleName reports whether name is a known role.
func IsValidRoleName(name RoleName) bool {
	for _, valid := range ValidRoleNames() {
		if name == valid {
			return true
		}
	}
	return false
}

// Role is a role granted to a user.
type Role struct {
	Name RoleName `json:"name"`
}

// User is a person with access to the maintenance system.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	EmployeeID   string     `json:"employee_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []Role     `json:"roles"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	Designation  string     `json:"designation,omitempty"`
	JoinDate     *time.Time `json:"join_date,omitempty"`
	Nationality  string     `json:"nationality,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewUser creates a new User with the given details.
func NewUser(name, employeeID, email string, roles ...RoleName) *User {
	now := time.Now()
	u := &User{
		ID:         uuid.New(),
		Name:       name,
		EmployeeID: employeeID,
		Email:      email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	u.SetRoles(roles)
	return u
}

// SetRoles replaces the user's roles, dropping duplicates and keeping a stable order.
func (u *User) SetRoles(names []RoleName) {
	seen := make(map[RoleName]bool, len(names))
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		roles = append(roles, Role{Name: name})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	u.Roles = roles
}

// RoleNames returns the names of the user's roles.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *User) HasAnyRole(names ...RoleName) bool {
	for _, r := range u.Roles {
		for _, name := range names {
			if r.Name == name {
				return true
			}
		}
	}
	return false
}

// UserRef is the subset of a user embedded in other records.
type UserRef struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	EmployeeID string    `json:"employee_id"`
}
