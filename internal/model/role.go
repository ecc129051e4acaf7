package model

// RoleName is one of the fixed set of role identifiers.
type RoleName string

// The closed role enumeration. Role rows are seeded once at startup and
// treated as immutable reference data.
const (
	RoleDev     RoleName = "DEV"
	RoleAdmin   RoleName = "ADMIN"
	RoleManager RoleName = "MANAGER"
	RoleSup     RoleName = "SUP"
	RoleUser    RoleName = "USER"
)

// AllRoleNames lists every valid role name, in seeding order.
func AllRoleNames() []RoleName {
	return []RoleName{RoleDev, RoleAdmin, RoleManager, RoleSup, RoleUser}
}

// Valid reports whether the name belongs to the enumeration.
func (n RoleName) Valid() bool {
	switch n {
	case RoleDev, RoleAdmin, RoleManager, RoleSup, RoleUser:
		return true
	}
	return false
}

// Role is a seeded authorization role assignable to users.
type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"uniqueIndex;size:20;not null"`
}
