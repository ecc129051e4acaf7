package model

import "time"

// User represents an administrative account that can authenticate against the API.
type User struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	Username              string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	Email                 string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash          string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	AccountNonExpired     bool      `json:"accountNonExpired" gorm:"not null;default:true"`
	AccountNonLocked      bool      `json:"accountNonLocked" gorm:"not null;default:true"`
	CredentialsNonExpired bool      `json:"credentialsNonExpired" gorm:"not null;default:true"`
	Enabled               bool      `json:"enabled" gorm:"not null;default:true"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`

	// Relations
	Roles  []Role  `json:"roles,omitempty" gorm:"many2many:user_roles"`
	Tokens []Token `json:"-" gorm:"foreignKey:UserID"`
}

// RoleNames returns the names of the user's assigned roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Name))
	}
	return names
}
