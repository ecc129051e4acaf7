package model

import "time"

// Tenant is the top-level customer partition, identified by a globally unique
// subdomain. Downstream aggregates (accounts, positions, lines of business,
// employees, rosters) reference a tenant row by foreign key and are not part
// of this API surface.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Subdomain string    `json:"subdomain" gorm:"uniqueIndex;size:50;not null"`
	Active    bool      `json:"active" gorm:"column:is_active;not null;default:true;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
