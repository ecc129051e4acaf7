package model

import "time"

// TokenTypeBearer is the only token type issued by the API.
const TokenTypeBearer = "BEARER"

// Token is a persisted access token record. Rows are never deleted; rotation
// and logout flag them revoked and expired, leaving an audit trail.
type Token struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;size:512;not null"`
	TokenType string    `json:"tokenType" gorm:"size:20;not null;default:'BEARER'"`
	Revoked   bool      `json:"revoked" gorm:"not null;default:false"`
	Expired   bool      `json:"expired" gorm:"not null;default:false"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"createdAt"`
}

// Valid reports whether the token is still usable.
func (t *Token) Valid() bool {
	return !t.Revoked && !t.Expired
}
