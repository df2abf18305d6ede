package model

import "time"

// AuthToken binds a signed bearer token to a user. Key is the token's jti
// claim; a user has at most one row so issuing a new token revokes the old one.
type AuthToken struct {
	Key       string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}
