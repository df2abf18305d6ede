// Package model defines database models
package model

import "time"

// User is an account. Email is the login credential and is stored with its
// domain part lowercased. Create users through repository.Users so that the
// password is always hashed.
type User struct {
	ID           string `gorm:"primaryKey;size:16"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"not null" json:"-"`
	IsActive     bool   `gorm:"not null"`
	IsStaff      bool   `gorm:"not null"`
	IsSuperuser  bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Recipes   []Recipe   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthToken *AuthToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
