package internal

import (
	"bitwise74/recipe-api/internal/repository"
	"bitwise74/recipe-api/internal/storage"

	"gorm.io/gorm"
)

// Deps is what every handler gets access to
type Deps struct {
	DB      *gorm.DB
	Users   *repository.Users
	Recipes *repository.Recipes
	Tokens  *repository.Tokens
	Storage storage.Storage

	// MaxImageSize is in bytes
	MaxImageSize int64
	// MediaURL prefixes stored image keys in responses
	MediaURL string
}
