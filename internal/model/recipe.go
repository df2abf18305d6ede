package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"`
	UserID      string          `gorm:"index;not null"`
	Title       string          `gorm:"size:255;not null"`
	TimeMinutes int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Link        string          `gorm:"size:255"`
	Description string
	Image       string // Storage key, empty when no image was uploaded
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
