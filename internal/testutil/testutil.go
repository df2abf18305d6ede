// Package testutil builds the dependencies shared by package tests
package testutil

import (
	"bitwise74/recipe-api/db"
	"bitwise74/recipe-api/pkg/security"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// NewDB returns a migrated sqlite database that lives as long as the test
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	// db.New refuses to create the file inside docker
	path := filepath.Join(t.TempDir(), "test.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	d, err := db.New("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}

	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return d
}

// Hasher is argon2id with parameters low enough to keep tests fast
func Hasher() security.Hasher {
	return &security.ArgonHash{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func Issuer() *security.TokenIssuer {
	return security.NewTokenIssuer("test-secret", time.Hour)
}
