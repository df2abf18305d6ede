package db

import (
	"bitwise74/recipe-api/internal/model"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "file:database.db?_foreign_keys=on", withForeignKeys("database.db"))
	assert.Equal(t, "file:test?mode=memory&_foreign_keys=on", withForeignKeys("file:test?mode=memory"))
	assert.Equal(t, "file:x.db?_fk=1", withForeignKeys("file:x.db?_fk=1"))
}

func TestNew_SQLite(t *testing.T) {
	// The file has to exist when running inside docker
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	db, err := New("sqlite", path)
	require.NoError(t, err)

	for _, m := range []any{&model.User{}, &model.Recipe{}, &model.AuthToken{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New("mysql", "dsn")
	assert.Error(t, err)
}
