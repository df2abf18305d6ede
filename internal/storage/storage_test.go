package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"recipes/1/a.png", "recipes/1/a.png", false},
		{"recipes//1/./a.png", "recipes/1/a.png", false},
		{"", "", true},
		{"/etc/passwd", "", true},
		{"../outside", "", true},
		{"recipes/../../outside", "", true},
		{".", "", true},
	}

	for _, tt := range tests {
		got, err := cleanKey(tt.key)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidKey, tt.key)
			continue
		}

		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got)
	}
}

func TestLocal_PutDelete(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root)
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("image bytes")

	require.NoError(t, l.Put(ctx, "recipes/1/image.png", "image/png", bytes.NewReader(data), int64(len(data))))

	got, err := os.ReadFile(filepath.Join(root, "recipes", "1", "image.png"))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, l.Delete(ctx, "recipes/1/image.png"))
	_, err = os.Stat(filepath.Join(root, "recipes", "1", "image.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing object is not an error
	assert.NoError(t, l.Delete(ctx, "recipes/1/image.png"))
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	err = l.Put(context.Background(), "../escape.png", "image/png", bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, ErrInvalidKey)

	err = l.Delete(context.Background(), "../escape.png")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocal_CancelledContext(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = l.Put(ctx, "a.png", "image/png", bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(root, "a.png"))
	assert.True(t, os.IsNotExist(err))
}
