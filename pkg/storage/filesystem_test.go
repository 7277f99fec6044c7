package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveStream(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	name, err := store.SaveStream("passport_1.png", bytes.NewReader([]byte("pngdata")))
	require.NoError(t, err)
	assert.Equal(t, "passport_1.png", name)

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("pngdata"), data)
}

func TestLocalStorageDeleteTolerant(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.SaveStream("passport_2.jpg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Delete("passport_2.jpg"))
	_, statErr := os.Stat(filepath.Join(dir, "passport_2.jpg"))
	assert.True(t, os.IsNotExist(statErr))

	// deleting again must still succeed
	assert.NoError(t, store.Delete("passport_2.jpg"))
}
