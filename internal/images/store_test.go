package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "images"))
	require.NoError(t, err)

	assert.False(t, store.Exists("abc"))

	filename, err := store.Save("abc", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "abc.png", filename)
	assert.True(t, store.Exists("abc"))

	data, err := os.ReadFile(filepath.Join(store.BasePath(), filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, store.Remove("abc"))
	assert.False(t, store.Exists("abc"))
	assert.NoError(t, store.Remove("abc"), "removing a missing image is not an error")
}
