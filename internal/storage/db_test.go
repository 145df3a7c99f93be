package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "data", "anipet.db"))
	require.NoError(t, err)
	defer db.Close()

	_, found, err := db.Get("anipet:search-index")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Put("anipet:search-index", []byte(`{"v":1}`)))
	payload, found, err := db.Get("anipet:search-index")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"v":1}`), payload)

	// Overwrite replaces in place.
	require.NoError(t, db.Put("anipet:search-index", []byte(`{"v":2}`)))
	payload, _, _ = db.Get("anipet:search-index")
	assert.Equal(t, []byte(`{"v":2}`), payload)

	require.NoError(t, db.Delete("anipet:search-index"))
	_, found, _ = db.Get("anipet:search-index")
	assert.False(t, found)
}
