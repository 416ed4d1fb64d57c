package json

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "record.json")

	require.NoError(t, NewWriter().WriteJSON(path, map[string]string{"network": "ethereum"}))

	var got map[string]string
	require.NoError(t, NewReader().ReadJSON(path, &got))
	assert.Equal(t, "ethereum", got["network"])
}

func TestReadMissingFile(t *testing.T) {
	var got map[string]string
	err := NewReader().ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &got)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
