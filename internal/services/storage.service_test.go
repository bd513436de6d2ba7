package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStore_Save(t *testing.T) {
	root := t.TempDir()
	store := NewLocalFileStore(root, "/media/")

	stored, err := store.Save(
		context.Background(),
		CategorySiteUpdates,
		"Foundation Pour.JPG",
		strings.NewReader("image-bytes"),
		11,
		"image/jpeg",
	)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored, CategorySiteUpdates+"/"))
	assert.True(t, strings.HasSuffix(stored, ".jpg"))
	assert.NotContains(t, stored, "Foundation")

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored)))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))

	assert.Equal(t, "/media/"+stored, store.URL(stored))
	assert.Equal(t, "", store.URL(""))
}
