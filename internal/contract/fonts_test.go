package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFinder map[string]string

func (m mapFinder) Find(path string) (string, bool) {
	resolved, ok := m[path]
	return resolved, ok
}

func TestStaticFinder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	fontPath := filepath.Join(second, "fonts", "Sarabun", "Sarabun-Regular.ttf")
	require.NoError(t, os.MkdirAll(filepath.Dir(fontPath), 0o755))
	require.NoError(t, os.WriteFile(fontPath, []byte("ttf"), 0o644))

	finder := StaticFinder{Dirs: []string{first, second}}

	t.Run("relative path found in later dir", func(t *testing.T) {
		path, ok := finder.Find("fonts/Sarabun/Sarabun-Regular.ttf")
		require.True(t, ok)
		assert.Equal(t, fontPath, path)
	})

	t.Run("absolute path checked directly", func(t *testing.T) {
		path, ok := finder.Find(fontPath)
		assert.True(t, ok)
		assert.Equal(t, fontPath, path)
	})

	t.Run("missing relative path", func(t *testing.T) {
		_, ok := finder.Find("fonts/Sarabun/Sarabun-Bold.ttf")
		assert.False(t, ok)
	})

	t.Run("directories are not fonts", func(t *testing.T) {
		_, ok := finder.Find("fonts")
		assert.False(t, ok)
	})
}

func TestResolveFont_PreferredFamilyFirst(t *testing.T) {
	candidates := []FontCandidate{
		{"Tahoma", "Tahoma-Bold", "tahoma-bold.ttf"},
		{"Sarabun", "Sarabun-Bold", "sarabun-bold.ttf"},
	}
	finder := mapFinder{
		"tahoma-bold.ttf":  "/fonts/tahoma-bold.ttf",
		"sarabun-bold.ttf": "/fonts/sarabun-bold.ttf",
	}

	font, ok := ResolveFont(candidates, "Sarabun", finder)
	require.True(t, ok)
	assert.Equal(t, "Sarabun-Bold", font.FaceName)

	font, ok = ResolveFont(candidates, "", finder)
	require.True(t, ok)
	assert.Equal(t, "Tahoma-Bold", font.FaceName)

	_, ok = ResolveFont(candidates, "", mapFinder{})
	assert.False(t, ok)
}

func TestResolveFontSet(t *testing.T) {
	normal := []FontCandidate{
		{"Sarabun", "Sarabun", "sarabun.ttf"},
		{"Tahoma", "Tahoma", "tahoma.ttf"},
	}
	bold := []FontCandidate{
		{"Sarabun", "Sarabun-Bold", "sarabun-bold.ttf"},
		{"Tahoma", "Tahoma-Bold", "tahoma-bold.ttf"},
	}

	t.Run("both faces found in same family", func(t *testing.T) {
		set := ResolveFontSet(normal, bold, mapFinder{
			"tahoma.ttf":       "/f/tahoma.ttf",
			"tahoma-bold.ttf":  "/f/tahoma-bold.ttf",
			"sarabun-bold.ttf": "/f/sarabun-bold.ttf",
		})
		assert.Equal(t, "Tahoma", set.BodyFamily)
		assert.Equal(t, "/f/tahoma.ttf", set.Regular.Path)
		assert.Equal(t, "Tahoma-Bold", set.Bold.FaceName)
		assert.Equal(t, "/f/tahoma-bold.ttf", set.Bold.Path)
	})

	t.Run("bold synthesized from regular", func(t *testing.T) {
		set := ResolveFontSet(normal, bold, mapFinder{"sarabun.ttf": "/f/sarabun.ttf"})
		assert.Equal(t, "Sarabun", set.BodyFamily)
		assert.Equal(t, "Sarabun-Bold", set.Bold.FaceName)
		assert.Equal(t, "/f/sarabun.ttf", set.Bold.Path)
	})

	t.Run("bold family used when regular missing", func(t *testing.T) {
		set := ResolveFontSet(normal, bold, mapFinder{"tahoma-bold.ttf": "/f/tahoma-bold.ttf"})
		assert.Equal(t, "Tahoma", set.BodyFamily)
		assert.False(t, set.Regular.Found())
		assert.True(t, set.Bold.Found())
	})

	t.Run("nothing found falls back to Helvetica", func(t *testing.T) {
		set := ResolveFontSet(normal, bold, mapFinder{})
		assert.Equal(t, DefaultBodyFamily, set.BodyFamily)
		assert.False(t, set.Regular.Found())
		assert.False(t, set.Bold.Found())
	})
}

