package contract

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() Data {
	return Data{
		QuoteID:     42,
		Status:      "approved",
		DesignTitle: "Garden House",
		ClientName:  "Client Person",
		IssuedDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalPrice:  decimal.NewFromInt(3000000),
		HasPrice:    true,
	}
}

func TestRenderHTML_WithoutFontFiles(t *testing.T) {
	html, err := RenderHTML(testData(), FontSet{BodyFamily: DefaultBodyFamily})
	require.NoError(t, err)

	assert.Contains(t, html, "Garden House")
	assert.Contains(t, html, `font-family: "`+DefaultBodyFamily+`"`)
	assert.NotContains(t, html, "@font-face")
	assert.NotContains(t, html, BodyFontPlaceholder)
}

func TestRenderHTML_EmbedsFontFiles(t *testing.T) {
	fontPath := filepath.Join(t.TempDir(), "Sarabun-Regular.ttf")
	raw := []byte("ttf font bytes")
	require.NoError(t, os.WriteFile(fontPath, raw, 0o644))

	regular := ResolvedFont{Family: "Sarabun", FaceName: "Sarabun", Path: fontPath}
	fonts := FontSet{
		BodyFamily: "Sarabun",
		Regular:    regular,
		Bold:       ResolvedFont{Family: "Sarabun", FaceName: "Sarabun-Bold", Path: fontPath},
	}

	html, err := RenderHTML(testData(), fonts)
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString(raw)
	assert.Contains(t, html, "url(data:font/ttf;base64,"+encoded+")")
	assert.Equal(t, 2, strings.Count(html, "@font-face"))
	assert.Contains(t, html, "font-weight: bold;")
	assert.NotContains(t, html, "file://")
	assert.NotContains(t, html, BodyFontPlaceholder)

	t.Run("repeated renders keep working", func(t *testing.T) {
		_, err := RenderHTML(testData(), fonts)
		require.NoError(t, err)
		_, err = RenderHTML(testData(), FontSet{BodyFamily: DefaultBodyFamily})
		assert.NoError(t, err)
	})
}

func TestRenderHTML_SkipsUnreadableFont(t *testing.T) {
	fonts := FontSet{
		BodyFamily: "Sarabun",
		Regular:    ResolvedFont{Family: "Sarabun", Path: filepath.Join(t.TempDir(), "missing.ttf")},
	}

	html, err := RenderHTML(testData(), fonts)
	require.NoError(t, err)
	assert.NotContains(t, html, "@font-face")
}
