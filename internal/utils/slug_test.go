package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Modern Villa", "modern-villa"},
		{"  Café   Résidence  ", "cafe-residence"},
		{"Loft -- Studio_2", "loft-studio_2"},
		{"บ้านเดี่ยว", ""},
		{"บ้าน Modern 2", "modern-2"},
		{"", ""},
		{"--Edge--", "edge"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "บ้า", Truncate("บ้านเดี่ยว", 3))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-05-04")
	assert.NoError(t, err)
	if assert.NotNil(t, parsed) {
		assert.Equal(t, "2026-05-04", parsed.Format(DateLayout))
	}

	parsed, err = ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = ParseDate("04/05/2026")
	assert.Error(t, err)
}
