package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		msg, err := buildMessage("noreply@example.com", Email{
			To:      []string{"owner@example.com"},
			Subject: "Construction Update: Foundation",
			Text:    "Stage: Foundation",
		})
		require.NoError(t, err)

		body := string(msg)
		assert.Contains(t, body, "To: owner@example.com\r\n")
		assert.Contains(t, body, "Content-Type: text/plain; charset=UTF-8")
		assert.Contains(t, body, "Stage: Foundation")
		assert.NotContains(t, body, "multipart")
	})

	t.Run("multipart alternative", func(t *testing.T) {
		msg, err := buildMessage("noreply@example.com", Email{
			To:      []string{"a@example.com", "b@example.com"},
			Subject: "Your data",
			Text:    "plain",
			HTML:    "<p>html</p>",
		})
		require.NoError(t, err)

		body := string(msg)
		assert.Contains(t, body, "To: a@example.com, b@example.com\r\n")
		assert.Contains(t, body, "multipart/alternative")
		assert.Less(t, strings.Index(body, "text/plain"), strings.Index(body, "text/html"))
		assert.Contains(t, body, "<p>html</p>")
	})

	t.Run("thai subject is encoded", func(t *testing.T) {
		msg, err := buildMessage("noreply@example.com", Email{
			To:      []string{"a@example.com"},
			Subject: "อัปเดตงานก่อสร้าง",
			Text:    "x",
		})
		require.NoError(t, err)
		assert.Contains(t, string(msg), "Subject: =?utf-8?q?")
	})
}
