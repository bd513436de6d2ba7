package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_UnmarshalJSON(t *testing.T) {
	var body struct {
		Number FlexString `json:"number"`
		Text   FlexString `json:"text"`
		Null   FlexString `json:"null"`
		Bool   FlexString `json:"bool"`
	}

	err := json.Unmarshal([]byte(`{"number": 250, "text": "1,200", "null": null, "bool": true}`), &body)
	require.NoError(t, err)

	assert.Equal(t, "250", body.Number.String())
	assert.Equal(t, "1,200", body.Text.String())
	assert.Equal(t, "", body.Null.String())
	assert.Equal(t, "true", body.Bool.String())
}
