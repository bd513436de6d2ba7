package contract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule(t *testing.T) {
	t.Run("splits price thirty forty thirty", func(t *testing.T) {
		price := decimal.NewFromInt(2500000)
		schedule := BuildSchedule(&price)
		require.Len(t, schedule, 3)

		assert.Equal(t, "งวดที่ 1", schedule[0].Label)
		assert.Equal(t, "30%", schedule[0].Percentage)
		assert.Equal(t, "40%", schedule[1].Percentage)
		assert.Equal(t, "30%", schedule[2].Percentage)
		assert.Equal(t, "750000.00", schedule[0].Amount.StringFixed(2))
		assert.Equal(t, "1000000.00", schedule[1].Amount.StringFixed(2))
		assert.Equal(t, "750000.00", schedule[2].Amount.StringFixed(2))
	})

	t.Run("rounds half up to cents", func(t *testing.T) {
		price := decimal.RequireFromString("1000.05")
		schedule := BuildSchedule(&price)
		assert.Equal(t, "300.02", schedule[0].Amount.StringFixed(2))
		assert.Equal(t, "400.02", schedule[1].Amount.StringFixed(2))
	})

	t.Run("no price leaves amounts empty", func(t *testing.T) {
		for _, schedule := range [][]Installment{BuildSchedule(nil), BuildSchedule(&decimal.Zero)} {
			require.Len(t, schedule, 3)
			for _, installment := range schedule {
				assert.Nil(t, installment.Amount)
				assert.NotEmpty(t, installment.Description)
			}
		}
	})
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"999.5":      "999.50",
		"1000":       "1,000.00",
		"1234567.89": "1,234,567.89",
		"-25000":     "-25,000.00",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, FormatMoney(decimal.RequireFromString(input)))
		})
	}
}
