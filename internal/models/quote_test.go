package models

import (
	"testing"

	"housemanagement/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint {
	return &v
}

func TestQuoteValidate_DesignReferences(t *testing.T) {
	testCases := []struct {
		name       string
		quote      Quote
		wantFields map[string]string
	}{
		{
			name:  "custom design only",
			quote: Quote{DesignID: uintPtr(1), Status: QuoteStatusPending},
		},
		{
			name:  "catalog design only",
			quote: Quote{CatalogDesignID: uintPtr(4), Status: QuoteStatusDraft},
		},
		{
			name:  "neither reference",
			quote: Quote{Status: QuoteStatusPending},
			wantFields: map[string]string{
				"design":         MsgQuoteNeedsDesign,
				"catalog_design": MsgQuoteNeedsCatalogDesign,
			},
		},
		{
			name: "both references",
			quote: Quote{
				DesignID:        uintPtr(1),
				CatalogDesignID: uintPtr(2),
				Status:          QuoteStatusPending,
			},
			wantFields: map[string]string{
				"design":         MsgQuoteBothReferences,
				"catalog_design": MsgQuoteBothReferences,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.quote.Validate()
			if tc.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			validationErr, ok := types.AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.Equal(t, tc.wantFields, validationErr.Fields)
		})
	}
}

func TestQuoteValidate_StatusAndPrice(t *testing.T) {
	negative := decimal.NewFromInt(-5)

	err := (&Quote{DesignID: uintPtr(1), Status: "archived"}).Validate()
	validationErr, ok := types.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validationErr.Fields, "status")

	err = (&Quote{DesignID: uintPtr(1), Status: QuoteStatusPending, Price: &negative}).Validate()
	validationErr, ok = types.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validationErr.Fields, "price")
}

func TestQuoteBeforeSave_DefaultsToPending(t *testing.T) {
	quote := Quote{DesignID: uintPtr(3)}
	require.NoError(t, quote.BeforeSave(nil))
	assert.Equal(t, QuoteStatusPending, quote.Status)
}

func TestQuoteReferenceHelpers(t *testing.T) {
	design := Quote{
		DesignID: uintPtr(7),
		Design:   &HouseDesign{Title: "Lake House", Description: "Two storeys"},
	}
	assert.Equal(t, "Lake House", design.ReferenceName())
	assert.Equal(t, "Two storeys", design.ReferenceDescription())
	assert.Equal(t, "HD-0007", design.ReferenceCode())
	assert.False(t, design.IsCatalogSource())

	catalog := Quote{
		CatalogDesignID: uintPtr(12),
		CatalogDesign:   &CatalogDesign{Name: "Nordic Barn", Concept: "Open plan"},
	}
	assert.Equal(t, "Nordic Barn", catalog.ReferenceName())
	assert.Equal(t, "Open plan", catalog.ReferenceDescription())
	assert.Equal(t, "CAT-0012", catalog.ReferenceCode())
	assert.True(t, catalog.IsCatalogSource())

	empty := Quote{}
	assert.Equal(t, UnnamedDesign, empty.ReferenceName())
	assert.Equal(t, "", empty.ReferenceDescription())
	assert.Equal(t, "N/A", empty.ReferenceCode())
}
