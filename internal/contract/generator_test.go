package contract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"housemanagement/internal/models"
	"housemanagement/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeEngine struct {
	name  string
	pdf   []byte
	err   error
	calls int
	doc   Document
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Render(_ context.Context, doc Document) ([]byte, error) {
	f.calls++
	f.doc = doc
	return f.pdf, f.err
}

var testCompany = Company{
	Name:    "บริษัท ทดสอบ จำกัด",
	Address: "1 ถนนทดสอบ",
	Phone:   "02-000-0000",
	Email:   "contact@example.com",
}

func testQuote() *models.Quote {
	designID := uint(7)
	price := decimal.NewFromInt(3000000)
	return &models.Quote{
		BaseModel: models.BaseModel{ID: 42},
		DesignID:  &designID,
		Design: &models.HouseDesign{
			BaseModel:   models.BaseModel{ID: designID},
			Title:       "Garden House",
			Description: "Two storeys",
			Owner:       &models.User{Username: "architect", FirstName: "Somchai", LastName: "Dee"},
		},
		RequestedBy: &models.User{
			Username: "client",
			Email:    "client@example.com",
			Profile:  &models.Profile{Address: "99 Sukhumvit", Phone: "081-111-1111"},
		},
		Price:  &price,
		Status: models.QuoteStatusApproved,
	}
}

func TestGenerator_FallsBackPastUnavailableEngines(t *testing.T) {
	primary := &fakeEngine{name: "chromium", err: ErrEngineUnavailable}
	secondary := &fakeEngine{name: "fpdf", pdf: []byte("%PDF-fake")}
	generator := NewGeneratorWithEngines([]Engine{primary, secondary}, mapFinder{}, testCompany)

	contract, err := generator.Generate(context.Background(), testQuote())
	require.NoError(t, err)

	assert.Equal(t, "contract_quote_42.pdf", contract.Filename)
	assert.Equal(t, []byte("%PDF-fake"), contract.PDF)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestGenerator_NoEngineIsConfigurationError(t *testing.T) {
	engines := []Engine{
		&fakeEngine{name: "chromium", err: ErrEngineUnavailable},
		&fakeEngine{name: "fpdf", err: ErrEngineUnavailable},
	}
	generator := NewGeneratorWithEngines(engines, mapFinder{}, testCompany)

	_, err := generator.Generate(context.Background(), testQuote())
	require.Error(t, err)

	configErr, ok := types.AsConfigurationError(err)
	require.True(t, ok)
	assert.Equal(t, MsgNoEngine, configErr.Message)
	assert.Contains(t, configErr.Message, "Chromium")
	assert.Contains(t, configErr.Message, "fpdf")

	_, err = NewGeneratorWithEngines(nil, mapFinder{}, testCompany).Generate(context.Background(), testQuote())
	_, ok = types.AsConfigurationError(err)
	assert.True(t, ok)
}

func TestGenerator_RenderFailureStopsChain(t *testing.T) {
	primary := &fakeEngine{name: "chromium", err: errors.New("print failed")}
	secondary := &fakeEngine{name: "fpdf", pdf: []byte("%PDF")}
	generator := NewGeneratorWithEngines([]Engine{primary, secondary}, mapFinder{}, testCompany)

	_, err := generator.Generate(context.Background(), testQuote())

	configErr, ok := types.AsConfigurationError(err)
	require.True(t, ok)
	assert.Equal(t, MsgRenderFailed, configErr.Message)
	assert.Equal(t, 0, secondary.calls)
}

func TestGenerator_DocumentContents(t *testing.T) {
	engine := &fakeEngine{name: "fake", pdf: []byte("%PDF")}
	generator := NewGeneratorWithEngines([]Engine{engine}, mapFinder{}, testCompany)
	generator.now = func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }

	_, err := generator.Generate(context.Background(), testQuote())
	require.NoError(t, err)

	doc := engine.doc
	assert.Equal(t, DefaultBodyFamily, doc.Fonts.BodyFamily)
	assert.NotContains(t, doc.HTML, BodyFontPlaceholder)
	assert.Contains(t, doc.HTML, `font-family: "Helvetica"`)
	assert.Contains(t, doc.HTML, "Garden House")
	assert.Contains(t, doc.HTML, "HD-0007")
	assert.Contains(t, doc.HTML, "09/03/2026")
	assert.Contains(t, doc.HTML, "3,000,000.00")
	assert.Contains(t, doc.HTML, "900,000.00")
	assert.Contains(t, doc.HTML, "1,200,000.00")

	assert.Equal(t, "Somchai Dee", doc.Data.Designer)
	assert.Equal(t, "client", doc.Data.ClientName)
	assert.Equal(t, "99 Sukhumvit", doc.Data.ClientAddress)
	assert.Equal(t, "081-111-1111", doc.Data.ClientPhone)
	assert.False(t, doc.Data.IsCatalogDesign)
}

func TestBuildData_CatalogQuoteWithoutPrice(t *testing.T) {
	catalogID := uint(3)
	quote := &models.Quote{
		BaseModel:       models.BaseModel{ID: 5},
		CatalogDesignID: &catalogID,
		CatalogDesign:   &models.CatalogDesign{Name: "Nordic Loft", Concept: "Light timber"},
		RequestedBy:     &models.User{Username: "buyer"},
		Status:          models.QuoteStatusDraft,
	}

	data := BuildData(quote, testCompany, time.Now())

	assert.True(t, data.IsCatalogDesign)
	assert.Equal(t, DefaultDesigner, data.Designer)
	assert.Equal(t, "Nordic Loft", data.DesignTitle)
	assert.Equal(t, "CAT-0003", data.DesignCode)
	assert.False(t, data.HasPrice)
	assert.True(t, data.TotalPrice.IsZero())
	for _, installment := range data.Installments {
		assert.Nil(t, installment.Amount)
	}
}

func TestFPDFEngine_RendersWithCoreFont(t *testing.T) {
	data := BuildData(testQuote(), testCompany, time.Now())
	fonts := ResolveFontSet(nil, nil, mapFinder{})

	pdf, err := NewFPDFEngine().Render(context.Background(), Document{Data: data, Fonts: fonts})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestChromiumEngine_MissingBinaryIsUnavailable(t *testing.T) {
	engine := NewChromiumEngine("")
	engine.lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := engine.Render(context.Background(), Document{})
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}
