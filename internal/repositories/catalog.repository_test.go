package repositories_test

import (
	"context"
	"regexp"
	"testing"

	"housemanagement/internal/models"
	"housemanagement/internal/repositories"
	"housemanagement/internal/testutil"
	"housemanagement/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogDesign(name string, price int64, area int64, style models.DesignStyle) *models.CatalogDesign {
	return &models.CatalogDesign{
		Name:      name,
		Concept:   name + " concept",
		BasePrice: decimal.NewFromInt(price),
		AreaSqm:   decimal.NewFromInt(area),
		Bedrooms:  3,
		Bathrooms: 2,
		Style:     style,
	}
}

func TestCatalogRepository_SlugGeneration(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repositories.NewCatalogRepository()

	first := newCatalogDesign("Modern Villa", 5_000_000, 200, models.DesignStyleModern)
	require.NoError(t, repo.Create(ctx, db.SQL, first))
	assert.Equal(t, "modern-villa", first.Slug)

	second := newCatalogDesign("Modern Villa", 6_000_000, 220, models.DesignStyleModern)
	require.NoError(t, repo.Create(ctx, db.SQL, second))
	assert.Equal(t, "modern-villa-2", second.Slug)

	third := newCatalogDesign("Modern  Villa!", 6_000_000, 220, models.DesignStyleModern)
	require.NoError(t, repo.Create(ctx, db.SQL, third))
	assert.Equal(t, "modern-villa-3", third.Slug)

	t.Run("empty name falls back to random token", func(t *testing.T) {
		design := newCatalogDesign("", 1_000_000, 100, models.DesignStyleOther)
		require.NoError(t, repo.Create(ctx, db.SQL, design))
		assert.Regexp(t, regexp.MustCompile(`^design-[0-9a-f]{8}$`), design.Slug)
	})

	t.Run("thai name falls back to random token", func(t *testing.T) {
		design := newCatalogDesign("บ้านสวย", 1_000_000, 100, models.DesignStyleTropical)
		require.NoError(t, repo.Create(ctx, db.SQL, design))
		assert.NotEmpty(t, design.Slug)
		assert.Regexp(t, regexp.MustCompile(`^design-[0-9a-f]{8}$`), design.Slug)
	})

	t.Run("update keeps own slug", func(t *testing.T) {
		first.Concept = "Updated"
		require.NoError(t, repo.Update(ctx, db.SQL, first, true))
		assert.Equal(t, "modern-villa", first.Slug)
	})

	t.Run("rename regenerates slug", func(t *testing.T) {
		second.Name = "Tropical Retreat"
		require.NoError(t, repo.Update(ctx, db.SQL, second, true))
		assert.Equal(t, "tropical-retreat", second.Slug)
	})
}

func TestCatalogRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repositories.NewCatalogRepository()

	designs := []*models.CatalogDesign{
		newCatalogDesign("Alpha Starter", 2_500_000, 120, models.DesignStyleModern),
		newCatalogDesign("Beta Family", 4_000_000, 180, models.DesignStyleNordic),
		newCatalogDesign("Gamma Estate", 8_000_000, 260, models.DesignStyleLuxury),
		newCatalogDesign("Delta Palace", 15_000_000, 400, models.DesignStyleLuxury),
	}
	designs[2].IsFeatured = true
	for _, d := range designs {
		require.NoError(t, repo.Create(ctx, db.SQL, d))
	}

	names := func(page *repositories.CatalogPage) []string {
		out := make([]string, 0, len(page.Designs))
		for _, d := range page.Designs {
			out = append(out, d.Name)
		}
		return out
	}

	five := decimal.NewFromInt(5_000_000)
	two := 2

	testCases := []struct {
		name     string
		filter   repositories.CatalogFilter
		expected []string
	}{
		{"default featured then name", repositories.CatalogFilter{}, []string{"Gamma Estate", "Alpha Starter", "Beta Family", "Delta Palace"}},
		{"free text", repositories.CatalogFilter{Query: "FAMILY"}, []string{"Beta Family"}},
		{"budget 3m", repositories.CatalogFilter{Budget: "3m"}, []string{"Alpha Starter"}},
		{"budget 3-5m", repositories.CatalogFilter{Budget: "3-5m"}, []string{"Beta Family"}},
		{"budget 5-10m", repositories.CatalogFilter{Budget: "5-10m"}, []string{"Gamma Estate"}},
		{"budget 10m+", repositories.CatalogFilter{Budget: "10m+"}, []string{"Delta Palace"}},
		{"area small", repositories.CatalogFilter{Area: "s"}, []string{"Alpha Starter"}},
		{"area medium", repositories.CatalogFilter{Area: "m"}, []string{"Beta Family"}},
		{"area large", repositories.CatalogFilter{Area: "l", Sort: repositories.SortPriceAsc}, []string{"Gamma Estate", "Delta Palace"}},
		{"style", repositories.CatalogFilter{Style: "luxury", Sort: repositories.SortPriceDesc}, []string{"Delta Palace", "Gamma Estate"}},
		{"unknown style ignored", repositories.CatalogFilter{Style: "gothic", Sort: repositories.SortPriceAsc}, []string{"Alpha Starter", "Beta Family", "Gamma Estate", "Delta Palace"}},
		{"price range", repositories.CatalogFilter{PriceMax: &five, Sort: repositories.SortPriceAsc}, []string{"Alpha Starter", "Beta Family"}},
		{"bedrooms minimum", repositories.CatalogFilter{Bedrooms: &two, Query: "alpha"}, []string{"Alpha Starter"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := repo.List(ctx, db.SQL, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, names(page))
			assert.Equal(t, int64(len(tc.expected)), page.Total)
		})
	}

	t.Run("popularity orders by quote count", func(t *testing.T) {
		customer := testutil.CreateUser(t, db.SQL)
		other := testutil.CreateUser(t, db.SQL)
		quotes := repositories.NewQuoteRepository()
		for _, user := range []*models.User{customer, other} {
			_, _, err := quotes.GetOrCreateForCatalog(ctx, db.SQL, user.ID, designs[3])
			require.NoError(t, err)
		}
		_, _, err := quotes.GetOrCreateForCatalog(ctx, db.SQL, customer.ID, designs[1])
		require.NoError(t, err)

		page, err := repo.List(ctx, db.SQL, repositories.CatalogFilter{Sort: repositories.SortPopularity})
		require.NoError(t, err)
		assert.Equal(t, []string{"Delta Palace", "Beta Family", "Alpha Starter", "Gamma Estate"}, names(page))
		assert.Equal(t, int64(2), page.Designs[0].QuotesCount)
	})

	t.Run("page past the end is not found", func(t *testing.T) {
		_, err := repo.List(ctx, db.SQL, repositories.CatalogFilter{Page: 3})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestCatalogRepository_DetailAndRelated(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	repo := repositories.NewCatalogRepository()

	main := newCatalogDesign("Luxe One", 9_000_000, 300, models.DesignStyleLuxury)
	require.NoError(t, repo.Create(ctx, db.SQL, main))
	for _, name := range []string{"Luxe Two", "Luxe Three", "Luxe Four", "Luxe Five"} {
		require.NoError(t, repo.Create(ctx, db.SQL, newCatalogDesign(name, 9_000_000, 300, models.DesignStyleLuxury)))
	}
	require.NoError(t, repo.Create(ctx, db.SQL, newCatalogDesign("Plain", 1_000_000, 90, models.DesignStyleModern)))

	require.NoError(t, repo.AddImage(ctx, db.SQL, &models.CatalogDesignImage{CatalogDesignID: main.ID, Image: "b.jpg", SortOrder: 2}))
	require.NoError(t, repo.AddImage(ctx, db.SQL, &models.CatalogDesignImage{CatalogDesignID: main.ID, Image: "a.jpg", SortOrder: 1}))

	detail, err := repo.GetBySlug(ctx, db.SQL, "luxe-one")
	require.NoError(t, err)
	require.Len(t, detail.Images, 2)
	assert.Equal(t, "a.jpg", detail.Images[0].Image)

	related, err := repo.Related(ctx, db.SQL, detail)
	require.NoError(t, err)
	assert.Len(t, related, repositories.CATALOG_RELATED_LIMIT)
	for _, r := range related {
		assert.NotEqual(t, main.ID, r.ID)
		assert.Equal(t, models.DesignStyleLuxury, r.Style)
	}

	_, err = repo.GetBySlug(ctx, db.SQL, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, db.SQL, main.ID))
	assert.ErrorIs(t, repo.Delete(ctx, db.SQL, main.ID), types.ErrNotFound)
}
