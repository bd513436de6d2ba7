// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"housemanagement/internal/database"
	"housemanagement/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var sequence atomic.Int64

// NewTestDB opens a private in-memory SQLite database with every table
// migrated. A single connection keeps the memory database alive.
func NewTestDB(t *testing.T) database.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.DB{SQL: db}
}

func next() int64 {
	return sequence.Add(1)
}

type UserOption func(*models.User)

func Superuser(u *models.User) {
	u.IsSuperuser = true
	u.IsStaff = true
}

func Staff(u *models.User) {
	u.IsStaff = true
}

func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

func CreateUser(t *testing.T, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	n := next()
	user := &models.User{
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", n),
		IsActive:  true,
	}
	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateDesign(t *testing.T, db *gorm.DB, owner *models.User) *models.HouseDesign {
	t.Helper()

	design := &models.HouseDesign{
		Title:       fmt.Sprintf("Design %d", next()),
		Description: "Two storey family home",
		OwnerID:     owner.ID,
	}
	require.NoError(t, db.Create(design).Error)
	design.Owner = owner
	return design
}

func CreateCatalogDesign(t *testing.T, db *gorm.DB, name string, price int64) *models.CatalogDesign {
	t.Helper()

	design := &models.CatalogDesign{
		Name:      name,
		Slug:      fmt.Sprintf("catalog-%d", next()),
		Concept:   "Open plan living",
		BasePrice: decimal.NewFromInt(price),
		AreaSqm:   decimal.NewFromInt(180),
		Bedrooms:  3,
		Bathrooms: 2,
		Style:     models.DesignStyleModern,
	}
	require.NoError(t, db.Create(design).Error)
	return design
}

func CreateQuote(
	t *testing.T,
	db *gorm.DB,
	design *models.HouseDesign,
	requester *models.User,
	status models.QuoteStatus,
) *models.Quote {
	t.Helper()

	price := decimal.NewFromInt(1_000_000)
	quote := &models.Quote{
		DesignID:      &design.ID,
		RequestedByID: requester.ID,
		Price:         &price,
		Status:        status,
	}
	require.NoError(t, db.Omit("Design", "CatalogDesign", "RequestedBy").Create(quote).Error)
	return quote
}

func CreateProject(
	t *testing.T,
	db *gorm.DB,
	owner *models.User,
	quote *models.Quote,
) *models.ConstructionProject {
	t.Helper()

	project := &models.ConstructionProject{
		Name:          fmt.Sprintf("Project %d", next()),
		OwnerID:       owner.ID,
		TotalProgress: 25,
	}
	if quote != nil {
		project.QuoteID = &quote.ID
	}
	require.NoError(t, db.Omit("Quote", "Owner", "Updates").Create(project).Error)
	return project
}
