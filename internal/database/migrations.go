package database

import (
	"housemanagement/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Profile{},
		&models.HouseDesign{},
		&models.CatalogDesign{},
		&models.CatalogDesignImage{},
		&models.Quote{},
		&models.ConstructionProject{},
		&models.ProgressUpdate{},
		&models.Conversation{},
		&models.Message{},
		&models.EstimateInquiry{},
	}
}

// AutoMigrate creates tables first and adds constraints in a second pass.
func AutoMigrate(db *gorm.DB) error {
	log := logger.New("database").Function("AutoMigrate")

	log.Info("Phase 1: Creating tables without foreign key constraints")
	db.Config.DisableForeignKeyConstraintWhenMigrating = true
	for _, table := range Models() {
		if !db.Migrator().HasTable(table) {
			if err := db.Migrator().CreateTable(table); err != nil {
				return log.Err("failed to create table structure", err)
			}
		}
	}

	db.Config.DisableForeignKeyConstraintWhenMigrating = false
	log.Info("Phase 2: Adding foreign key constraints and relationships")
	if err := db.AutoMigrate(Models()...); err != nil {
		return log.Err("failed to add constraints", err)
	}

	return nil
}

// CreateIndexes adds indexes AutoMigrate cannot express.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(conversation_id, sender_id) WHERE is_read = false",
		"CREATE INDEX IF NOT EXISTS idx_estimate_inquiries_pending ON estimate_inquiries(created_at) WHERE is_handled = false",
		"CREATE INDEX IF NOT EXISTS idx_catalog_designs_featured_name ON catalog_designs(is_featured DESC, name)",
		"CREATE INDEX IF NOT EXISTS idx_catalog_designs_name_trgm ON catalog_designs USING gin (name gin_trgm_ops)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	return nil
}
