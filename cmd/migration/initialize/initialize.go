package initialize

import (
	"errors"
	"strings"

	"housemanagement/config"
	. "housemanagement/internal/models"
	"housemanagement/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeAdmin(db, config, log); err != nil {
		return log.Err("failed to initialize admin", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeAdmin creates the bootstrap superuser when ADMIN_USERNAME and
// ADMIN_PASSWORD are set and no such user exists yet.
func initializeAdmin(db *gorm.DB, config config.Config, log logger.Logger) error {
	username := strings.TrimSpace(config.AdminUsername)
	if username == "" || config.AdminPassword == "" {
		log.Info("No bootstrap admin configured")
		return nil
	}

	var existing User
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		log.Debug("Admin already exists", "username", username)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return log.Err("failed to look up admin", err, "username", username)
	}

	hash, err := services.HashPassword(config.AdminPassword)
	if err != nil {
		return log.Err("failed to hash admin password", err)
	}

	admin := &User{
		Username:     username,
		Email:        strings.TrimSpace(config.AdminEmail),
		FirstName:    "Admin",
		PasswordHash: hash,
		IsStaff:      true,
		IsSuperuser:  true,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return log.Err("failed to create admin", err, "username", username)
	}

	log.Info("Bootstrap admin created", "username", username)
	return nil
}
