package seed

import (
	"errors"

	"housemanagement/config"
	. "housemanagement/internal/models"
	"housemanagement/internal/services"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const samplePassword = "password123"

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data")

	if err := seedUsers(db, log); err != nil {
		return err
	}

	if err := seedCatalog(db, log); err != nil {
		return err
	}

	log.Info("Seed complete")
	return nil
}

func seedUsers(db *gorm.DB, log logger.Logger) error {
	hash, err := services.HashPassword(samplePassword)
	if err != nil {
		return log.Err("failed to hash sample password", err)
	}

	users := []User{
		{
			Username:     "staff",
			Email:        "staff@example.com",
			FirstName:    "สมศรี",
			LastName:     "ใจดี",
			IsStaff:      true,
			IsActive:     true,
			PasswordHash: hash,
		},
		{
			Username:     "customer",
			Email:        "customer@example.com",
			FirstName:    "สมชาย",
			LastName:     "รักบ้าน",
			IsActive:     true,
			PasswordHash: hash,
			Profile: &Profile{
				Phone:   "081-234-5678",
				Address: "99/1 หมู่ 3 ตำบลบางพูด อำเภอปากเกร็ด นนทบุรี 11120",
			},
		},
	}

	for i := range users {
		user := &users[i]
		var existing User
		err := db.Where("username = ?", user.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("failed to look up user", err, "username", user.Username)
		}
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to create user", err, "username", user.Username)
		}
	}

	log.Info("Sample users seeded", "count", len(users))
	return nil
}

func seedCatalog(db *gorm.DB, log logger.Logger) error {
	designs := []CatalogDesign{
		{
			Name:       "Nordic Barn",
			Concept:    "บ้านสไตล์นอร์ดิกหลังคาจั่วสูง โปร่งโล่ง รับแสงธรรมชาติ",
			BasePrice:  decimal.NewFromInt(2_450_000),
			AreaSqm:    decimal.NewFromInt(145),
			Bedrooms:   3,
			Bathrooms:  2,
			Dimensions: "10 x 12 m",
			Style:      DesignStyleNordic,
			IsFeatured: true,
		},
		{
			Name:       "Tropical Courtyard",
			Concept:    "บ้านชั้นเดียวล้อมคอร์ทกลางบ้าน ระบายอากาศดี เหมาะกับอากาศร้อนชื้น",
			BasePrice:  decimal.NewFromInt(3_200_000),
			AreaSqm:    decimal.NewFromInt(180),
			Bedrooms:   3,
			Bathrooms:  3,
			Dimensions: "14 x 15 m",
			Style:      DesignStyleTropical,
		},
		{
			Name:       "Modern Loft",
			Concept:    "บ้านสองชั้นทรงกล่อง ผนังกระจกบานใหญ่ ชั้นบนเป็นห้องทำงาน",
			BasePrice:  decimal.NewFromInt(4_750_000),
			AreaSqm:    decimal.NewFromInt(220),
			Bedrooms:   4,
			Bathrooms:  3,
			Dimensions: "12 x 16 m",
			Style:      DesignStyleModern,
			IsFeatured: true,
		},
		{
			Name:       "Luxury Pool Villa",
			Concept:    "บ้านหรูสองชั้นพร้อมสระว่ายน้ำและโรงจอดรถสามคัน",
			BasePrice:  decimal.NewFromInt(9_800_000),
			AreaSqm:    decimal.NewFromInt(410),
			Bedrooms:   5,
			Bathrooms:  6,
			Dimensions: "20 x 24 m",
			Style:      DesignStyleLuxury,
		},
	}

	for i := range designs {
		design := &designs[i]
		design.Slug = utils.Slugify(design.Name)

		var count int64
		if err := db.Model(&CatalogDesign{}).Where("slug = ?", design.Slug).Count(&count).Error; err != nil {
			return log.Err("failed to check catalog design", err, "slug", design.Slug)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(design).Error; err != nil {
			return log.Err("failed to create catalog design", err, "slug", design.Slug)
		}
	}

	log.Info("Catalog seeded", "count", len(designs))
	return nil
}
