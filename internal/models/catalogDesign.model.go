package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DesignStyle string

const (
	DesignStyleModern       DesignStyle = "modern"
	DesignStyleNordic       DesignStyle = "nordic"
	DesignStyleContemporary DesignStyle = "contemporary"
	DesignStyleLuxury       DesignStyle = "luxury"
	DesignStyleTropical     DesignStyle = "tropical"
	DesignStyleOther        DesignStyle = "other"
)

var DesignStyles = []DesignStyle{
	DesignStyleModern,
	DesignStyleNordic,
	DesignStyleContemporary,
	DesignStyleLuxury,
	DesignStyleTropical,
	DesignStyleOther,
}

func (s DesignStyle) IsValid() bool {
	for _, style := range DesignStyles {
		if s == style {
			return true
		}
	}
	return false
}

const newArrivalWindow = 30 * 24 * time.Hour

type CatalogDesign struct {
	BaseModel
	Name           string               `gorm:"type:text;not null"           json:"name"`
	Slug           string               `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	Concept        string               `gorm:"type:text"                    json:"concept"`
	BasePrice      decimal.Decimal      `gorm:"type:numeric(14,2);not null"  json:"basePrice"`
	AreaSqm        decimal.Decimal      `gorm:"type:numeric(10,2);not null"  json:"areaSqm"`
	Bedrooms       int                  `gorm:"not null;default:0"           json:"bedrooms"`
	Bathrooms      int                  `gorm:"not null;default:0"           json:"bathrooms"`
	Dimensions     string               `gorm:"type:text"                    json:"dimensions"`
	Style          DesignStyle          `gorm:"type:text;not null;default:modern" json:"style"`
	CoverImage     string               `gorm:"type:text"                    json:"coverImage,omitempty"`
	FloorPlanImage string               `gorm:"type:text"                    json:"floorPlanImage,omitempty"`
	IsFeatured     bool                 `gorm:"type:bool;default:false"      json:"isFeatured"`
	Images         []CatalogDesignImage `gorm:"foreignKey:CatalogDesignID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	QuotesCount    int64                `gorm:"->;-:migration"               json:"quotesCount"`
}

type CatalogDesignImage struct {
	BaseModel
	CatalogDesignID uint   `gorm:"not null;index"          json:"catalogDesignId"`
	Image           string `gorm:"type:text;not null"      json:"image"`
	Caption         string `gorm:"type:text"               json:"caption"`
	SortOrder       int    `gorm:"not null;default:0"      json:"sortOrder"`
}

func (d *CatalogDesign) BeforeSave(tx *gorm.DB) error {
	if d.Style == "" {
		d.Style = DesignStyleModern
	}
	if !d.Style.IsValid() || d.Slug == "" {
		return gorm.ErrInvalidValue
	}
	if d.BasePrice.IsNegative() || d.AreaSqm.IsNegative() || d.Bedrooms < 0 || d.Bathrooms < 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

// BadgeLabel is "Best Seller" for featured designs and "New Arrival" for recent ones.
func (d *CatalogDesign) BadgeLabel(now time.Time) string {
	if d.IsFeatured {
		return "Best Seller"
	}
	if !d.CreatedAt.IsZero() && now.Sub(d.CreatedAt) <= newArrivalWindow {
		return "New Arrival"
	}
	return ""
}
