package models

import (
	"github.com/shopspring/decimal"
)

type MaterialGrade string

const (
	MaterialGradeEconomy  MaterialGrade = "economy"
	MaterialGradeStandard MaterialGrade = "standard"
	MaterialGradeLuxury   MaterialGrade = "luxury"
)

// ParseMaterialGrade falls back to standard for unknown values.
func ParseMaterialGrade(value string) MaterialGrade {
	switch grade := MaterialGrade(value); grade {
	case MaterialGradeEconomy, MaterialGradeStandard, MaterialGradeLuxury:
		return grade
	}
	return MaterialGradeStandard
}

type EstimateInquiry struct {
	BaseModel
	UserID        *uint           `gorm:"index"                           json:"userId"`
	User          *User           `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Name          string          `gorm:"type:text;not null"              json:"name"`
	Phone         string          `gorm:"type:text;not null"              json:"phone"`
	Email         string          `gorm:"type:text;not null"              json:"email"`
	LandSize      int             `gorm:"not null;default:0"              json:"landSize"`
	HouseSize     int             `gorm:"not null;default:0"              json:"houseSize"`
	MaterialGrade MaterialGrade   `gorm:"type:text;not null;default:standard" json:"materialGrade"`
	Floors        int             `gorm:"not null;default:0"              json:"floors"`
	EstimateMin   decimal.Decimal `gorm:"type:numeric(14,2);not null"     json:"estimateMin"`
	EstimateMax   decimal.Decimal `gorm:"type:numeric(14,2);not null"     json:"estimateMax"`
	Notes         string          `gorm:"type:text"                       json:"notes"`
	IsHandled     bool            `gorm:"type:bool;default:false;index"   json:"isHandled"`
}
