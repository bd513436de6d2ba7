package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConstructionProject struct {
	BaseModel
	Name            string           `gorm:"type:text;not null"                              json:"name"`
	QuoteID         *uint            `gorm:"uniqueIndex"                                     json:"quoteId"`
	Quote           *Quote           `gorm:"foreignKey:QuoteID;constraint:OnDelete:SET NULL" json:"quote,omitempty"`
	OwnerID         uint             `gorm:"not null;index"                                  json:"ownerId"`
	Owner           *User            `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"  json:"owner,omitempty"`
	StartDate       *datatypes.Date  `                                                       json:"startDate"`
	ExpectedEndDate *datatypes.Date  `                                                       json:"expectedEndDate"`
	TotalProgress   int              `gorm:"not null;default:0"                              json:"totalProgress"`
	Updates         []ProgressUpdate `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"updates,omitempty"`
}

func ValidProgress(progress int) bool {
	return progress >= 0 && progress <= 100
}

func (p *ConstructionProject) BeforeSave(tx *gorm.DB) error {
	if !ValidProgress(p.TotalProgress) || p.OwnerID == 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}

type ProgressUpdate struct {
	BaseModel
	ProjectID   uint                 `gorm:"not null;index"                                   json:"projectId"`
	Project     *ConstructionProject `gorm:"foreignKey:ProjectID"                             json:"project,omitempty"`
	StageName   string               `gorm:"type:text;not null"                               json:"stageName"`
	Description string               `gorm:"type:text"                                        json:"description"`
	SiteImage   string               `gorm:"type:text"                                        json:"siteImage,omitempty"`
	UpdateDate  datatypes.Date       `gorm:"not null"                                         json:"updateDate"`
}

func (u *ProgressUpdate) BeforeCreate(tx *gorm.DB) error {
	if time.Time(u.UpdateDate).IsZero() {
		u.UpdateDate = Today()
	}
	return nil
}

// Today truncates the current local time to a calendar date.
func Today() datatypes.Date {
	return datatypes.Date(time.Now())
}
