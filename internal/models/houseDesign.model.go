package models

import (
	"strings"

	"gorm.io/gorm"
)

type HouseDesign struct {
	BaseModel
	Title       string `gorm:"type:text;not null"                            json:"title"`
	Description string `gorm:"type:text"                                     json:"description"`
	OwnerID     uint   `gorm:"not null;index"                                json:"ownerId"`
	Owner       *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	CoverImage  string `gorm:"type:text"                                     json:"coverImage,omitempty"`
	FloorPlan   string `gorm:"type:text"                                     json:"floorPlan,omitempty"`
}

func (d *HouseDesign) BeforeSave(tx *gorm.DB) error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" || d.OwnerID == 0 {
		return gorm.ErrInvalidValue
	}
	return nil
}
