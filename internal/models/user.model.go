package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	BaseModel
	Username     string     `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:text;index"                json:"email"`
	FirstName    string     `gorm:"type:text"                      json:"firstName"`
	LastName     string     `gorm:"type:text"                      json:"lastName"`
	FullName     string     `gorm:"type:text"                      json:"fullName"`
	PasswordHash string     `gorm:"type:text"                      json:"-"`
	IsStaff      bool       `gorm:"type:bool;default:false"        json:"isStaff"`
	IsSuperuser  bool       `gorm:"type:bool;default:false"        json:"isSuperuser"`
	IsActive     bool       `gorm:"type:bool;default:true"         json:"isActive"`
	LastLoginAt  *time.Time `                                      json:"lastLoginAt,omitempty"`
	Profile      *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// Profile holds optional contact details used on contracts and data exports.
type Profile struct {
	BaseModel
	UserID     uint   `gorm:"uniqueIndex;not null" json:"userId"`
	Phone      string `gorm:"type:text"            json:"phone"`
	Address    string `gorm:"type:text"            json:"address"`
	NationalID string `gorm:"type:text"            json:"nationalId"`
	TaxID      string `gorm:"type:text"            json:"taxId"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	if strings.TrimSpace(u.Username) == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

// DisplayName falls back to the username when no name is set.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// CanSeeEverything reports cross-tenant visibility for owned records.
func (u *User) CanSeeEverything() bool {
	return u != nil && u.IsSuperuser
}

// CanSeeAllConversations covers the staff inbox and every chat room.
func (u *User) CanSeeAllConversations() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

func (u *User) HasEmail() bool {
	return u != nil && strings.TrimSpace(u.Email) != ""
}

type UserResponse struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	IsStaff     bool       `json:"isStaff"`
	IsSuperuser bool       `json:"isSuperuser"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	Profile     *Profile   `json:"profile,omitempty"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.DisplayName(),
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		LastLoginAt: u.LastLoginAt,
		Profile:     u.Profile,
	}
}
