package models

type Conversation struct {
	BaseModel
	ProjectID   uint                 `gorm:"not null;uniqueIndex"                                  json:"projectId"`
	Project     *ConstructionProject `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"      json:"project,omitempty"`
	CustomerID  uint                 `gorm:"not null;index"                                        json:"customerId"`
	Customer    *User                `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"     json:"customer,omitempty"`
	Messages    []Message            `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	UnreadCount int64                `gorm:"->;-:migration"                                        json:"unreadCount"`
}

type Message struct {
	BaseModel
	ConversationID uint   `gorm:"not null;index"                                  json:"conversationId"`
	SenderID       uint   `gorm:"not null;index"                                  json:"senderId"`
	Sender         *User  `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Content        string `gorm:"type:text;not null"                              json:"content"`
	IsRead         bool   `gorm:"type:bool;default:false;index"                   json:"isRead"`
}

// IsFromAdmin reports whether the sender is a staff member.
func (m *Message) IsFromAdmin() bool {
	return m.Sender != nil && m.Sender.CanSeeAllConversations()
}
