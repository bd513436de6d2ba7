package events

import (
	"encoding/json"

	"housemanagement/internal/models"
)

// ProgressUpdateCreated carries the update with its project and owner loaded.
type ProgressUpdateCreated struct {
	Project *models.ConstructionProject
	Update  *models.ProgressUpdate
}

// ChatMessageCreated is what chat fan-out listeners need to route a message.
type ChatMessageCreated struct {
	ConversationID uint   `json:"conversationId"`
	CustomerID     uint   `json:"customerId"`
	MessageID      uint   `json:"messageId"`
	SenderID       uint   `json:"senderId"`
	SenderName     string `json:"senderName"`
	Content        string `json:"content"`
	IsFromAdmin    bool   `json:"isFromAdmin"`
}

// Data flattens the payload for the fan-out channel.
func (m ChatMessageCreated) Data() map[string]any {
	return map[string]any{
		"conversationId": m.ConversationID,
		"customerId":     m.CustomerID,
		"messageId":      m.MessageID,
		"senderId":       m.SenderID,
		"senderName":     m.SenderName,
		"content":        m.Content,
		"isFromAdmin":    m.IsFromAdmin,
	}
}

// DecodeChatMessage reads the payload back from an event that may have
// crossed the fan-out channel.
func DecodeChatMessage(event Event) (ChatMessageCreated, error) {
	var message ChatMessageCreated
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return message, err
	}
	err = json.Unmarshal(raw, &message)
	return message, err
}
