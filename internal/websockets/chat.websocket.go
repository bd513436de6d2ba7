package websockets

import (
	"housemanagement/internal/events"
)

// handleChatEvent pushes a chat message to the conversation's customer and
// to every connected staff member.
func (m *Manager) handleChatEvent(event events.Event) {
	log := m.log.Function("handleChatEvent")

	if event.Type != events.CHAT_MESSAGE_CREATED {
		return
	}

	payload, err := events.DecodeChatMessage(event)
	if err != nil {
		log.Er("failed to decode chat event", err, "eventID", event.ID)
		return
	}

	message := newMessage(MESSAGE_TYPE_CHAT_MESSAGE, CHAT_CHANNEL, "created", event.Data)
	message.UserID = payload.SenderID

	sent := m.deliver(message, func(client *Client) bool {
		return client.IsStaff || client.UserID == payload.CustomerID
	})

	log.Debug(
		"Chat message delivered",
		"conversationID", payload.ConversationID,
		"messageID", payload.MessageID,
		"clients", sent,
	)
}
