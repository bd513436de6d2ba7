package websockets

import (
	"time"
)

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	request := newMessage(MESSAGE_TYPE_AUTH_REQUEST, SYSTEM_CHANNEL, "authenticate", nil)
	if err := c.Connection.WriteJSON(request); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}
	return nil
}

// handleAuthResponse validates the bearer token carried in data.token.
// A failure is reported to the client and closes the connection.
func (c *Client) handleAuthResponse(message Message) bool {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Manager.hub.isAuthenticated(c) {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return true
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		c.sendAuthFailure("Invalid token format")
		return false
	}

	userID, err := c.Manager.authService.ParseToken(token)
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return false
	}

	user, err := c.Manager.userRepo.GetByID(c.Manager.ctx, c.Manager.db.SQL, userID)
	if err != nil || !user.IsActive {
		log.Info("WebSocket user not found", "clientID", c.ID, "userID", userID)
		c.sendAuthFailure("User not found")
		return false
	}

	c.Manager.hub.authenticate(c, user.ID, user.CanSeeAllConversations())
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to extend read deadline", err, "clientID", c.ID)
	}

	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", user.ID)

	success := newMessage(
		MESSAGE_TYPE_AUTH_SUCCESS,
		SYSTEM_CHANNEL,
		"authenticated",
		map[string]any{"userId": user.ID, "isStaff": user.CanSeeAllConversations()},
	)
	success.UserID = user.ID
	c.queue(success)
	return true
}

func (c *Client) sendAuthFailure(reason string) {
	c.queue(newMessage(
		MESSAGE_TYPE_AUTH_FAILURE,
		SYSTEM_CHANNEL,
		"authentication_failed",
		map[string]any{"reason": reason},
	))
	c.Manager.log.Function("sendAuthFailure").
		Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)
}
