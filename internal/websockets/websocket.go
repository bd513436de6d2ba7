package websockets

import (
	"context"
	"time"

	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_AUTH_REQUEST  = "auth_request"
	MESSAGE_TYPE_AUTH_RESPONSE = "auth_response"
	MESSAGE_TYPE_AUTH_SUCCESS  = "auth_success"
	MESSAGE_TYPE_AUTH_FAILURE  = "auth_failure"
	MESSAGE_TYPE_CHAT_MESSAGE  = "chat.message"
	MESSAGE_TYPE_ERROR         = "error"
	PING_INTERVAL              = 30 * time.Second
	PONG_TIMEOUT               = 60 * time.Second
	WRITE_TIMEOUT              = 10 * time.Second
	AUTH_HANDSHAKE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE           = 64 * 1024
	SEND_CHANNEL_SIZE          = 64
	SYSTEM_CHANNEL             = "system"
	CHAT_CHANNEL               = "chat"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    uint           `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func newMessage(messageType, channel, action string, data map[string]any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      messageType,
		Channel:   channel,
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Client is one socket. UserID and IsStaff are set once the first frame
// authenticates and are read by the hub under its mutex.
type Client struct {
	ID         string
	UserID     uint
	IsStaff    bool
	Status     int
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

type Manager struct {
	hub         *Hub
	db          database.DB
	config      config.Config
	log         logger.Logger
	eventBus    *events.EventBus
	authService *services.AuthService
	userRepo    repositories.UserRepository
	ctx         context.Context
	cancel      context.CancelFunc
	done        chan struct{}
}

// New starts the hub and subscribes to the chat fan-out channel.
func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	authService *services.AuthService,
	repos repositories.Repository,
) (*Manager, error) {
	log := logger.New("websockets")
	ctx, cancel := context.WithCancel(context.Background())

	manager := &Manager{
		hub:         newHub(),
		db:          db,
		config:      config,
		log:         log,
		eventBus:    eventBus,
		authService: authService,
		userRepo:    repos.User,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	log.Function("New").Info("Starting websocket hub")
	go func() {
		defer close(manager.done)
		manager.hub.run(ctx, manager)
	}()

	eventBus.Listen(events.CHAT_CHANNEL, manager.handleChatEvent)

	return manager, nil
}

func (m *Manager) Close() {
	m.cancel()
	<-m.done
	m.log.Function("Close").Info("Websocket hub stopped")
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		_ = c.Close()
		return
	}

	m.hub.register <- client
	defer func() {
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Debug("connection already closed", "clientID", client.ID)
		}
	}()

	go client.writePump()
	client.readPump()
}

// readPump returns when the socket fails or the client sends bad auth.
func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(AUTH_HANDSHAKE_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		if !c.routeMessage(message) {
			return
		}
	}
}

// routeMessage reports whether the connection should stay open.
func (c *Client) routeMessage(message Message) bool {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == MESSAGE_TYPE_AUTH_RESPONSE {
		return c.handleAuthResponse(message)
	}

	if !c.Manager.hub.isAuthenticated(c) {
		c.queue(newMessage(
			MESSAGE_TYPE_AUTH_FAILURE,
			SYSTEM_CHANNEL,
			"authentication_required",
			map[string]any{"reason": "Authentication required"},
		))
		return false
	}

	log.Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
	return true
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queue drops the message when the client's buffer is full.
func (c *Client) queue(message Message) bool {
	select {
	case c.send <- message:
		return true
	default:
		c.Manager.log.Function("queue").Warn("Client send channel full, dropping message", "clientID", c.ID)
		return false
	}
}
