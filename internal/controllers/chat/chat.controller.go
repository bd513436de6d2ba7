package chatController

import (
	"context"
	"strings"

	"housemanagement/config"
	"housemanagement/internal/database"
	"housemanagement/internal/events"
	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/repositories"
	"housemanagement/internal/services"
	"housemanagement/internal/types"
	"housemanagement/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type SendMessageRequest struct {
	Content string `json:"content" form:"content"`
}

type ChatRoom struct {
	Conversation *Conversation `json:"conversation"`
	Messages     []Message     `json:"messages"`
}

type ChatControllerInterface interface {
	Inbox(ctx context.Context, user *User) ([]Conversation, error)
	OpenForProject(ctx context.Context, user *User, projectID uint) (*Conversation, error)
	Room(ctx context.Context, user *User, conversationID uint) (*ChatRoom, error)
	Messages(ctx context.Context, user *User, conversationID uint) ([]Message, error)
	Send(ctx context.Context, user *User, conversationID uint, request *SendMessageRequest) (*Message, error)
}

type ChatController struct {
	conversationRepo repositories.ConversationRepository
	projectRepo      repositories.ProjectRepository
	transaction      *services.TransactionService
	eventBus         *events.EventBus
	db               database.DB
	Config           config.Config
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) ChatControllerInterface {
	return &ChatController{
		conversationRepo: repos.Conversation,
		projectRepo:      repos.Project,
		transaction:      services.Transaction,
		eventBus:         eventBus,
		db:               db,
		Config:           config,
		log:              logger.New("chatController"),
	}
}

func (c *ChatController) Inbox(ctx context.Context, user *User) ([]Conversation, error) {
	if !user.CanSeeAllConversations() {
		return nil, types.ErrForbidden
	}
	return c.conversationRepo.Inbox(ctx, c.db.SQL, user.ID)
}

func (c *ChatController) OpenForProject(
	ctx context.Context,
	user *User,
	projectID uint,
) (*Conversation, error) {
	project, err := c.projectRepo.GetByID(ctx, c.db.SQL, policy.Participants(user, policy.Projects), projectID)
	if err != nil {
		return nil, err
	}
	return c.conversationRepo.GetOrCreateForProject(ctx, c.db.SQL, project)
}

// Room opens a conversation and marks the other side's messages read.
func (c *ChatController) Room(ctx context.Context, user *User, conversationID uint) (*ChatRoom, error) {
	conversation, err := c.conversationRepo.GetByID(
		ctx,
		c.db.SQL,
		policy.For(user, policy.Conversations),
		conversationID,
	)
	if err != nil {
		return nil, err
	}

	messages, err := c.readMessages(ctx, user, conversation.ID)
	if err != nil {
		return nil, err
	}

	return &ChatRoom{Conversation: conversation, Messages: messages}, nil
}

func (c *ChatController) Messages(ctx context.Context, user *User, conversationID uint) ([]Message, error) {
	conversation, err := c.conversationRepo.GetByID(
		ctx,
		c.db.SQL,
		policy.For(user, policy.Conversations),
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	return c.readMessages(ctx, user, conversation.ID)
}

// Send stores non-empty content. Blank messages are ignored and return nil.
func (c *ChatController) Send(
	ctx context.Context,
	user *User,
	conversationID uint,
	request *SendMessageRequest,
) (*Message, error) {
	log := c.log.Function("Send").TraceFromContext(ctx)

	conversation, err := c.conversationRepo.GetByID(
		ctx,
		c.db.SQL,
		policy.For(user, policy.Conversations),
		conversationID,
	)
	if err != nil {
		return nil, err
	}

	// Request bodies are reused by fasthttp once the handler returns, and the
	// content outlives it in the websocket queue.
	content, _ := utils.CleanUTF8(request.Content)
	content = strings.Clone(strings.TrimSpace(content))
	if content == "" {
		return nil, nil
	}

	message := &Message{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		Content:        content,
	}
	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.conversationRepo.CreateMessage(ctx, tx, message)
	})
	if err != nil {
		return nil, log.Err("failed to send message", err, "conversationID", conversationID)
	}
	message.Sender = user

	payload := events.ChatMessageCreated{
		ConversationID: conversation.ID,
		CustomerID:     conversation.CustomerID,
		MessageID:      message.ID,
		SenderID:       user.ID,
		SenderName:     user.DisplayName(),
		Content:        message.Content,
		IsFromAdmin:    message.IsFromAdmin(),
	}
	if err := c.eventBus.Publish(ctx, events.Event{
		Type:    events.CHAT_MESSAGE_CREATED,
		Channel: events.CHAT_CHANNEL,
		UserID:  &user.ID,
		Data:    payload.Data(),
		Payload: payload,
	}); err != nil {
		return nil, err
	}

	return message, nil
}

func (c *ChatController) readMessages(ctx context.Context, user *User, conversationID uint) ([]Message, error) {
	log := c.log.Function("readMessages").TraceFromContext(ctx)

	marked, err := c.conversationRepo.MarkRead(ctx, c.db.SQL, conversationID, user.ID)
	if err != nil {
		return nil, log.Err("failed to mark messages read", err, "conversationID", conversationID)
	}

	messages, err := c.conversationRepo.Messages(ctx, c.db.SQL, conversationID)
	if err != nil {
		return nil, err
	}

	if marked > 0 {
		log.Debug("Messages marked read", "conversationID", conversationID, "count", marked)
	}
	return messages, nil
}
