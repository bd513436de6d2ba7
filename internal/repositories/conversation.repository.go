package repositories

import (
	"context"
	"errors"
	"time"

	. "housemanagement/internal/models"
	"housemanagement/internal/policy"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	Inbox(ctx context.Context, tx *gorm.DB, viewerID uint) ([]Conversation, error)
	GetByID(ctx context.Context, tx *gorm.DB, scope policy.Scope, id uint) (*Conversation, error)
	GetOrCreateForProject(ctx context.Context, tx *gorm.DB, project *ConstructionProject) (*Conversation, error)
	Messages(ctx context.Context, tx *gorm.DB, conversationID uint) ([]Message, error)
	MarkRead(ctx context.Context, tx *gorm.DB, conversationID uint, readerID uint) (int64, error)
	CreateMessage(ctx context.Context, tx *gorm.DB, message *Message) error
}

type conversationRepository struct {
	log logger.Logger
}

func NewConversationRepository() ConversationRepository {
	return &conversationRepository{log: logger.New("conversationRepository")}
}

// unreadSelect counts messages the viewer has not read and did not send.
const unreadSelect = "conversations.*, (SELECT COUNT(*) FROM messages WHERE messages.conversation_id = conversations.id AND messages.is_read = ? AND messages.sender_id <> ?) AS unread_count"

func (r *conversationRepository) Inbox(
	ctx context.Context,
	tx *gorm.DB,
	viewerID uint,
) ([]Conversation, error) {
	conversations := []Conversation{}
	err := tx.WithContext(ctx).
		Select(unreadSelect, false, viewerID).
		Preload("Project").
		Preload("Customer").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("Inbox").Err("failed to load inbox", err)
	}
	return conversations, nil
}

func (r *conversationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	scope policy.Scope,
	id uint,
) (*Conversation, error) {
	var conversation Conversation
	err := tx.WithContext(ctx).
		Scopes(scope.Apply).
		Preload("Project").
		Preload("Customer").
		Where("conversations.id = ?", id).
		First(&conversation).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conversation, nil
}

func (r *conversationRepository) GetOrCreateForProject(
	ctx context.Context,
	tx *gorm.DB,
	project *ConstructionProject,
) (*Conversation, error) {
	log := r.log.TraceFromContext(ctx).Function("GetOrCreateForProject")

	find := func() (*Conversation, error) {
		conversation, err := gorm.G[Conversation](tx).Where("project_id = ?", project.ID).First(ctx)
		if err != nil {
			return nil, notFound(err)
		}
		return &conversation, nil
	}

	conversation, err := find()
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, log.Err("failed to look up conversation", err, "projectID", project.ID)
	}

	conversation = &Conversation{ProjectID: project.ID, CustomerID: project.OwnerID}
	err = tx.WithContext(ctx).Omit("Project", "Customer", "Messages").Create(conversation).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return find()
	}
	if err != nil {
		return nil, log.Err("failed to create conversation", err, "projectID", project.ID)
	}
	return conversation, nil
}

func (r *conversationRepository) Messages(
	ctx context.Context,
	tx *gorm.DB,
	conversationID uint,
) ([]Message, error) {
	messages, err := gorm.G[Message](tx).
		Preload("Sender", nil).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(ctx)
	if err != nil {
		return nil, r.log.TraceFromContext(ctx).Function("Messages").
			Err("failed to load messages", err, "conversationID", conversationID)
	}
	return messages, nil
}

// MarkRead flags every message from someone other than the reader as read.
func (r *conversationRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	conversationID uint,
	readerID uint,
) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		UpdateColumn("is_read", true)
	if result.Error != nil {
		return 0, r.log.TraceFromContext(ctx).Function("MarkRead").
			Err("failed to mark messages read", result.Error, "conversationID", conversationID)
	}
	return result.RowsAffected, nil
}

// CreateMessage stores the message and bumps the conversation for inbox ordering.
func (r *conversationRepository) CreateMessage(ctx context.Context, tx *gorm.DB, message *Message) error {
	log := r.log.TraceFromContext(ctx).Function("CreateMessage")

	if err := tx.WithContext(ctx).Omit("Sender").Create(message).Error; err != nil {
		return log.Err("failed to create message", err, "conversationID", message.ConversationID)
	}

	err := tx.WithContext(ctx).
		Model(&Conversation{}).
		Where("id = ?", message.ConversationID).
		UpdateColumn("updated_at", time.Now()).Error
	if err != nil {
		return log.Err("failed to touch conversation", err, "conversationID", message.ConversationID)
	}
	return nil
}
