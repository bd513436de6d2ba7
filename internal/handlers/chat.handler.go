package handlers

import (
	"fmt"

	"housemanagement/internal/app"
	chatController "housemanagement/internal/controllers/chat"
	"housemanagement/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Handler
	chatController chatController.ChatControllerInterface
}

func NewChatHandler(app app.App, router fiber.Router) *ChatHandler {
	log := logger.New("handlers").File("chat_handler")
	return &ChatHandler{
		chatController: app.Controllers.Chat,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ChatHandler) Register() {
	chat := h.router.Group("/chat", h.middleware.RequireAuth())

	chat.Get("/inbox", h.middleware.RequireStaff(), h.inbox)
	chat.Post("/projects/:projectId", h.openForProject)
	chat.Get("/:id", h.room)
	chat.Get("/:id/messages", h.messages)
	chat.Post("/:id/messages", h.sendMessage)
}

func (h *ChatHandler) inbox(c *fiber.Ctx) error {
	log := requestLog(c, "chat_handler", "inbox")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	conversations, err := h.chatController.Inbox(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to load inbox")
	}

	return c.JSON(fiber.Map{
		"conversations": conversations,
	})
}

func (h *ChatHandler) openForProject(c *fiber.Ctx) error {
	log := requestLog(c, "chat_handler", "openForProject")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	projectID, ok := paramID(c, "projectId")
	if !ok {
		return notFound(c)
	}

	conversation, err := h.chatController.OpenForProject(c.UserContext(), user, projectID)
	if err != nil {
		return respondError(c, log, err, "Failed to open conversation")
	}

	return c.JSON(fiber.Map{
		"conversation": conversation,
	})
}

func (h *ChatHandler) room(c *fiber.Ctx) error {
	log := requestLog(c, "chat_handler", "room")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	room, err := h.chatController.Room(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to load conversation")
	}

	return c.JSON(room)
}

func (h *ChatHandler) messages(c *fiber.Ctx) error {
	log := requestLog(c, "chat_handler", "messages")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	messages, err := h.chatController.Messages(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to load messages")
	}

	if isHTMX(c) {
		return h.sendFragment(c, log, user, messages)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}

func (h *ChatHandler) sendMessage(c *fiber.Ctx) error {
	log := requestLog(c, "chat_handler", "sendMessage")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req chatController.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	if _, err := h.chatController.Send(c.UserContext(), user, id, &req); err != nil {
		return respondError(c, log, err, "Failed to send message")
	}

	if !isHTMX(c) {
		return c.Redirect(fmt.Sprintf("/api/chat/%d", id), fiber.StatusSeeOther)
	}

	messages, err := h.chatController.Messages(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to load messages")
	}
	return h.sendFragment(c, log, user, messages)
}

func (h *ChatHandler) sendFragment(
	c *fiber.Ctx,
	log logger.Logger,
	user *models.User,
	messages []models.Message,
) error {
	fragment, err := renderMessageList(user, messages)
	if err != nil {
		return respondError(c, log, err, "Failed to render messages")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(fragment)
}
