package handlers

import (
	"errors"
	"net/url"
	"strings"

	"housemanagement/internal/app"
	userController "housemanagement/internal/controllers/users"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const (
	FlashCookie    = "flash"
	MsgDataEmailed = "เราได้ส่งข้อมูลส่วนตัวไปยังอีเมลของคุณเรียบร้อยแล้ว"
	MsgDataNoEmail = "ไม่พบอีเมลในบัญชี ผู้ดูแลระบบไม่สามารถส่งข้อมูลส่วนตัวได้"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	requireAuth := h.middleware.RequireAuth()

	h.router.Get("/", requireAuth, h.dashboard)
	h.router.All("/accounts/email-my-data", requireAuth, h.emailMyData)

	users := h.router.Group("/users", requireAuth)
	users.Get("/me", h.getCurrentUser)
	users.Put("/me/profile", h.updateProfile)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	log := requestLog(c, "user_handler", "getCurrentUser")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": h.userController.Me(c.UserContext(), user),
	})
}

func (h *UserHandler) updateProfile(c *fiber.Ctx) error {
	log := requestLog(c, "user_handler", "updateProfile")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	var req userController.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, log, err)
	}

	response, err := h.userController.UpdateProfile(c.UserContext(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update profile")
	}

	return c.JSON(fiber.Map{
		"user": response,
	})
}

func (h *UserHandler) dashboard(c *fiber.Ctx) error {
	log := requestLog(c, "user_handler", "dashboard")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	summary, err := h.userController.Dashboard(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to load dashboard")
	}

	return c.JSON(fiber.Map{
		"user":      user.ToResponse(),
		"dashboard": summary,
	})
}

func (h *UserHandler) emailMyData(c *fiber.Ctx) error {
	log := requestLog(c, "user_handler", "emailMyData")

	if c.Method() != fiber.MethodPost {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": "Method not allowed",
		})
	}

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	err = h.userController.EmailMyData(c.UserContext(), user)
	switch {
	case err == nil:
		setFlash(c, "success", MsgDataEmailed)
	case errors.Is(err, types.ErrMissingEmail):
		setFlash(c, "error", MsgDataNoEmail)
	default:
		return respondError(c, log, err, "Failed to email personal data")
	}

	return c.Redirect(safeNext(c.FormValue("next")), fiber.StatusSeeOther)
}

// setFlash stores a one-shot message as "level:message".
func setFlash(c *fiber.Ctx, level, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(level + ":" + message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
