package handlers

import (
	"errors"

	"housemanagement/internal/app"
	authController "housemanagement/internal/controllers/auth"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	log := requestLog(c, "auth_handler", "register")

	var req authController.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, log, err)
	}

	user, err := h.authController.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to register user")
	}

	log.Info("User registered", "userID", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user.ToResponse(),
	})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := requestLog(c, "auth_handler", "login")

	var req authController.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, log, err)
	}

	response, err := h.authController.Login(c.UserContext(), &req)
	if errors.Is(err, authController.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Please enter a correct username and password.",
		})
	}
	if err != nil {
		return respondError(c, log, err, "Failed to log in")
	}

	return c.JSON(response)
}
