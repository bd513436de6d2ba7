package handlers

import (
	"housemanagement/internal/app"
	"housemanagement/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())
	setupWebSocketRoute(router, app)

	if app.Config.MediaURL != "" && app.Config.MinioEndpoint == "" {
		router.Static(app.Config.MediaURL, app.Config.MediaRoot)
	}

	api := router.Group("/api")
	HealthHandler(api, app)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewDesignHandler(*app, api).Register()
	NewCatalogHandler(*app, api).Register()
	NewQuoteHandler(*app, api).Register()
	NewConstructionHandler(*app, api).Register()
	NewChatHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
