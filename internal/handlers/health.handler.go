package handlers

import (
	"housemanagement/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"status":   "ok",
			"version":  app.Config.GeneralVersion,
			"service":  "housemanagement_api",
			"database": "ok",
		}

		sqlDB, err := app.Database.SQL.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			response["status"] = "degraded"
			response["database"] = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(response)
		}

		return c.JSON(response)
	})
}
