package handlers

import (
	"errors"
	"strings"

	"housemanagement/internal/handlers/middleware"
	"housemanagement/internal/models"
	"housemanagement/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

func requestLog(c *fiber.Ctx, file, function string) logger.Logger {
	return logger.New("handlers").TraceFromContext(c.UserContext()).File(file).Function(function)
}

// currentUser writes the 401 response itself when no user is attached.
func currentUser(c *fiber.Ctx, log logger.Logger) (*models.User, error) {
	user := middleware.GetUser(c)
	if user == nil {
		log.Warn("Unauthorized access attempt")
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	return user, nil
}

// respondError maps controller errors onto status codes. Anything
// unrecognised is logged and answered with fallback.
func respondError(c *fiber.Ctx, log logger.Logger, err error, fallback string) error {
	if validation, ok := types.AsValidationError(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(validation)
	}
	if configuration, ok := types.AsConfigurationError(err); ok {
		log.Warn("Service not configured", "error", err.Error())
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": configuration.Message,
		})
	}

	switch {
	case errors.Is(err, types.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, types.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have permission to perform this action",
		})
	}

	_ = log.Err(fallback, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

// paramID reads a positive numeric route parameter; anything else is a 404.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Not found",
	})
}

func badRequest(c *fiber.Ctx, log logger.Logger, err error) error {
	log.Warn("Invalid request body", "error", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

// parseBody accepts an empty body as an empty request.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}
