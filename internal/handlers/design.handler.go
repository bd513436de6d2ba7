package handlers

import (
	"housemanagement/internal/app"
	designController "housemanagement/internal/controllers/designs"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type DesignHandler struct {
	Handler
	designController designController.DesignControllerInterface
}

func NewDesignHandler(app app.App, router fiber.Router) *DesignHandler {
	log := logger.New("handlers").File("design_handler")
	return &DesignHandler{
		designController: app.Controllers.Design,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DesignHandler) Register() {
	designs := h.router.Group("/designs", h.middleware.RequireAuth())

	designs.Get("", h.listDesigns)
	designs.Post("", h.createDesign)
	designs.Get("/:id", h.getDesign)
	designs.Put("/:id", h.updateDesign)
	designs.Delete("/:id", h.deleteDesign)
}

func (h *DesignHandler) listDesigns(c *fiber.Ctx) error {
	log := requestLog(c, "design_handler", "listDesigns")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	designs, err := h.designController.List(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve designs")
	}

	return c.JSON(fiber.Map{
		"designs": designs,
	})
}

func (h *DesignHandler) getDesign(c *fiber.Ctx) error {
	log := requestLog(c, "design_handler", "getDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	design, err := h.designController.Get(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve design")
	}

	return c.JSON(fiber.Map{
		"design": design,
	})
}

func (h *DesignHandler) createDesign(c *fiber.Ctx) error {
	log := requestLog(c, "design_handler", "createDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	req, release, err := h.parseDesignRequest(c)
	defer release()
	if err != nil {
		return badRequest(c, log, err)
	}

	design, err := h.designController.Create(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err, "Failed to create design")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"design": design,
	})
}

func (h *DesignHandler) updateDesign(c *fiber.Ctx) error {
	log := requestLog(c, "design_handler", "updateDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	req, release, err := h.parseDesignRequest(c)
	defer release()
	if err != nil {
		return badRequest(c, log, err)
	}

	design, err := h.designController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update design")
	}

	return c.JSON(fiber.Map{
		"design": design,
	})
}

func (h *DesignHandler) deleteDesign(c *fiber.Ctx) error {
	log := requestLog(c, "design_handler", "deleteDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.designController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err, "Failed to delete design")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DesignHandler) parseDesignRequest(c *fiber.Ctx) (*designController.DesignRequest, func(), error) {
	var req designController.DesignRequest
	if err := parseBody(c, &req); err != nil {
		return nil, func() {}, err
	}

	uploads, release, err := formUploads(c, "cover_image", "floor_plan")
	if err != nil {
		return nil, release, err
	}
	req.CoverImage = uploads["cover_image"]
	req.FloorPlan = uploads["floor_plan"]

	return &req, release, nil
}
