package handlers

import (
	"housemanagement/internal/app"
	constructionController "housemanagement/internal/controllers/construction"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type ConstructionHandler struct {
	Handler
	constructionController constructionController.ConstructionControllerInterface
}

func NewConstructionHandler(app app.App, router fiber.Router) *ConstructionHandler {
	log := logger.New("handlers").File("construction_handler")
	return &ConstructionHandler{
		constructionController: app.Controllers.Construction,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ConstructionHandler) Register() {
	projects := h.router.Group("/construction", h.middleware.RequireAuth())

	projects.Get("", h.listProjects)
	projects.Post("", h.createProject)
	projects.Get("/:id", h.getProject)
	projects.Put("/:id", h.updateProject)
	projects.Delete("/:id", h.deleteProject)
	projects.Post("/:id/updates", h.addProgressUpdate)
}

func (h *ConstructionHandler) listProjects(c *fiber.Ctx) error {
	log := requestLog(c, "construction_handler", "listProjects")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	projects, err := h.constructionController.List(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve projects")
	}

	return c.JSON(fiber.Map{
		"projects": projects,
	})
}

func (h *ConstructionHandler) getProject(c *fiber.Ctx) error {
	log := requestLog(c, "construction_handler", "getProject")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	project, err := h.constructionController.Get(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve project")
	}

	return c.JSON(fiber.Map{
		"project": project,
	})
}

func (h *ConstructionHandler) createProject(c *fiber.Ctx) error {
	log := requestLog(c, "construction_handler", "createProject")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	var req constructionController.ProjectRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	project, err := h.constructionController.Create(c.UserContext(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create project")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"project": project,
	})
}

func (h *ConstructionHandler) updateProject(c *fiber.Ctx) error {
	log := requestLog(c, "construction_handler", "updateProject")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req constructionController.ProjectRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	project, err := h.constructionController.Update(c.UserContext(), user, id, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update project")
	}

	return c.JSON(fiber.Map{
		"project": project,
	})
}

func (h *ConstructionHandler) deleteProject(c *fiber.Ctx) error {
	log := requestLog(c, "construction_handler", "deleteProject")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.constructionController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err, "Failed to delete project")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ConstructionHandler) addProgressUpdate(c *fiber.Ctx) error {
	log := requestLog(c, "construction_handler", "addProgressUpdate")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req constructionController.ProgressUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	uploads, release, err := formUploads(c, "site_image")
	defer release()
	if err != nil {
		return badRequest(c, log, err)
	}
	req.SiteImage = uploads["site_image"]

	update, err := h.constructionController.AddProgressUpdate(c.UserContext(), user, id, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to add progress update")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"update": update,
	})
}
