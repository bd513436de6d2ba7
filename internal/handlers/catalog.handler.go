package handlers

import (
	"housemanagement/internal/app"
	catalogController "housemanagement/internal/controllers/catalog"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

const MsgCatalogQuoteAdded = "เพิ่มแบบบ้านจากแค็ตตาล็อกไปยังใบเสนอราคาของคุณแล้ว"

type CatalogHandler struct {
	Handler
	catalogController catalogController.CatalogControllerInterface
}

func NewCatalogHandler(app app.App, router fiber.Router) *CatalogHandler {
	log := logger.New("handlers").File("catalog_handler")
	return &CatalogHandler{
		catalogController: app.Controllers.Catalog,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

// Register keeps browsing public; managing the catalog needs a superuser.
func (h *CatalogHandler) Register() {
	catalog := h.router.Group("/catalog")
	requireAuth := h.middleware.RequireAuth()
	requireSuperuser := h.middleware.RequireSuperuser()

	catalog.Get("", h.listCatalog)
	catalog.Get("/prefill", requireAuth, requireSuperuser, h.prefill)
	catalog.Get("/:slug", h.catalogDetail)
	catalog.Post("/:slug/request-quote", requireAuth, h.requestQuote)

	catalog.Post("", requireAuth, requireSuperuser, h.createCatalogDesign)
	catalog.Put("/:id", requireAuth, requireSuperuser, h.updateCatalogDesign)
	catalog.Delete("/:id", requireAuth, requireSuperuser, h.deleteCatalogDesign)
	catalog.Post("/:id/images", requireAuth, requireSuperuser, h.addImage)
}

func (h *CatalogHandler) listCatalog(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "listCatalog")

	filter := catalogController.ParseFilter(c.Queries())
	response, err := h.catalogController.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve catalog")
	}

	return c.JSON(response)
}

func (h *CatalogHandler) catalogDetail(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "catalogDetail")

	detail, err := h.catalogController.Detail(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve catalog design")
	}

	return c.JSON(detail)
}

func (h *CatalogHandler) prefill(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "prefill")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	sourceID := c.QueryInt("from_design", 0)
	if sourceID < 0 {
		sourceID = 0
	}

	prefill, err := h.catalogController.Prefill(c.UserContext(), user, uint(sourceID))
	if err != nil {
		return respondError(c, log, err, "Failed to prefill catalog design")
	}

	return c.JSON(prefill)
}

func (h *CatalogHandler) requestQuote(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "requestQuote")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	result, err := h.catalogController.RequestQuote(c.UserContext(), user, c.Params("slug"))
	if err != nil {
		return respondError(c, log, err, "Failed to request quote")
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}

	return c.Status(status).JSON(fiber.Map{
		"quote":   result.Quote,
		"created": result.Created,
		"message": MsgCatalogQuoteAdded,
	})
}

func (h *CatalogHandler) createCatalogDesign(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "createCatalogDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	req, release, err := parseCatalogRequest(c)
	defer release()
	if err != nil {
		return badRequest(c, log, err)
	}

	design, err := h.catalogController.Create(c.UserContext(), user, req)
	if err != nil {
		return respondError(c, log, err, "Failed to create catalog design")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"design": design,
	})
}

func (h *CatalogHandler) updateCatalogDesign(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "updateCatalogDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	req, release, err := parseCatalogRequest(c)
	defer release()
	if err != nil {
		return badRequest(c, log, err)
	}

	design, err := h.catalogController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update catalog design")
	}

	return c.JSON(fiber.Map{
		"design": design,
	})
}

func (h *CatalogHandler) deleteCatalogDesign(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "deleteCatalogDesign")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.catalogController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err, "Failed to delete catalog design")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CatalogHandler) addImage(c *fiber.Ctx) error {
	log := requestLog(c, "catalog_handler", "addImage")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req catalogController.AddImageRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	uploads, release, err := formUploads(c, "image")
	defer release()
	if err != nil {
		return badRequest(c, log, err)
	}
	req.Image = uploads["image"]

	image, err := h.catalogController.AddImage(c.UserContext(), user, id, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to add catalog image")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"image": image,
	})
}

func parseCatalogRequest(c *fiber.Ctx) (*catalogController.CatalogDesignRequest, func(), error) {
	var req catalogController.CatalogDesignRequest
	if err := parseBody(c, &req); err != nil {
		return nil, func() {}, err
	}

	uploads, release, err := formUploads(c, "cover_image", "floor_plan_image")
	if err != nil {
		return nil, release, err
	}
	req.CoverImage = uploads["cover_image"]
	req.FloorPlanImage = uploads["floor_plan_image"]

	return &req, release, nil
}
