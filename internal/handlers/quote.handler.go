package handlers

import (
	"errors"
	"fmt"

	"housemanagement/internal/app"
	quoteController "housemanagement/internal/controllers/quotes"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	Handler
	quoteController quoteController.QuoteControllerInterface
}

func NewQuoteHandler(app app.App, router fiber.Router) *QuoteHandler {
	log := logger.New("handlers").File("quote_handler")
	return &QuoteHandler{
		quoteController: app.Controllers.Quote,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *QuoteHandler) Register() {
	quotes := h.router.Group("/quotes", h.middleware.RequireAuth())
	requireSuperuser := h.middleware.RequireSuperuser()

	quotes.Get("", h.listQuotes)
	quotes.Post("", h.createQuote)
	quotes.Get("/selectable-designs", h.selectableDesigns)

	quotes.Post("/estimator/inquiry", h.submitInquiry)
	quotes.Get("/inquiries", requireSuperuser, h.listInquiries)
	quotes.Post("/inquiries/:id/handled", requireSuperuser, h.markInquiryHandled)

	quotes.Get("/:id", h.getQuote)
	quotes.Put("/:id", h.updateQuote)
	quotes.Delete("/:id", h.deleteQuote)
	quotes.Get("/:id/contract/pdf", h.contractPDF)
}

func (h *QuoteHandler) listQuotes(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "listQuotes")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	quotes, err := h.quoteController.List(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve quotes")
	}

	return c.JSON(fiber.Map{
		"quotes": quotes,
	})
}

func (h *QuoteHandler) selectableDesigns(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "selectableDesigns")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	designs, err := h.quoteController.SelectableDesigns(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve designs")
	}

	return c.JSON(fiber.Map{
		"designs": designs,
	})
}

func (h *QuoteHandler) getQuote(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "getQuote")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	quote, err := h.quoteController.Get(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve quote")
	}

	return c.JSON(fiber.Map{
		"quote": quote,
	})
}

func (h *QuoteHandler) createQuote(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "createQuote")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	var req quoteController.CreateQuoteRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	quote, err := h.quoteController.Create(c.UserContext(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create quote")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"quote": quote,
	})
}

func (h *QuoteHandler) updateQuote(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "updateQuote")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req quoteController.UpdateQuoteRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, log, err)
	}

	quote, err := h.quoteController.Update(c.UserContext(), user, id, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update quote")
	}

	return c.JSON(fiber.Map{
		"quote": quote,
	})
}

func (h *QuoteHandler) deleteQuote(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "deleteQuote")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.quoteController.Delete(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err, "Failed to delete quote")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// submitInquiry answers in the {status, message} envelope the estimator
// widget expects, including for validation failures.
func (h *QuoteHandler) submitInquiry(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "submitInquiry")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	var req quoteController.InquiryRequest
	if err := parseBody(c, &req); err != nil {
		log.Warn("Invalid estimator body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": quoteController.MsgMissingContact,
		})
	}

	result, err := h.quoteController.SubmitInquiry(c.UserContext(), user, &req)
	var inquiryErr *quoteController.InquiryError
	if errors.As(err, &inquiryErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": inquiryErr.Message,
		})
	}
	if err != nil {
		return respondError(c, log, err, "Failed to save inquiry")
	}

	return c.JSON(result)
}

func (h *QuoteHandler) listInquiries(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "listInquiries")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	inquiries, err := h.quoteController.ListInquiries(c.UserContext(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve inquiries")
	}

	return c.JSON(fiber.Map{
		"inquiries": inquiries,
	})
}

func (h *QuoteHandler) markInquiryHandled(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "markInquiryHandled")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.quoteController.MarkInquiryHandled(c.UserContext(), user, id); err != nil {
		return respondError(c, log, err, "Failed to update inquiry")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *QuoteHandler) contractPDF(c *fiber.Ctx) error {
	log := requestLog(c, "quote_handler", "contractPDF")

	user, err := currentUser(c, log)
	if user == nil {
		return err
	}

	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	document, err := h.quoteController.Contract(c.UserContext(), user, id)
	if err != nil {
		return respondError(c, log, err, "Failed to generate contract")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", document.Filename))
	return c.Send(document.PDF)
}
