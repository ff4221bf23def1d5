package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

// ImportHandler serves the preview-only project import. Nothing reaches the
// board until the client posts /import/plan.
type ImportHandler struct {
	importer ports.ImportService
	board    ports.BoardService
	log      *zap.Logger
}

func NewImportHandler(importer ports.ImportService, board ports.BoardService, log *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, board: board, log: log}
}

type StatusRequest struct {
	Status domain.ImportStatus `json:"status"`
}

func (h *ImportHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/import", h.Load)
	r.Get("/import", h.Get)
	r.Delete("/import", h.Discard)
	r.Post("/import/cards", h.AddCard)
	r.Put("/import/cards/:id", h.UpdateCard)
	r.Patch("/import/cards/:id/status", h.UpdateStatus)
	r.Delete("/import/cards/:id", h.DeleteCard)
	r.Get("/import/cards/:id/next", h.Next)
	r.Post("/import/plan", h.Plan)
}

// Load takes the raw JSON document as the request body.
func (h *ImportHandler) Load(c *fiber.Ctx) error {
	data, err := h.importer.Load(c.Context(), middleware.UserID(c), c.Body())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data)
}

// Get returns the session, or only the cards of one status when ?status= is
// given.
func (h *ImportHandler) Get(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if status := c.Query("status"); status != "" {
		cards, err := h.importer.CardsByStatus(c.Context(), userID, domain.ImportStatus(status))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"cards": cards})
	}

	data, err := h.importer.Get(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(data)
}

func (h *ImportHandler) Discard(c *fiber.Ctx) error {
	if err := h.importer.Discard(c.Context(), middleware.UserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ImportHandler) AddCard(c *fiber.Ctx) error {
	var card domain.ProjectCard
	if err := c.BodyParser(&card); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	data, err := h.importer.AddCard(c.Context(), middleware.UserID(c), card)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(data)
}

func (h *ImportHandler) UpdateCard(c *fiber.Ctx) error {
	var card domain.ProjectCard
	if err := c.BodyParser(&card); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	card.ID = c.Params("id")
	data, err := h.importer.UpdateCard(c.Context(), middleware.UserID(c), card)
	if err != nil {
		return err
	}
	return c.JSON(data)
}

func (h *ImportHandler) UpdateStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	data, err := h.importer.UpdateStatus(c.Context(), middleware.UserID(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(data)
}

func (h *ImportHandler) DeleteCard(c *fiber.Ctx) error {
	data, err := h.importer.DeleteCard(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(data)
}

func (h *ImportHandler) Next(c *fiber.Ctx) error {
	cards, err := h.importer.NextCards(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cards": cards})
}

// Plan converts the preview into plan tasks and replaces the board with
// them.
func (h *ImportHandler) Plan(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	tasks, err := h.importer.PlanTasks(c.Context(), userID)
	if err != nil {
		return err
	}
	if err := h.board.GenerateProjectPlan(c.Context(), userID, tasks); err != nil {
		return err
	}

	board, err := h.board.Load(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}
