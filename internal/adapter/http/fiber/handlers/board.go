package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/ports"
)

type BoardHandler struct {
	board   ports.BoardService
	planner ports.PlanGenerator
	log     *zap.Logger
}

func NewBoardHandler(board ports.BoardService, planner ports.PlanGenerator, log *zap.Logger) *BoardHandler {
	return &BoardHandler{board: board, planner: planner, log: log}
}

type MoveRequest struct {
	NewList []domain.Card `json:"new_list"`
	OldList []domain.Card `json:"old_list"`
}

// UpdateCardRequest is a card patch. ColumnID is only decoded to reject it.
type UpdateCardRequest struct {
	domain.CardPatch
	ColumnID *string `json:"column_id"`
}

type PlanRequest struct {
	Tasks []domain.PlanTask `json:"tasks"`
}

type GeneratePlanRequest struct {
	Description string `json:"description"`
}

func (h *BoardHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/board", h.Load)
	r.Get("/board/search", h.Search)
	r.Get("/columns", h.Columns)
	r.Post("/cards", h.CreateCard)
	r.Patch("/cards/:id", h.UpdateCard)
	r.Delete("/cards/:id", h.DeleteCard)
	r.Post("/cards/move", h.MoveCard)
	r.Post("/cards/drag", h.Drag)
	r.Post("/plan", h.Plan)
	r.Post("/plan/generate", h.GeneratePlan)
}

func (h *BoardHandler) Load(c *fiber.Ctx) error {
	board, err := h.board.Load(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func (h *BoardHandler) Search(c *fiber.Ctx) error {
	cards, err := h.board.Search(c.Context(), middleware.UserID(c), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cards": cards})
}

func (h *BoardHandler) Columns(c *fiber.Ctx) error {
	cols, err := h.board.Columns(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"columns": cols})
}

func (h *BoardHandler) CreateCard(c *fiber.Ctx) error {
	var draft domain.CardDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	card, err := h.board.CreateCard(c.Context(), middleware.UserID(c), draft)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(card)
}

func (h *BoardHandler) UpdateCard(c *fiber.Ctx) error {
	var req UpdateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ColumnID != nil {
		return &domain.ValidationError{Field: "column_id", Message: "use /cards/move or /cards/drag to change columns"}
	}
	req.CardPatch.ID = c.Params("id")

	card, err := h.board.UpdateCard(c.Context(), middleware.UserID(c), req.CardPatch)
	if err != nil {
		return err
	}
	return c.JSON(card)
}

func (h *BoardHandler) DeleteCard(c *fiber.Ctx) error {
	if err := h.board.DeleteCard(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MoveCard commits a reordered list computed by the client. The response is
// the board after commit or rollback.
func (h *BoardHandler) MoveCard(c *fiber.Ctx) error {
	var req MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	userID := middleware.UserID(c)
	if err := h.board.MoveCard(c.Context(), userID, req.NewList, req.OldList); err != nil {
		return err
	}

	board, err := h.board.Load(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func (h *BoardHandler) Drag(c *fiber.Ctx) error {
	var gesture domain.DragGesture
	if err := c.BodyParser(&gesture); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	board, err := h.board.Drag(c.Context(), middleware.UserID(c), gesture)
	if err != nil {
		return err
	}
	return c.JSON(board)
}

func (h *BoardHandler) Plan(c *fiber.Ctx) error {
	var req PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return h.replaceBoard(c, req.Tasks)
}

// GeneratePlan asks the planner for tasks and replaces the board with them.
func (h *BoardHandler) GeneratePlan(c *fiber.Ctx) error {
	var req GeneratePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	tasks, err := h.planner.Generate(c.Context(), req.Description)
	if err != nil {
		return err
	}
	return h.replaceBoard(c, tasks)
}

func (h *BoardHandler) replaceBoard(c *fiber.Ctx, tasks []domain.PlanTask) error {
	userID := middleware.UserID(c)
	if err := h.board.GenerateProjectPlan(c.Context(), userID, tasks); err != nil {
		return err
	}

	board, err := h.board.Load(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}
