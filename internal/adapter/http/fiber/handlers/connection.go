package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/quest-board/internal/ports"
)

type ConnectionHandler struct {
	service ports.ConnectionService
	log     *zap.Logger
}

func NewConnectionHandler(service ports.ConnectionService, log *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{service: service, log: log}
}

type ConnectRequest struct {
	SourceCardID string `json:"source_card_id"`
	TargetCardID string `json:"target_card_id"`
}

func (h *ConnectionHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/connections", h.List)
	r.Post("/connections", h.Create)
	r.Delete("/connections/:id", h.Delete)
	r.Get("/cards/:id/connected", h.Connected)
}

func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	conns, err := h.service.List(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"connections": conns})
}

func (h *ConnectionHandler) Create(c *fiber.Ctx) error {
	var req ConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	conn, err := h.service.Create(c.Context(), middleware.UserID(c), req.SourceCardID, req.TargetCardID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(conn)
}

func (h *ConnectionHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ConnectionHandler) Connected(c *fiber.Ctx) error {
	cards, err := h.service.Connected(c.Context(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(cards)
}
