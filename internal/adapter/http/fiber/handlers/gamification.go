package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/quest-board/internal/ports"
)

type GamificationHandler struct {
	game ports.GamificationService
	log  *zap.Logger
}

func NewGamificationHandler(game ports.GamificationService, log *zap.Logger) *GamificationHandler {
	return &GamificationHandler{game: game, log: log}
}

func (h *GamificationHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/profile", h.Profile)
	r.Get("/profile/progress", h.Progress)
	r.Get("/achievements", h.Achievements)
	r.Get("/achievements/mine", h.Mine)
	r.Post("/achievements/check", h.Check)
}

func (h *GamificationHandler) Profile(c *fiber.Ctx) error {
	profile, err := h.game.GetProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *GamificationHandler) Progress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	profile, err := h.game.GetProfile(c.Context(), userID)
	if err != nil {
		return err
	}
	progress, err := h.game.NextLevelProgress(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"level":      profile.Level,
		"experience": profile.Experience,
		"progress":   progress,
	})
}

func (h *GamificationHandler) Achievements(c *fiber.Ctx) error {
	list, err := h.game.Achievements(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievements": list})
}

func (h *GamificationHandler) Mine(c *fiber.Ctx) error {
	list, err := h.game.UserAchievements(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"achievements": list})
}

// Check re-evaluates the catalog and returns what was unlocked now.
func (h *GamificationHandler) Check(c *fiber.Ctx) error {
	unlocked, err := h.game.CheckAchievements(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"unlocked": unlocked})
}
