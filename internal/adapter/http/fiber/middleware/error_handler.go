package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/service/auth"
)

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	var (
		fe   *fiber.Error
		verr *domain.ValidationError
		perr *domain.ParseError
		merr *domain.PartialMigrationError
		serr *domain.PersistenceError
	)
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &perr):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.As(err, &merr):
		return fiber.StatusInternalServerError
	case errors.As(err, &serr):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)

		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed", zap.Error(err), zap.String("path", c.Path()), zap.Int("status", code))
		}

		body := fiber.Map{"error": err.Error()}
		var merr *domain.PartialMigrationError
		if errors.As(err, &merr) {
			body["step"] = merr.Step
			body["completed"] = merr.Completed
		}
		return c.Status(code).JSON(body)
	}
}
