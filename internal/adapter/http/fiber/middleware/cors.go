package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/quest-board/pkg/config"
)

// NewCORS allows the board frontend to call the API. Empty lists fall back
// to what the web client needs.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}
	origins := joinOr(cfg.AllowedOrigins, "*")
	return fibercors.New(fibercors.Config{
		AllowOrigins:     origins,
		AllowMethods:     joinOr(cfg.AllowedMethods, "GET,POST,PATCH,DELETE,OPTIONS"),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, "Origin,Content-Type,Accept,Authorization"),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, ""),
		AllowCredentials: cfg.Credentials && !strings.Contains(origins, "*"),
		MaxAge:           maxAge,
	})
}

func joinOr(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return strings.Join(list, ",")
}
