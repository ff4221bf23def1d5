package health

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/mocks"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping() error { return f.err }

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestReady_AllHealthy(t *testing.T) {
	svc := NewService(&Config{Version: "test", Cache: fakePinger{}, Queue: fakePinger{}}, newTestLogger())

	resp := svc.Ready(context.Background())

	if !resp.Ready || resp.Status != StatusHealthy {
		t.Errorf("Expected ready/healthy, got %v/%s", resp.Ready, resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Errorf("Expected 2 checks, got %d", len(resp.Checks))
	}
}

func TestReady_QueueDownDegrades(t *testing.T) {
	svc := NewService(&Config{Cache: fakePinger{}, Queue: fakePinger{err: errors.New("nats disconnected")}}, newTestLogger())

	resp := svc.Ready(context.Background())

	if !resp.Ready {
		t.Error("A degraded queue must not fail readiness")
	}
	if resp.Status != StatusDegraded {
		t.Errorf("Expected degraded, got %s", resp.Status)
	}
}

func TestReadyRoute_CacheDown(t *testing.T) {
	// Arrange
	svc := NewService(&Config{Cache: fakePinger{err: errors.New("redis down")}}, newTestLogger())
	app := fiber.New()
	NewFiberHandler(svc).RegisterRoutes(app)

	// Act
	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))

	// Assert
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/health/live", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected liveness 200, got %d", resp.StatusCode)
	}
}

func TestReady_EmptyCatalogDegrades(t *testing.T) {
	svc := NewService(&Config{Cache: fakePinger{}, Catalog: &mocks.MockAchievementRepository{}}, newTestLogger())

	resp := svc.Ready(context.Background())

	if !resp.Ready || resp.Status != StatusDegraded {
		t.Errorf("Expected ready/degraded, got %v/%s", resp.Ready, resp.Status)
	}
	if resp.Checks["achievements"].Message == "" {
		t.Error("Expected a hint about seeding the catalog")
	}
}

func TestReady_SeededCatalog(t *testing.T) {
	catalog := &mocks.MockAchievementRepository{Catalog: domain.DefaultAchievements()}
	svc := NewService(&Config{Catalog: catalog}, newTestLogger())

	if resp := svc.Ready(context.Background()); resp.Status != StatusHealthy {
		t.Errorf("Expected healthy, got %s", resp.Status)
	}
}
