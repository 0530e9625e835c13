package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is any dependency the readiness check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	startTime time.Time
	store     Pinger
	backend   string
	apiURL    string
}

func NewHealthHandler(store Pinger, backend, apiURL string) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		store:     store,
		backend:   backend,
		apiURL:    apiURL,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "stayprice-session",
		"version": "1.0.0",
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(requestContext(c), 2*time.Second)
	defer cancel()

	storeStatus := "ok"
	status := fiber.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = err.Error()
		status = fiber.StatusServiceUnavailable
	}

	ready := "ready"
	if status != fiber.StatusOK {
		ready = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": ready,
		"checks": fiber.Map{
			"api":   "ok",
			"store": storeStatus,
		},
		"backend": h.backend,
		"predict": h.apiURL,
	})
}
