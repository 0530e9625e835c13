package handlers

import (
	"context"
	"time"

	"stayprice-session/internal/models"
	"stayprice-session/internal/session"

	"github.com/gofiber/fiber/v2"
)

type PredictHandler struct {
	session *session.Session
	timeout time.Duration
}

// NewPredictHandler bounds each submission by timeout, which should cover
// both the endpoint call and the latency floor
func NewPredictHandler(s *session.Session, timeout time.Duration) *PredictHandler {
	return &PredictHandler{
		session: s,
		timeout: timeout,
	}
}

// Quick handles POST /v1/predict/quick
func (h *PredictHandler) Quick(c *fiber.Ctx) error {
	var in models.QuickSearchInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	return h.submit(c, models.QuickSearchRequest(in.City, in.PropertyType, in.Guests), models.PathQuick)
}

// Detailed handles POST /v1/predict
func (h *PredictHandler) Detailed(c *fiber.Ctx) error {
	var req models.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if req.RoomType == "" {
		req.RoomType = models.DefaultRoomType
	}

	return h.submit(c, req, models.PathDetailed)
}

func (h *PredictHandler) submit(c *fiber.Ctx, req models.PredictionRequest, path models.SubmitPath) error {
	if err := req.Validate(); err != nil {
		return badRequest(c, "Invalid prediction request", err)
	}

	ctx, cancel := context.WithTimeout(requestContext(c), h.timeout)
	defer cancel()

	outcome := h.session.Predict(ctx, req, path)

	resp := models.SubmitResponse{
		Success: outcome.OK,
		Stale:   outcome.Stale,
		Seq:     outcome.Seq,
	}
	if outcome.OK {
		price := outcome.Price
		resp.Price = &price
	}

	return c.JSON(resp)
}

// View handles GET /v1/session
func (h *PredictHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.session.View(requestContext(c)))
}

// ResetResult handles DELETE /v1/session/result
func (h *PredictHandler) ResetResult(c *fiber.Ctx) error {
	h.session.ResetResult()
	return c.SendStatus(fiber.StatusNoContent)
}

// Catalog handles GET /v1/catalog
func (h *PredictHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"cities":        models.Cities,
		"propertyTypes": models.PropertyTypes,
		"tabs":          models.Tabs,
		"themes":        []models.Theme{models.ThemeLight, models.ThemeDark},
	})
}
