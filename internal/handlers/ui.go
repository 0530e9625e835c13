package handlers

import (
	"errors"

	"stayprice-session/internal/config"
	"stayprice-session/internal/models"
	"stayprice-session/internal/settings"
	"stayprice-session/internal/ui"

	"github.com/gofiber/fiber/v2"
)

type UIHandler struct {
	coordinator *ui.Coordinator
	cfg         *config.Config
}

func NewUIHandler(coordinator *ui.Coordinator, cfg *config.Config) *UIHandler {
	return &UIHandler{
		coordinator: coordinator,
		cfg:         cfg,
	}
}

// SelectTab handles POST /v1/ui/tab
func (h *UIHandler) SelectTab(c *fiber.Ctx) error {
	var body struct {
		Tab models.Tab `json:"tab"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.coordinator.SelectTab(body.Tab); err != nil {
		if errors.Is(err, ui.ErrUnknownTab) {
			return badRequest(c, "Unknown tab", err)
		}
		return err
	}

	return c.JSON(h.coordinator.State())
}

// ToggleProfileMenu handles POST /v1/ui/profile-menu/toggle
func (h *UIHandler) ToggleProfileMenu(c *fiber.Ctx) error {
	h.coordinator.ToggleProfileMenu()
	return c.JSON(h.coordinator.State())
}

// ToggleMobileMenu handles POST /v1/ui/mobile-menu/toggle
func (h *UIHandler) ToggleMobileMenu(c *fiber.Ctx) error {
	h.coordinator.ToggleMobileMenu()
	return c.JSON(h.coordinator.State())
}

// PointerDown handles POST /v1/ui/pointer-down
func (h *UIHandler) PointerDown(c *fiber.Ctx) error {
	var body struct {
		Target string `json:"target"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	h.coordinator.PointerDown(body.Target)
	return c.JSON(h.coordinator.State())
}

// OpenHistory handles POST /v1/ui/history/open
func (h *UIHandler) OpenHistory(c *fiber.Ctx) error {
	records := h.coordinator.OpenHistoryModal(requestContext(c))
	return c.JSON(fiber.Map{
		"ui":      h.coordinator.State(),
		"history": records,
	})
}

// CloseHistory handles POST /v1/ui/history/close
func (h *UIHandler) CloseHistory(c *fiber.Ctx) error {
	h.coordinator.CloseHistoryModal()
	return c.JSON(h.coordinator.State())
}

// ClearHistory handles DELETE /v1/history
func (h *UIHandler) ClearHistory(c *fiber.Ctx) error {
	h.coordinator.ClearHistory(requestContext(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// OpenSettings handles POST /v1/ui/settings/open
func (h *UIHandler) OpenSettings(c *fiber.Ctx) error {
	theme := h.coordinator.OpenSettingsModal(requestContext(c))
	return c.JSON(fiber.Map{
		"ui":    h.coordinator.State(),
		"theme": theme,
	})
}

// CloseSettings handles POST /v1/ui/settings/close
func (h *UIHandler) CloseSettings(c *fiber.Ctx) error {
	h.coordinator.CloseSettingsModal()
	return c.JSON(h.coordinator.State())
}

// GetSettings handles GET /v1/settings
func (h *UIHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"theme": h.coordinator.Theme(requestContext(c))})
}

// PutSettings handles PUT /v1/settings
func (h *UIHandler) PutSettings(c *fiber.Ctx) error {
	var body struct {
		Theme models.Theme `json:"theme"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.coordinator.SetTheme(requestContext(c), body.Theme); err != nil {
		if errors.Is(err, settings.ErrInvalidTheme) {
			return badRequest(c, "Invalid theme", err)
		}
		return err
	}

	return c.JSON(fiber.Map{"theme": body.Theme})
}

// ImageAllowed handles GET /v1/images/allowed?url=
func (h *UIHandler) ImageAllowed(c *fiber.Ctx) error {
	raw := c.Query("url")
	if raw == "" {
		return badRequest(c, "url is required", nil)
	}

	return c.JSON(fiber.Map{
		"url":     raw,
		"allowed": h.cfg.ImageHostAllowed(raw),
	})
}
