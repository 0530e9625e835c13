package handlers

import (
	"context"

	"stayprice-session/internal/logging"
	"stayprice-session/internal/models"

	"github.com/gofiber/fiber/v2"
)

// requestIDKey matches the requestid middleware's default context key
const requestIDKey = "requestid"

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}

func badRequest(c *fiber.Ctx, msg string, err error) error {
	resp := models.ErrorResponse{
		Error: msg,
		Code:  fiber.StatusBadRequest,
	}
	if err != nil {
		resp.Message = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

// requestContext carries the request id into the service layer's logs
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if id, ok := c.Locals(requestIDKey).(string); ok && id != "" {
		ctx = logging.WithRequestID(ctx, id)
	}
	return ctx
}
