package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"hwcatalog/internal/apperror"
	"hwcatalog/internal/metrics"
)

// responder logs and counts the outcome of every handled request and writes
// error bodies in one shape.
type responder struct {
	category string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func newResponder(category string, m *metrics.Metrics, logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{category: category, metrics: m, logger: logger}
}

func (r responder) attrs(c *fiber.Ctx, op string, status int) []any {
	return []any{
		"method", c.Method(),
		"path", c.Path(),
		"category", r.category,
		"operation", op,
		"status", status,
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	}
}

// ok records a success. The caller writes the response.
func (r responder) ok(c *fiber.Ctx, op string, status int) {
	r.logger.Info("request handled", r.attrs(c, op, status)...)
	r.metrics.ObserveOperation(r.category, op, status)
}

// fail maps err to its status, logs it and writes the error body.
func (r responder) fail(c *fiber.Ctx, op string, err error) error {
	status := fiber.StatusInternalServerError
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus()
	}

	attrs := append(r.attrs(c, op, status), "error", err)
	if status >= fiber.StatusInternalServerError {
		r.logger.Error("request failed", attrs...)
	} else {
		r.logger.Warn("request rejected", attrs...)
	}
	r.metrics.ObserveOperation(r.category, op, status)

	return c.Status(status).JSON(errorBody(err, status))
}

func errorBody(err error, status int) fiber.Map {
	if status >= fiber.StatusInternalServerError {
		return fiber.Map{"message": "Internal server error"}
	}

	var validation *apperror.ValidationError
	if errors.As(err, &validation) {
		return fiber.Map{
			"message": "Validation failed",
			"errors":  validation.Fields,
		}
	}
	return fiber.Map{"message": err.Error()}
}
