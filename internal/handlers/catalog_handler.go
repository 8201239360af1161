package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"hwcatalog/internal/apperror"
	"hwcatalog/internal/metrics"
	"hwcatalog/internal/models"
	"hwcatalog/internal/services"
)

// CatalogHandler serves the cross-category product listing.
type CatalogHandler struct {
	service *services.CatalogService
	metrics *metrics.Metrics
	resp    responder
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, m *metrics.Metrics, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		metrics: m,
		resp:    newResponder("all", m, logger),
	}
}

// RegisterRoutes registers the aggregate listing route.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListAll)
}

// HandleListAll returns every product of every category.
func (h *CatalogHandler) HandleListAll(c *fiber.Ctx) error {
	const op = "list_all"

	records, err := h.service.ListAll(c.UserContext())
	var notFound *apperror.NotFoundError
	if err == nil || errors.As(err, &notFound) {
		h.recordCounts(records)
	}
	if err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusOK)
	return c.JSON(records)
}

// recordCounts sets the gauge of every category, so categories that emptied
// since the last read drop to zero.
func (h *CatalogHandler) recordCounts(records []models.Record) {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Meta().Category]++
	}
	for _, category := range h.service.Categories() {
		h.metrics.SetProductCount(category, counts[category])
	}
}
