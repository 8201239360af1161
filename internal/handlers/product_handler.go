package handlers

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/apperror"
	"hwcatalog/internal/metrics"
	"hwcatalog/internal/models"
	"hwcatalog/internal/services"
)

// ProductHandler handles HTTP requests for one product category.
type ProductHandler[T any, P models.RecordPtr[T]] struct {
	service *services.ProductService[T, P]
	resp    responder
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler[T any, P models.RecordPtr[T]](service *services.ProductService[T, P], m *metrics.Metrics, logger *slog.Logger) *ProductHandler[T, P] {
	return &ProductHandler[T, P]{
		service: service,
		resp:    newResponder(service.Schema().Name, m, logger),
	}
}

// RegisterRoutes registers the category routes under the schema path.
func (h *ProductHandler[T, P]) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/" + h.service.Schema().Path)
	routes.Get("/", h.HandleList)
	routes.Get("/:uuid", h.HandleGet)
	routes.Post("/", h.HandleCreate)
	routes.Put("/:uuid", h.HandleUpdate)
	routes.Delete("/:uuid", h.HandleDelete)
	routes.Put("/:uuid/stock", h.HandleSetStock)
	routes.Patch("/:uuid/stock", h.HandleAdjustStock)
	routes.Put("/:uuid/price", h.HandleSetPrice)
}

// HandleList returns one page: ?page=1&pageSize=10&orderBy=id&ascending=true.
func (h *ProductHandler[T, P]) HandleList(c *fiber.Ctx) error {
	const op = "list"

	params, err := listParams(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	products, err := h.service.List(c.UserContext(), params)
	if err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusOK)
	return c.JSON(products)
}

// HandleGet retrieves a single product by its uuid.
func (h *ProductHandler[T, P]) HandleGet(c *fiber.Ctx) error {
	const op = "get"

	id, err := uuidParam(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	product, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusOK)
	return c.JSON(product)
}

// HandleCreate creates a product and points Location at it.
func (h *ProductHandler[T, P]) HandleCreate(c *fiber.Ctx) error {
	const op = "create"

	product := new(T)
	if err := c.BodyParser(product); err != nil {
		return h.resp.fail(c, op, apperror.NewBadRequest("Invalid request body"))
	}
	created, err := h.service.Create(c.UserContext(), product)
	if err != nil {
		return h.resp.fail(c, op, err)
	}

	location := strings.TrimRight(c.Path(), "/") + "/" + P(created).Meta().UUID.String()
	c.Location(location)
	h.resp.ok(c, op, fiber.StatusCreated)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate replaces a product.
func (h *ProductHandler[T, P]) HandleUpdate(c *fiber.Ctx) error {
	const op = "update"

	id, err := uuidParam(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	product := new(T)
	if err := c.BodyParser(product); err != nil {
		return h.resp.fail(c, op, apperror.NewBadRequest("Invalid request body"))
	}
	if err := h.service.Update(c.UserContext(), id, product); err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusNoContent)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete deletes a product.
func (h *ProductHandler[T, P]) HandleDelete(c *fiber.Ctx) error {
	const op = "delete"

	id, err := uuidParam(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusNoContent)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetStock replaces the stock amount. The body is a bare JSON integer.
func (h *ProductHandler[T, P]) HandleSetStock(c *fiber.Ctx) error {
	const op = "set_stock"

	id, err := uuidParam(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	var amount int
	if err := json.Unmarshal(c.Body(), &amount); err != nil {
		return h.resp.fail(c, op, apperror.NewBadRequest("stock amount must be a JSON integer"))
	}
	if err := h.service.SetStock(c.UserContext(), id, amount); err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusNoContent)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAdjustStock adds a signed JSON integer to the stock amount.
func (h *ProductHandler[T, P]) HandleAdjustStock(c *fiber.Ctx) error {
	const op = "adjust_stock"

	id, err := uuidParam(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	var delta int
	if err := json.Unmarshal(c.Body(), &delta); err != nil {
		return h.resp.fail(c, op, apperror.NewBadRequest("stock delta must be a JSON integer"))
	}
	if _, err := h.service.AdjustStock(c.UserContext(), id, delta); err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusNoContent)
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetPrice replaces the price. The body is a bare JSON number.
func (h *ProductHandler[T, P]) HandleSetPrice(c *fiber.Ctx) error {
	const op = "set_price"

	id, err := uuidParam(c)
	if err != nil {
		return h.resp.fail(c, op, err)
	}
	var price decimal.Decimal
	if err := json.Unmarshal(c.Body(), &price); err != nil {
		return h.resp.fail(c, op, apperror.NewBadRequest("price must be a JSON number"))
	}
	if err := h.service.SetPrice(c.UserContext(), id, price); err != nil {
		return h.resp.fail(c, op, err)
	}

	h.resp.ok(c, op, fiber.StatusNoContent)
	return c.SendStatus(fiber.StatusNoContent)
}

func uuidParam(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("uuid")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewBadRequest("invalid uuid %q", raw)
	}
	return id, nil
}

func listParams(c *fiber.Ctx) (services.ListParams, error) {
	params := services.ListParams{
		Page:      services.DefaultPage,
		PageSize:  services.DefaultPageSize,
		OrderBy:   c.Query("orderBy", "id"),
		Ascending: true,
	}

	var err error
	if raw := c.Query("page"); raw != "" {
		if params.Page, err = strconv.Atoi(raw); err != nil {
			return params, apperror.NewBadRequest("page must be an integer")
		}
	}
	if raw := c.Query("pageSize"); raw != "" {
		if params.PageSize, err = strconv.Atoi(raw); err != nil {
			return params, apperror.NewBadRequest("pageSize must be an integer")
		}
	}
	if raw := c.Query("ascending"); raw != "" {
		if params.Ascending, err = strconv.ParseBool(raw); err != nil {
			return params, apperror.NewBadRequest("ascending must be true or false")
		}
	}
	return params, nil
}
