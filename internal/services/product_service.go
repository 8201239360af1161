package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/apperror"
	"hwcatalog/internal/lock"
	"hwcatalog/internal/models"
	"hwcatalog/internal/repositories"
	"hwcatalog/pkg/rabbitmq"
)

// Listing defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// EventPublisher receives a change event after every successful mutation.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event rabbitmq.ProductEvent) error
}

// ListParams selects one page of a category listing.
type ListParams struct {
	Page     int
	PageSize int
	// OrderBy names a schema field, in any letter case. Unknown names fall
	// back to id.
	OrderBy   string
	Ascending bool
}

// ProductService handles business logic for one product category. Every
// category runs its own instance over its own repository.
type ProductService[T any, P models.RecordPtr[T]] struct {
	repo      repositories.ProductRepository[T]
	schema    models.Schema
	validator *Validator
	locker    lock.Locker
	publisher EventPublisher
	logger    *slog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService[T any, P models.RecordPtr[T]](
	repo repositories.ProductRepository[T],
	schema models.Schema,
	locker lock.Locker,
	publisher EventPublisher,
	logger *slog.Logger,
) *ProductService[T, P] {
	if locker == nil {
		locker = lock.NewLocal()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService[T, P]{
		repo:      repo,
		schema:    schema,
		validator: NewValidator(),
		locker:    locker,
		publisher: publisher,
		logger:    logger.With("category", schema.Name),
	}
}

// Schema returns the category schema the service was built from.
func (s *ProductService[T, P]) Schema() models.Schema {
	return s.schema
}

// List returns one sorted page of the category. An empty page is NotFound.
func (s *ProductService[T, P]) List(ctx context.Context, params ListParams) ([]T, error) {
	if params.Page < 1 || params.PageSize < 1 {
		return nil, apperror.NewBadRequest("page and pageSize must be positive integers")
	}

	q := repositories.ListQuery{Limit: params.PageSize, Descending: !params.Ascending}
	if params.OrderBy != "" {
		if field, ok := s.schema.Field(params.OrderBy); ok {
			q.Sort = field
		} else {
			s.logger.Debug("ignoring unknown orderBy", "orderBy", params.OrderBy)
		}
	}
	if params.Page-1 > math.MaxInt/params.PageSize {
		return nil, apperror.NewNotFound("no %s products found on page %d", s.schema.Name, params.Page)
	}
	q.Offset = (params.Page - 1) * params.PageSize

	products, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("failed to list %s products", s.schema.Name), err)
	}
	if len(products) == 0 {
		return nil, apperror.NewNotFound("no %s products found on page %d", s.schema.Name, params.Page)
	}
	return products, nil
}

// Get retrieves a single product by its uuid.
func (s *ProductService[T, P]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	product, err := s.repo.GetByUUID(ctx, id)
	if err != nil {
		return nil, s.storeError("get", id, err)
	}
	return product, nil
}

// Create validates product, assigns its uuid, sequence id and category, and
// stores it. The max(id)+1 read and the insert run under the category lock.
func (s *ProductService[T, P]) Create(ctx context.Context, product *T) (*T, error) {
	if err := s.validator.Struct(product); err != nil {
		return nil, err
	}

	meta := P(product).Meta()
	err := s.locker.WithLock(ctx, "sequence:"+s.schema.Name, func(ctx context.Context) error {
		maxID, err := s.repo.MaxID(ctx)
		if err != nil {
			return err
		}
		meta.UUID = uuid.New()
		meta.ID = maxID + 1
		meta.Category = s.schema.Name
		return s.repo.Create(ctx, product)
	})
	if err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("failed to create %s", s.schema.Name), err)
	}

	s.publish(ctx, rabbitmq.EventCreated, meta.UUID, meta.ID, product)
	return product, nil
}

// Update replaces every mutable field of the product identified by id.
// uuid, id, category and createdAt are kept; the repository writes the stored
// values back into product, so the event carries the real id.
func (s *ProductService[T, P]) Update(ctx context.Context, id uuid.UUID, product *T) error {
	if err := s.validator.Struct(product); err != nil {
		return err
	}

	meta := P(product).Meta()
	meta.UUID = id
	meta.Category = s.schema.Name
	if err := s.repo.Update(ctx, product); err != nil {
		return s.storeError("update", id, err)
	}

	s.publish(ctx, rabbitmq.EventUpdated, id, meta.ID, product)
	return nil
}

// Delete permanently removes a product.
func (s *ProductService[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete", id, err)
	}

	s.publish(ctx, rabbitmq.EventDeleted, id, 0, nil)
	return nil
}

// SetStock replaces the stock amount. Negative amounts fail validation.
func (s *ProductService[T, P]) SetStock(ctx context.Context, id uuid.UUID, amount int) error {
	if amount < 0 {
		return apperror.NewValidation(map[string]string{
			"stockAmount": "stockAmount must be greater than or equal to 0",
		})
	}
	if err := s.repo.SetStock(ctx, id, amount); err != nil {
		return s.storeError("set stock of", id, err)
	}

	s.publish(ctx, rabbitmq.EventStockChanged, id, 0, map[string]int{"stockAmount": amount})
	return nil
}

// AdjustStock adds delta to the stock amount and returns the result. A delta
// that would leave stock below zero, or overflow it, is rejected and nothing
// changes.
func (s *ProductService[T, P]) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	stock, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return stock, apperror.NewBadRequest("cannot adjust stock by %d: only %d in stock", delta, stock)
		}
		if errors.Is(err, repositories.ErrStockOverflow) {
			return stock, apperror.NewBadRequest("cannot adjust stock by %d: %d in stock would overflow", delta, stock)
		}
		return 0, s.storeError("adjust stock of", id, err)
	}

	s.publish(ctx, rabbitmq.EventStockChanged, id, 0, map[string]int{"stockAmount": stock, "delta": delta})
	return stock, nil
}

// SetPrice replaces the price. Zero and negative prices are rejected.
func (s *ProductService[T, P]) SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	if !price.IsPositive() {
		return apperror.NewBadRequest("price must be greater than 0")
	}
	if msg := priceProblem(price); msg != "" {
		return apperror.NewBadRequest("%s", msg)
	}
	if err := s.repo.SetPrice(ctx, id, price); err != nil {
		return s.storeError("set price of", id, err)
	}

	s.publish(ctx, rabbitmq.EventPriceChanged, id, 0, map[string]decimal.Decimal{"price": price})
	return nil
}

// All returns the whole category ordered by id, for the aggregate listing.
func (s *ProductService[T, P]) All(ctx context.Context) ([]models.Record, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Sprintf("failed to read all %s products", s.schema.Name), err)
	}

	records := make([]models.Record, len(products))
	for i := range products {
		records[i] = P(&products[i])
	}
	return records, nil
}

func (s *ProductService[T, P]) storeError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NewNotFound("%s with uuid %s not found", s.schema.Name, id)
	}
	return apperror.NewInternal(fmt.Sprintf("failed to %s %s %s", op, s.schema.Name, id), err)
}

// publish sends a change event. Failures are logged and never fail the
// mutation that already happened.
func (s *ProductService[T, P]) publish(ctx context.Context, eventType string, id uuid.UUID, seq int, payload any) {
	if s.publisher == nil {
		return
	}

	event := rabbitmq.ProductEvent{
		Type:       eventType,
		Category:   s.schema.Name,
		UUID:       id,
		ID:         seq,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("failed to marshal event payload", "type", eventType, "uuid", id, "error", err)
			return
		}
		event.Payload = body
	}

	if err := s.publisher.PublishProductEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish product event", "type", eventType, "uuid", id, "error", err)
	}
}
