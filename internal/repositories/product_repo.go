package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the given uuid.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when a stock delta would leave the
	// record with a negative stockAmount. Nothing is written in that case.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStockOverflow is returned when a positive stock delta would push
	// stockAmount past the largest storable integer.
	ErrStockOverflow = errors.New("stock amount overflow")
)

// ListQuery selects one page of a category collection.
type ListQuery struct {
	Offset int
	Limit  int
	// Sort is the field to order by. The zero Field means "id".
	Sort       models.Field
	Descending bool
}

// ProductRepository defines data access for one product category.
type ProductRepository[T any] interface {
	FindAll(ctx context.Context, q ListQuery) ([]T, error)
	GetAll(ctx context.Context) ([]T, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*T, error)
	MaxID(ctx context.Context) (int, error)
	Create(ctx context.Context, product *T) error
	// Update writes product and refreshes it with the stored identity fields.
	Update(ctx context.Context, product *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, amount int) error
	// AdjustStock adds delta to stockAmount and returns the new value.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
	SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
}
