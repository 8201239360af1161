package repositories

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// It backs the "memory" database driver and is handy for local runs.
type MemoryProductRepository[T any, P models.RecordPtr[T]] struct {
	products map[uuid.UUID]T
	table    string
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository[T any, P models.RecordPtr[T]](schema models.Schema) *MemoryProductRepository[T, P] {
	return &MemoryProductRepository[T, P]{
		products: make(map[uuid.UUID]T),
		table:    schema.Name,
	}
}

// FindAll returns one sorted page of products.
func (r *MemoryProductRepository[T, P]) FindAll(_ context.Context, q ListQuery) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.snapshot()
	value := q.Sort.Value
	if value == nil {
		value = func(rec models.Record) any { return rec.Meta().ID }
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := P(&list[i]), P(&list[j])
		c := models.CompareValues(value(a), value(b))
		if q.Descending {
			c = -c
		}
		if c == 0 {
			return a.Meta().ID < b.Meta().ID
		}
		return c < 0
	})

	if q.Offset >= len(list) {
		return []T{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[q.Offset:end], nil
}

// GetAll returns all products ordered by id.
func (r *MemoryProductRepository[T, P]) GetAll(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.snapshot()
	sort.Slice(list, func(i, j int) bool {
		return P(&list[i]).Meta().ID < P(&list[j]).Meta().ID
	})
	return list, nil
}

// GetByUUID returns a product by its uuid.
func (r *MemoryProductRepository[T, P]) GetByUUID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
	}
	return &product, nil
}

// MaxID returns the highest id stored, or 0.
func (r *MemoryProductRepository[T, P]) MaxID(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxID := 0
	for _, p := range r.products {
		if id := P(&p).Meta().ID; id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

// Create adds a new product. Like the unique index on the SQL tables, it
// refuses a second record with the same id.
func (r *MemoryProductRepository[T, P]) Create(_ context.Context, product *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := P(product).Meta()
	if meta.UUID == uuid.Nil {
		meta.UUID = uuid.New()
	}
	for _, p := range r.products {
		if P(&p).Meta().ID == meta.ID {
			return fmt.Errorf("failed to create %s: duplicate id %d", r.table, meta.ID)
		}
	}
	now := time.Now()
	meta.CreatedAt, meta.UpdatedAt = now, now
	r.products[meta.UUID] = *product
	return nil
}

// Update overwrites an existing product, keeping its identity fields.
func (r *MemoryProductRepository[T, P]) Update(_ context.Context, product *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := P(product).Meta()
	existing, ok := r.products[meta.UUID]
	if !ok {
		return fmt.Errorf("%s with uuid %s: %w", r.table, meta.UUID, ErrNotFound)
	}
	old := P(&existing).Meta()
	meta.ID, meta.Category, meta.CreatedAt = old.ID, old.Category, old.CreatedAt
	meta.UpdatedAt = time.Now()
	r.products[meta.UUID] = *product
	return nil
}

// Delete removes a product by its uuid.
func (r *MemoryProductRepository[T, P]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// SetStock replaces stockAmount.
func (r *MemoryProductRepository[T, P]) SetStock(_ context.Context, id uuid.UUID, amount int) error {
	return r.mutate(id, func(b *models.Base) error {
		b.StockAmount = amount
		return nil
	})
}

// AdjustStock adds delta to stockAmount unless the result would be negative
// or overflow.
func (r *MemoryProductRepository[T, P]) AdjustStock(_ context.Context, id uuid.UUID, delta int) (int, error) {
	var stock int
	err := r.mutate(id, func(b *models.Base) error {
		stock = b.StockAmount
		if delta > 0 && b.StockAmount > math.MaxInt-delta {
			return fmt.Errorf("%s with uuid %s has %d in stock, delta %d: %w", r.table, id, b.StockAmount, delta, ErrStockOverflow)
		}
		if b.StockAmount+delta < 0 {
			return fmt.Errorf("%s with uuid %s has %d in stock, delta %d: %w", r.table, id, b.StockAmount, delta, ErrInsufficientStock)
		}
		b.StockAmount += delta
		stock = b.StockAmount
		return nil
	})
	return stock, err
}

// SetPrice replaces price.
func (r *MemoryProductRepository[T, P]) SetPrice(_ context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.mutate(id, func(b *models.Base) error {
		b.Price = price
		return nil
	})
}

func (r *MemoryProductRepository[T, P]) mutate(id uuid.UUID, fn func(*models.Base) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
	}
	meta := P(&product).Meta()
	if err := fn(meta); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

// snapshot copies the stored products. Callers hold the lock.
func (r *MemoryProductRepository[T, P]) snapshot() []T {
	list := make([]T, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	return list
}
