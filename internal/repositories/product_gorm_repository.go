package repositories

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hwcatalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository for
// one category table.
type GORMProductRepository[T any, P models.RecordPtr[T]] struct {
	db    *gorm.DB
	table string
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository[T any, P models.RecordPtr[T]](db *gorm.DB, schema models.Schema) *GORMProductRepository[T, P] {
	return &GORMProductRepository[T, P]{
		db:    db,
		table: schema.Name,
	}
}

// FindAll retrieves one sorted page of products.
func (r *GORMProductRepository[T, P]) FindAll(ctx context.Context, q ListQuery) ([]T, error) {
	column := q.Sort.Column
	if column == "" {
		column = "id"
	}

	tx := r.db.WithContext(ctx).Model(new(T)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Descending})
	if column != "id" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	var products []T
	if err := tx.Offset(q.Offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s products: %w", r.table, err)
	}
	return products, nil
}

// GetAll retrieves every product of the category ordered by id.
func (r *GORMProductRepository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	var products []T
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all %s products: %w", r.table, err)
	}
	return products, nil
}

// GetByUUID retrieves a single product by its uuid.
func (r *GORMProductRepository[T, P]) GetByUUID(ctx context.Context, id uuid.UUID) (*T, error) {
	var product T
	if err := r.db.WithContext(ctx).First(&product, "uuid = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s by uuid %s: %w", r.table, id, err)
	}
	return &product, nil
}

// MaxID returns the highest sequence id in the table, or 0 when it is empty.
func (r *GORMProductRepository[T, P]) MaxID(ctx context.Context) (int, error) {
	var maxID int
	row := r.db.WithContext(ctx).Model(new(T)).Select("COALESCE(MAX(id), 0)").Row()
	if err := row.Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read max %s id: %w", r.table, err)
	}
	return maxID, nil
}

// Create inserts a product. The caller assigns uuid and id.
func (r *GORMProductRepository[T, P]) Create(ctx context.Context, product *T) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.table, err)
	}
	return nil
}

// Update overwrites every mutable column of the product identified by its
// uuid, zero values included. uuid, id, category and created_at are kept, and
// product is reloaded with the stored row.
func (r *GORMProductRepository[T, P]) Update(ctx context.Context, product *T) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("*").
		Omit("uuid", "id", "category", "created_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s: %w", r.table, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with uuid %s: %w", r.table, P(product).Meta().UUID, ErrNotFound)
	}

	if err := r.db.WithContext(ctx).First(product, "uuid = ?", P(product).Meta().UUID).Error; err != nil {
		return fmt.Errorf("failed to reload %s: %w", r.table, err)
	}
	return nil
}

// Delete permanently removes a product by its uuid.
func (r *GORMProductRepository[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("uuid = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.table, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
	}
	return nil
}

// SetStock replaces stockAmount.
func (r *GORMProductRepository[T, P]) SetStock(ctx context.Context, id uuid.UUID, amount int) error {
	return r.updateColumn(ctx, id, "stock_amount", amount)
}

// AdjustStock applies delta in one conditional statement, so concurrent
// adjustments can never leave stock below zero. The guard compares without
// adding, so a huge positive delta cannot overflow inside the database.
func (r *GORMProductRepository[T, P]) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var stock int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(new(T)).Where("uuid = ?", id)
		if delta > 0 {
			q = q.Where("stock_amount <= ?", math.MaxInt64-int64(delta))
		} else {
			q = q.Where("stock_amount + ? >= 0", delta)
		}
		res := q.Update("stock_amount", gorm.Expr("stock_amount + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("failed to adjust %s stock: %w", r.table, res.Error)
		}

		var product T
		if err := tx.First(&product, "uuid = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
			}
			return fmt.Errorf("failed to reload %s: %w", r.table, err)
		}
		stock = P(&product).Meta().StockAmount

		if res.RowsAffected == 0 {
			cause := ErrInsufficientStock
			if delta > 0 {
				cause = ErrStockOverflow
			}
			return fmt.Errorf("%s with uuid %s has %d in stock, delta %d: %w", r.table, id, stock, delta, cause)
		}
		return nil
	})
	return stock, err
}

// SetPrice replaces price.
func (r *GORMProductRepository[T, P]) SetPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	return r.updateColumn(ctx, id, "price", price)
}

func (r *GORMProductRepository[T, P]) updateColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	res := r.db.WithContext(ctx).Model(new(T)).Where("uuid = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s %s: %w", r.table, column, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with uuid %s: %w", r.table, id, ErrNotFound)
	}
	return nil
}
