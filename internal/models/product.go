package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceScale and MaxPrice are the limits of the decimal(12,2) price column.
const PriceScale = 2

var MaxPrice = decimal.RequireFromString("9999999999.99")

// Base holds the fields every hardware product shares. It is embedded in each
// category record, so GORM and encoding/json flatten it into one row / object.
type Base struct {
	UUID             uuid.UUID       `json:"uuid" gorm:"type:varchar(36);primaryKey"`
	ID               int             `json:"id" gorm:"not null;uniqueIndex"`
	Name             string          `json:"name" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Brand            string          `json:"brand" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Price            decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null" validate:"gt=0"`
	ShortDescription string          `json:"shortDescription" gorm:"type:varchar(255)" validate:"required,max=255"`
	Description      string          `json:"description" gorm:"type:text;not null" validate:"required"`
	Available        bool            `json:"available" gorm:"not null"`
	Image            string          `json:"image,omitempty" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	StockAmount      int             `json:"stockAmount" gorm:"not null" validate:"gte=0"`
	Category         string          `json:"category" gorm:"type:varchar(32);not null"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Meta gives generic code access to the shared fields of any category record.
func (b *Base) Meta() *Base {
	return b
}

// Record is implemented by a pointer to every category type.
type Record interface {
	Meta() *Base
}

// RecordPtr constrains a type parameter to *T where *T is a Record. It lets
// generic code allocate a T and still call Meta on it.
type RecordPtr[T any] interface {
	*T
	Record
}
