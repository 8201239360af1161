package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field describes one sortable attribute of a category: the name clients use
// in orderBy, the column it is stored in, and how to read it from a record.
type Field struct {
	Name   string
	Column string
	Value  func(Record) any
}

// Schema is the resource definition one engine instance is built from.
type Schema struct {
	// Name is the category discriminator stored on every record.
	Name string
	// Path is the URL segment under /api.
	Path   string
	Fields []Field
}

// Field looks up a field by name, ignoring case, so both "stockAmount" and
// "StockAmount" resolve.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}

func newSchema(name, path string, fields ...Field) Schema {
	return Schema{
		Name:   name,
		Path:   path,
		Fields: append(baseFields(), fields...),
	}
}

func baseFields() []Field {
	return []Field{
		{Name: "uuid", Column: "uuid", Value: func(r Record) any { return r.Meta().UUID.String() }},
		{Name: "id", Column: "id", Value: func(r Record) any { return r.Meta().ID }},
		{Name: "name", Column: "name", Value: func(r Record) any { return r.Meta().Name }},
		{Name: "brand", Column: "brand", Value: func(r Record) any { return r.Meta().Brand }},
		{Name: "price", Column: "price", Value: func(r Record) any { return r.Meta().Price }},
		{Name: "shortDescription", Column: "short_description", Value: func(r Record) any { return r.Meta().ShortDescription }},
		{Name: "description", Column: "description", Value: func(r Record) any { return r.Meta().Description }},
		{Name: "available", Column: "available", Value: func(r Record) any { return r.Meta().Available }},
		{Name: "image", Column: "image", Value: func(r Record) any { return r.Meta().Image }},
		{Name: "stockAmount", Column: "stock_amount", Value: func(r Record) any { return r.Meta().StockAmount }},
		{Name: "category", Column: "category", Value: func(r Record) any { return r.Meta().Category }},
		{Name: "createdAt", Column: "created_at", Value: func(r Record) any { return r.Meta().CreatedAt }},
		{Name: "updatedAt", Column: "updated_at", Value: func(r Record) any { return r.Meta().UpdatedAt }},
	}
}

// Schemas returns every category schema in aggregate listing order.
func Schemas() []Schema {
	return []Schema{
		CPUSchema,
		GPUSchema,
		MotherboardSchema,
		RAMSchema,
		StorageDeviceSchema,
		PowerSupplySchema,
	}
}

// CompareValues orders two field values of the same kind. It returns a
// negative number when a sorts before b, zero when equal, positive otherwise.
// Values of unknown or mismatched kinds compare as equal.
func CompareValues(a, b any) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmpOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmpOrdered(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case decimal.Decimal:
		if bv, ok := b.(decimal.Decimal); ok {
			return av.Cmp(bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return 0
}

func cmpOrdered[V int | float64](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
