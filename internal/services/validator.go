package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/apperror"
	"hwcatalog/internal/models"
)

// Validator checks category records against their validate tags and reports
// failures keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Validator{validate: v}
}

// Struct validates s. It returns nil or an *apperror.ValidationError listing
// every failing field.
func (v *Validator) Struct(s any) error {
	fields := make(map[string]string)

	if err := v.validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperror.NewInternal("failed to validate payload", err)
		}
		for _, fe := range validationErrors {
			fields[fe.Field()] = message(fe)
		}
	}

	// The float conversion above cannot see the column's scale.
	if r, ok := s.(models.Record); ok {
		if _, failed := fields["price"]; !failed {
			if msg := priceProblem(r.Meta().Price); msg != "" {
				fields["price"] = msg
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return apperror.NewValidation(fields)
}

// priceProblem reports a positive price the price column cannot store
// exactly, or "" when it fits.
func priceProblem(price decimal.Decimal) string {
	if !price.Equal(price.Truncate(models.PriceScale)) {
		return fmt.Sprintf("price must have at most %d decimal places", models.PriceScale)
	}
	if price.GreaterThan(models.MaxPrice) {
		return fmt.Sprintf("price must be at most %s", models.MaxPrice.StringFixed(models.PriceScale))
	}
	return ""
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(strings.Fields(param), ", "))
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
	}
}
