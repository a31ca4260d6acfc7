package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/marketdata"
	"github.com/shopspring/decimal"
)

// ErrInvalidInputs wraps every plan input validation failure.
var ErrInvalidInputs = errors.New("invalid plan inputs")

// CustomValidator wraps the validator with decimal support.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a validator that compares decimal fields as float64.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return &CustomValidator{validator: v}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// ValidateSettings validates application settings.
func (cv *CustomValidator) ValidateSettings(s *Settings) error {
	if err := cv.validator.Struct(s); err != nil {
		return wrapValidation("settings", err)
	}
	return nil
}

// Validate checks any tagged struct; what names it in the error message.
func (cv *CustomValidator) Validate(what string, v interface{}) error {
	if err := cv.validator.Struct(v); err != nil {
		return wrapValidation(what, err)
	}
	return nil
}

// ValidateInputs checks field ranges and, when registry is set, that the market exists.
func (cv *CustomValidator) ValidateInputs(in *domain.PlanInputs, registry *marketdata.Registry) error {
	if err := cv.validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInputs, wrapValidation("plan inputs", err))
	}
	if registry != nil {
		if _, err := registry.Market(in.Market); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInputs, err)
		}
	}
	return nil
}

func wrapValidation(what string, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return formatValidationErrors(what, validationErrors)
	}
	return fmt.Errorf("%s validation failed: %w", what, err)
}

func formatValidationErrors(what string, validationErrors validator.ValidationErrors) error {
	var msgs []string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()

		switch tag {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field '%s' is required", field))
		case "gt", "gte", "lt", "lte":
			msgs = append(msgs, fmt.Sprintf("field '%s' must be %s %s", field, tag, fieldError.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field '%s' has invalid value '%v', want one of: %s", field, fieldError.Value(), fieldError.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", field, tag))
		}
	}
	return fmt.Errorf("%s validation failed: %s", what, strings.Join(msgs, "; "))
}
