package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimal сравниваем как число, чтобы работали gt/lt
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// validateInput проверяет структуру по тегам и переводит ошибки в ErrInvalidInput
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return invalidInput("%v", err)
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return invalidInput("%s", strings.Join(msgs, "; "))
}

// maxAmount граница NUMERIC(14, 2): двенадцать знаков до запятой
var maxAmount = decimal.New(1, 12)

// validateAmount: amount > 0, не больше двух знаков после запятой, меньше maxAmount.
// Лишние знаки не округляются, такая сумма отклоняется.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidInput("amount must be greater than 0")
	}
	if !amount.Equal(amount.Truncate(2)) {
		return invalidInput("amount must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return invalidInput("amount must be less than %s", maxAmount.String())
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s is not a valid identifier", field)
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
