package validator

import (
	"fmt"
	"slices"
)

// OneOf validates that value is one of options.
func OneOf[T comparable](field string, value T, options ...T) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(options, value)
		},
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be one of %v", options),
			TranslationKey:    "validation.one_of",
			TranslationValues: map[string]any{"field": field, "options": options},
		},
	}
}

// Between validates min <= value <= max.
func Between[T Numeric](field string, value, min, max T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Error: ValidationError{
			Field:             field,
			Message:           fmt.Sprintf("must be between %v and %v", min, max),
			TranslationKey:    "validation.between",
			TranslationValues: map[string]any{"field": field, "min": min, "max": max},
		},
	}
}
