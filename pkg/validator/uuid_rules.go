package validator

import "github.com/google/uuid"

// NonNilUUID validates that value is not uuid.Nil.
func NonNilUUID(field string, value uuid.UUID) Rule {
	return Rule{
		Check: func() bool {
			return value != uuid.Nil
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid non-empty UUID",
			TranslationKey:    "validation.uuid_required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// UUID validates that value parses as a UUID.
func UUID(field, value string) Rule {
	return Rule{
		Check: func() bool {
			_, err := uuid.Parse(value)
			return err == nil
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid UUID",
			TranslationKey:    "validation.uuid",
			TranslationValues: map[string]any{"field": field},
		},
	}
}
