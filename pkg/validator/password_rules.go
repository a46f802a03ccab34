package validator

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy mirrors ABP Identity's password options.
type PasswordPolicy struct {
	MinLength        int
	RequiredUnique   int
	RequireDigit     bool
	RequireLowercase bool
	RequireUppercase bool
	RequireNonAlnum  bool
}

// DefaultPasswordPolicy returns ABP Identity's out-of-the-box policy.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        6,
		RequiredUnique:   1,
		RequireDigit:     true,
		RequireLowercase: true,
		RequireUppercase: true,
		RequireNonAlnum:  true,
	}
}

// Requirements lists the unmet requirements of p for value, empty when value passes.
func (p PasswordPolicy) Requirements(value string) []string {
	var digit, lower, upper, other bool
	unique := map[rune]struct{}{}
	n := 0
	for _, r := range value {
		n++
		unique[r] = struct{}{}
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}

	var missing []string
	if n < p.MinLength {
		missing = append(missing, fmt.Sprintf("at least %d characters", p.MinLength))
	}
	if len(unique) < p.RequiredUnique {
		missing = append(missing, fmt.Sprintf("at least %d unique characters", p.RequiredUnique))
	}
	if p.RequireDigit && !digit {
		missing = append(missing, "a digit")
	}
	if p.RequireLowercase && !lower {
		missing = append(missing, "a lowercase letter")
	}
	if p.RequireUppercase && !upper {
		missing = append(missing, "an uppercase letter")
	}
	if p.RequireNonAlnum && !other {
		missing = append(missing, "a non-alphanumeric character")
	}
	return missing
}

// Password validates value against policy.
func Password(field, value string, policy PasswordPolicy) Rule {
	missing := policy.Requirements(value)
	return Rule{
		Check: func() bool {
			return len(missing) == 0
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must contain " + strings.Join(missing, ", "),
			TranslationKey:    "validation.password_policy",
			TranslationValues: map[string]any{"field": field, "missing": missing},
		},
	}
}
