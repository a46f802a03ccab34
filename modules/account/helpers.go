package account

import (
	"strconv"
	"strings"
)

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// atoi returns -1 for non-numeric input so range rules fail.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}

func indexed(field string, i int, sub string) string {
	return field + "[" + strconv.Itoa(i) + "]." + sub
}
