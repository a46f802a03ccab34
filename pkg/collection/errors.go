package collection

import "errors"

var (
	// ErrInvalidSortOrder is returned by SetSort for orders other than asc, desc and "".
	ErrInvalidSortOrder = errors.New("collection: invalid sort order")

	// ErrRefreshAfterMutation wraps a list reload failure that followed a successful mutation.
	ErrRefreshAfterMutation = errors.New("collection: mutation succeeded but list refresh failed")
)
