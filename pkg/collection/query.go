package collection

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Query is ABP's paged and sorted list request.
type Query struct {
	Filter         string `json:"filter,omitempty" yaml:"filter,omitempty"`
	Sorting        string `json:"sorting,omitempty" yaml:"sorting,omitempty"`
	SkipCount      int    `json:"skipCount,omitempty" yaml:"skipCount,omitempty"`
	MaxResultCount int    `json:"maxResultCount,omitempty" yaml:"maxResultCount,omitempty"`
}

// Values encodes q as query parameters, omitting zero fields.
func (q Query) Values() url.Values {
	v := url.Values{}
	if f := strings.TrimSpace(q.Filter); f != "" {
		v.Set("filter", f)
	}
	if q.Sorting != "" {
		v.Set("sorting", q.Sorting)
	}
	if q.SkipCount > 0 {
		v.Set("skipCount", strconv.Itoa(q.SkipCount))
	}
	if q.MaxResultCount > 0 {
		v.Set("maxResultCount", strconv.Itoa(q.MaxResultCount))
	}
	return v
}

// Page is one page of results. TotalCount is the server's count of all
// matching items and may exceed len(Items).
type Page[T any] struct {
	Items      []T   `json:"items" yaml:"items"`
	TotalCount int64 `json:"totalCount" yaml:"totalCount"`
}

// Service is the remote CRUD surface a Store drives.
type Service[T any, ID comparable, C, U any] interface {
	List(ctx context.Context, q Query) (Page[T], error)
	Get(ctx context.Context, id ID) (T, error)
	Create(ctx context.Context, in C) (T, error)
	Update(ctx context.Context, id ID, in U) (T, error)
	Delete(ctx context.Context, id ID) error
}

// SortOrder is the direction of the tracked sort key.
type SortOrder string

const (
	Unsorted SortOrder = ""
	Asc      SortOrder = "asc"
	Desc     SortOrder = "desc"
)

// Sink receives every committed page, e.g. a shared state service.
type Sink[T any] interface {
	Set(items []T, total int64)
	Reset()
}
