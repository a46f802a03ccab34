package settings

import (
	"context"

	"github.com/dmitrymomot/abpadmin/pkg/restclient"
)

// Requester is the part of *restclient.Client adapters use.
type Requester interface {
	Get(ctx context.Context, path string, out any, opts ...restclient.RequestOption) error
	Put(ctx context.Context, path string, in, out any, opts ...restclient.RequestOption) error
}

// Source is what a Store reads from and writes to.
type Source[T, S any] interface {
	Get(ctx context.Context) (T, error)
	Update(ctx context.Context, in S) (S, error)
}

// Adapter binds a fixed resource path to Get and Update.
type Adapter[T, S any] struct {
	client Requester
	name   string
	path   string
}

// NewAdapter returns an adapter for path. name identifies the resource in logs.
func NewAdapter[T, S any](client Requester, name, path string) *Adapter[T, S] {
	return &Adapter[T, S]{client: client, name: name, path: path}
}

// Name returns the resource name.
func (a *Adapter[T, S]) Name() string { return a.name }

// Path returns the fixed resource path.
func (a *Adapter[T, S]) Path() string { return a.path }

// Get fetches the current settings. Client errors are returned unchanged.
func (a *Adapter[T, S]) Get(ctx context.Context) (T, error) {
	var out T
	if err := a.client.Get(ctx, a.path, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update sends in and returns the server's representation of it. An empty
// response body yields the zero S.
func (a *Adapter[T, S]) Update(ctx context.Context, in S) (S, error) {
	var out S
	if err := a.client.Put(ctx, a.path, in, &out); err != nil {
		var zero S
		return zero, err
	}
	return out, nil
}
