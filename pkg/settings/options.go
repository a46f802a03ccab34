package settings

import (
	"log/slog"

	"github.com/dmitrymomot/abpadmin/pkg/multitenancy"
)

// Mapper rewrites a submission before it is sent. It must not mutate its input.
type Mapper[S any] func(S) S

// Transform rewrites a freshly loaded value before it is stored.
type Transform[T any] func(T) T

// Messages are the display strings used when an error carries no message of
// its own.
type Messages struct {
	Load   string
	Update string
}

// DefaultMessages are the generic fallbacks.
var DefaultMessages = Messages{
	Load:   "Failed to load settings",
	Update: "Failed to update settings",
}

// Option configures a Store.
type Option[T, S any] func(*Store[T, S])

// WithSide sets whose behalf the store acts on. Mappers and transforms only
// run for multitenancy.Tenant.
func WithSide[T, S any](side multitenancy.Side) Option[T, S] {
	return func(s *Store[T, S]) { s.side = side }
}

// WithSubmitMapper sets the tenant submission policy.
func WithSubmitMapper[T, S any](m Mapper[S]) Option[T, S] {
	return func(s *Store[T, S]) { s.mapSubmit = m }
}

// WithLoadTransform sets the tenant load policy.
func WithLoadTransform[T, S any](f Transform[T]) Option[T, S] {
	return func(s *Store[T, S]) { s.transformLoad = f }
}

// WithMessages overrides the fallback messages. Empty fields keep the defaults.
func WithMessages[T, S any](m Messages) Option[T, S] {
	return func(s *Store[T, S]) {
		if m.Load != "" {
			s.messages.Load = m.Load
		}
		if m.Update != "" {
			s.messages.Update = m.Update
		}
	}
}

// WithLogger sets the store logger.
func WithLogger[T, S any](l *slog.Logger) Option[T, S] {
	return func(s *Store[T, S]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithName sets the resource name used in logs.
func WithName[T, S any](name string) Option[T, S] {
	return func(s *Store[T, S]) { s.name = name }
}
