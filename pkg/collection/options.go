package collection

import "log/slog"

// Messages are the display strings used when an error carries no message of its own.
type Messages struct {
	List   string
	Get    string
	Create string
	Update string
	Delete string
}

// DefaultMessages are the generic fallbacks.
var DefaultMessages = Messages{
	List:   "Failed to fetch list",
	Get:    "Failed to fetch item",
	Create: "Failed to create item",
	Update: "Failed to update item",
	Delete: "Failed to delete item",
}

// Option configures a Store.
type Option[T any, ID comparable, C, U any] func(*Store[T, ID, C, U])

// WithMessages overrides fallback messages. Empty fields keep the defaults.
func WithMessages[T any, ID comparable, C, U any](m Messages) Option[T, ID, C, U] {
	return func(s *Store[T, ID, C, U]) {
		set := func(dst *string, v string) {
			if v != "" {
				*dst = v
			}
		}
		set(&s.messages.List, m.List)
		set(&s.messages.Get, m.Get)
		set(&s.messages.Create, m.Create)
		set(&s.messages.Update, m.Update)
		set(&s.messages.Delete, m.Delete)
	}
}

// WithSink forwards committed pages to sink.
func WithSink[T any, ID comparable, C, U any](sink Sink[T]) Option[T, ID, C, U] {
	return func(s *Store[T, ID, C, U]) { s.sink = sink }
}

// WithLogger sets the store logger.
func WithLogger[T any, ID comparable, C, U any](l *slog.Logger) Option[T, ID, C, U] {
	return func(s *Store[T, ID, C, U]) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithName sets the entity name used in logs.
func WithName[T any, ID comparable, C, U any](name string) Option[T, ID, C, U] {
	return func(s *Store[T, ID, C, U]) { s.name = name }
}
