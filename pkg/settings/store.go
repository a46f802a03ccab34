package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/abpadmin/pkg/failure"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
	"github.com/dmitrymomot/abpadmin/pkg/multitenancy"
	"github.com/dmitrymomot/abpadmin/pkg/notify"
)

// State is a point-in-time view of a Store. Data is nil until the first
// successful load; the value it points to must be treated as read-only.
type State[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

// Store synchronizes one settings resource with the server.
// All methods are safe for concurrent use.
type Store[T, S any] struct {
	source        Source[T, S]
	side          multitenancy.Side
	mapSubmit     Mapper[S]
	transformLoad Transform[T]
	messages      Messages
	logger        *slog.Logger
	name          string

	mu     sync.Mutex
	seq    uint64
	state  State[T]
	closed bool

	mount    sync.Once
	mountErr error
	notifier notify.Notifier
}

// NewStore creates an idle store over source.
func NewStore[T, S any](source Source[T, S], opts ...Option[T, S]) *Store[T, S] {
	s := &Store[T, S]{
		source:   source,
		messages: DefaultMessages,
		logger:   logger.Discard(),
		name:     "settings",
	}
	if n, ok := source.(interface{ Name() string }); ok && n.Name() != "" {
		s.name = n.Name()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Side reports whose behalf the store acts on.
func (s *Store[T, S]) Side() multitenancy.Side { return s.side }

// State returns the current state.
func (s *Store[T, S]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to run after every state change.
func (s *Store[T, S]) Subscribe(fn func()) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}

// Mount performs the initial Reload. Only the first call does any work;
// later calls return the first call's error.
func (s *Store[T, S]) Mount(ctx context.Context) error {
	s.mount.Do(func() { s.mountErr = s.Reload(ctx) })
	return s.mountErr
}

// Reload fetches the resource and replaces the snapshot. On failure the
// previous snapshot is kept and the error message is recorded.
func (s *Store[T, S]) Reload(ctx context.Context) error {
	seq, ok := s.begin()
	if !ok {
		return ErrClosed
	}
	s.logger.DebugContext(ctx, "reload started", logger.Component("settings"), logger.Resource(s.name), logger.Seq(seq))

	data, err := failure.Capture(func() (T, error) { return s.source.Get(ctx) })
	if err != nil {
		s.fail(ctx, seq, err, s.messages.Load)
		return err
	}
	if s.side == multitenancy.Tenant && s.transformLoad != nil {
		data = s.transformLoad(data)
	}

	s.commit(ctx, seq, func(st *State[T]) {
		st.Data = &data
		st.Loading = false
		st.Error = ""
	})
	return nil
}

// Submit sends in (mapped for tenant callers) and reloads on success. The
// snapshot is never merged from in. If the mapped payload has a Validate
// method it runs before the request and a failure is recorded without one. If the reload fails,
// the returned error wraps ErrReloadAfterSubmit.
func (s *Store[T, S]) Submit(ctx context.Context, in S) error {
	seq, ok := s.begin()
	if !ok {
		return ErrClosed
	}
	s.logger.DebugContext(ctx, "submit started", logger.Component("settings"), logger.Resource(s.name), logger.Seq(seq))

	payload := in
	if s.side == multitenancy.Tenant && s.mapSubmit != nil {
		payload = s.mapSubmit(in)
	}

	if v, ok := any(payload).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			s.fail(ctx, seq, err, s.messages.Update)
			return err
		}
	}

	if _, err := failure.Capture(func() (S, error) { return s.source.Update(ctx, payload) }); err != nil {
		s.fail(ctx, seq, err, s.messages.Update)
		return err
	}

	// Reread unconditionally; a newer in-flight read may predate this update.
	if err := s.Reload(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrReloadAfterSubmit, err)
	}
	return nil
}

// Close clears the snapshot and subscribers. In-flight results are discarded
// and later calls return ErrClosed.
func (s *Store[T, S]) Close() {
	s.mu.Lock()
	s.closed = true
	s.seq++
	s.state = State[T]{}
	s.mu.Unlock()
	s.notifier.Clear()
}

func (s *Store[T, S]) begin() (uint64, bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, false
	}
	s.seq++
	seq := s.seq
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	s.notifier.Notify()
	return seq, true
}

func (s *Store[T, S]) commit(ctx context.Context, seq uint64, apply func(*State[T])) bool {
	s.mu.Lock()
	if s.closed || s.seq != seq {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "stale result discarded", logger.Component("settings"), logger.Resource(s.name), logger.Seq(seq))
		return false
	}
	apply(&s.state)
	s.mu.Unlock()

	s.notifier.Notify()
	return true
}

func (s *Store[T, S]) fail(ctx context.Context, seq uint64, err error, fallback string) {
	msg := failure.Message(err, fallback)
	if s.commit(ctx, seq, func(st *State[T]) {
		st.Loading = false
		st.Error = msg
	}) {
		s.logger.WarnContext(ctx, "settings call failed",
			logger.Component("settings"), logger.Resource(s.name), logger.Seq(seq), logger.Error(err))
	}
}
