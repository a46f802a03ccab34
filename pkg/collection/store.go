package collection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/abpadmin/pkg/failure"
	"github.com/dmitrymomot/abpadmin/pkg/logger"
	"github.com/dmitrymomot/abpadmin/pkg/notify"
)

// State is a point-in-time view of a Store. Items and Selected must be
// treated as read-only.
type State[T any] struct {
	Items      []T
	TotalCount int64
	Selected   *T
	Loading    bool
	Error      string
	SortKey    string
	SortOrder  SortOrder
}

// Store is the list/CRUD state container. All methods are safe for concurrent use.
type Store[T any, ID comparable, C, U any] struct {
	service  Service[T, ID, C, U]
	sink     Sink[T]
	messages Messages
	logger   *slog.Logger
	name     string

	mu        sync.Mutex
	seq       uint64
	selSeq    uint64
	state     State[T]
	lastQuery Query

	notifier notify.Notifier
}

// NewStore creates an empty store over service.
func NewStore[T any, ID comparable, C, U any](service Service[T, ID, C, U], opts ...Option[T, ID, C, U]) *Store[T, ID, C, U] {
	s := &Store[T, ID, C, U]{
		service:  service,
		messages: DefaultMessages,
		logger:   logger.Discard(),
		name:     "collection",
		state:    State[T]{Items: []T{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store[T, ID, C, U]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastQuery returns the query the last FetchList was called with.
func (s *Store[T, ID, C, U]) LastQuery() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Subscribe registers fn to run after every state change.
func (s *Store[T, ID, C, U]) Subscribe(fn func()) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}

// SetSort records the sort key and order applied to later list queries.
func (s *Store[T, ID, C, U]) SetSort(key string, order SortOrder) error {
	switch order {
	case Asc, Desc, Unsorted:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSortOrder, order)
	}
	s.mu.Lock()
	s.state.SortKey = strings.TrimSpace(key)
	s.state.SortOrder = order
	s.mu.Unlock()

	s.notifier.Notify()
	return nil
}

// FetchList loads one page and remembers q for later refreshes. When q has
// no Sorting and a sort key is set, "<key> <order>" is sent.
func (s *Store[T, ID, C, U]) FetchList(ctx context.Context, q Query) error {
	s.mu.Lock()
	s.lastQuery = q
	s.mu.Unlock()
	return s.fetchList(ctx, q)
}

// Refresh reloads the list with the last query.
func (s *Store[T, ID, C, U]) Refresh(ctx context.Context) error {
	return s.fetchList(ctx, s.LastQuery())
}

func (s *Store[T, ID, C, U]) fetchList(ctx context.Context, q Query) error {
	seq, sortKey, sortOrder := s.begin()
	if q.Sorting == "" && sortKey != "" {
		q.Sorting = strings.TrimSpace(sortKey + " " + string(sortOrder))
	}
	s.logger.DebugContext(ctx, "fetching list", logger.Component("collection"), logger.Resource(s.name),
		logger.Seq(seq), slog.String("sorting", q.Sorting))

	page, err := failure.Capture(func() (Page[T], error) { return s.service.List(ctx, q) })
	if err != nil {
		s.fail(ctx, seq, err, s.messages.List)
		return err
	}

	items := page.Items
	if items == nil {
		items = []T{}
	}
	if s.commit(ctx, seq, func(st *State[T]) {
		st.Items = items
		st.TotalCount = page.TotalCount
		st.Loading = false
		st.Error = ""
	}) && s.sink != nil {
		s.sink.Set(slices.Clone(items), page.TotalCount)
	}
	return nil
}

// FetchByID loads one entity into Selected. It has its own sequence, so it
// neither discards nor is discarded by list calls. Loading and the list are
// left untouched; a failure is recorded in Error.
func (s *Store[T, ID, C, U]) FetchByID(ctx context.Context, id ID) (T, error) {
	s.mu.Lock()
	s.selSeq++
	seq := s.selSeq
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "fetching item", logger.Component("collection"), logger.Resource(s.name), logger.Seq(seq))

	item, err := failure.Capture(func() (T, error) { return s.service.Get(ctx, id) })
	if err != nil {
		msg := failure.Message(err, s.messages.Get)
		if s.commitSelected(ctx, seq, func(st *State[T]) { st.Error = msg }) {
			s.logger.WarnContext(ctx, "collection call failed", logger.Component("collection"), logger.Resource(s.name),
				logger.Seq(seq), logger.Error(err))
		}
		var zero T
		return zero, err
	}

	s.commitSelected(ctx, seq, func(st *State[T]) { st.Selected = &item })
	return item, nil
}

// Create runs the create call and refreshes the list on success. The
// returned entity is the create response; the list comes from the refresh.
func (s *Store[T, ID, C, U]) Create(ctx context.Context, in C) (T, error) {
	return mutate(ctx, s, "create", s.messages.Create, func() (T, error) { return s.service.Create(ctx, in) })
}

// Update runs the update call and refreshes the list on success.
func (s *Store[T, ID, C, U]) Update(ctx context.Context, id ID, in U) (T, error) {
	return mutate(ctx, s, "update", s.messages.Update, func() (T, error) { return s.service.Update(ctx, id, in) })
}

// Delete runs the delete call and refreshes the list on success.
func (s *Store[T, ID, C, U]) Delete(ctx context.Context, id ID) error {
	_, err := mutate(ctx, s, "delete", s.messages.Delete, func() (struct{}, error) {
		return struct{}{}, s.service.Delete(ctx, id)
	})
	return err
}

// Reset returns the store to its empty state, clears sort and last query,
// and discards in-flight results.
func (s *Store[T, ID, C, U]) Reset() {
	s.mu.Lock()
	s.seq++
	s.selSeq++
	s.state = State[T]{Items: []T{}}
	s.lastQuery = Query{}
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.Reset()
	}
	s.notifier.Notify()
}

// mutate runs call and, on success, reloads the list with the last query.
// It is generic over the result so Delete can share it.
func mutate[R, T any, ID comparable, C, U any](ctx context.Context, s *Store[T, ID, C, U], op, fallback string, call func() (R, error)) (R, error) {
	seq, _, _ := s.begin()
	s.logger.DebugContext(ctx, "mutation started", logger.Component("collection"), logger.Resource(s.name),
		logger.Operation(op), logger.Seq(seq))

	out, err := failure.Capture(call)
	if err != nil {
		s.fail(ctx, seq, err, fallback)
		var zero R
		return zero, err
	}

	if err := s.Refresh(ctx); err != nil {
		return out, fmt.Errorf("%w: %w", ErrRefreshAfterMutation, err)
	}
	return out, nil
}

func (s *Store[T, ID, C, U]) begin() (uint64, string, SortOrder) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.Loading = true
	s.state.Error = ""
	key, order := s.state.SortKey, s.state.SortOrder
	s.mu.Unlock()

	s.notifier.Notify()
	return seq, key, order
}

func (s *Store[T, ID, C, U]) commit(ctx context.Context, seq uint64, apply func(*State[T])) bool {
	s.mu.Lock()
	if s.seq != seq {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "stale result discarded", logger.Component("collection"), logger.Resource(s.name), logger.Seq(seq))
		return false
	}
	apply(&s.state)
	s.mu.Unlock()

	s.notifier.Notify()
	return true
}

func (s *Store[T, ID, C, U]) commitSelected(ctx context.Context, seq uint64, apply func(*State[T])) bool {
	s.mu.Lock()
	if s.selSeq != seq {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "stale item discarded", logger.Component("collection"), logger.Resource(s.name), logger.Seq(seq))
		return false
	}
	apply(&s.state)
	s.mu.Unlock()

	s.notifier.Notify()
	return true
}

func (s *Store[T, ID, C, U]) fail(ctx context.Context, seq uint64, err error, fallback string) {
	msg := failure.Message(err, fallback)
	if s.commit(ctx, seq, func(st *State[T]) {
		st.Loading = false
		st.Error = msg
	}) {
		s.logger.WarnContext(ctx, "collection call failed", logger.Component("collection"), logger.Resource(s.name),
			logger.Seq(seq), logger.Error(err))
	}
}
