package tenantmanagement

import (
	"slices"
	"sync"

	"github.com/dmitrymomot/abpadmin/pkg/notify"
)

// StateService holds the last loaded tenant page for consumers that are not
// the store's owner. Every Set and Reset notifies subscribers.
type StateService struct {
	mu         sync.RWMutex
	items      []Tenant
	totalCount int64
	notifier   notify.Notifier
}

// NewStateService returns an empty StateService.
func NewStateService() *StateService {
	return &StateService{items: []Tenant{}}
}

// Items returns a copy of the current tenants.
func (s *StateService) Items() []Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// TotalCount returns the server-reported tenant count.
func (s *StateService) TotalCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalCount
}

// Set replaces the page with a copy of items.
func (s *StateService) Set(items []Tenant, total int64) {
	s.mu.Lock()
	s.items = slices.Clone(items)
	if s.items == nil {
		s.items = []Tenant{}
	}
	s.totalCount = total
	s.mu.Unlock()
	s.notifier.Notify()
}

// Reset empties the page.
func (s *StateService) Reset() {
	s.mu.Lock()
	s.items = []Tenant{}
	s.totalCount = 0
	s.mu.Unlock()
	s.notifier.Notify()
}

// Subscribe registers fn to run after every change.
func (s *StateService) Subscribe(fn func()) (unsubscribe func()) {
	return s.notifier.Subscribe(fn)
}
