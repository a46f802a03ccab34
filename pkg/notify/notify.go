// Package notify is a minimal observer list: zero-argument callbacks invoked
// after every state change of the value that owns the Notifier.
package notify

import (
	"slices"
	"sync"
)

// Notifier holds subscribed callbacks. The zero value is ready to use and
// all methods are safe for concurrent use.
type Notifier struct {
	mu   sync.Mutex
	next uint64
	subs []subscription
}

type subscription struct {
	id uint64
	fn func()
}

// Subscribe registers fn and returns a function removing it. Calling the
// returned function more than once is a no-op. Nil callbacks are ignored.
func (n *Notifier) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	n.mu.Lock()
	n.next++
	id := n.next
	n.subs = append(n.subs, subscription{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.subs = slices.DeleteFunc(n.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

// Notify calls every callback in subscription order. Callbacks run outside
// the lock, so they may subscribe, unsubscribe or read the owner's state.
func (n *Notifier) Notify() {
	n.mu.Lock()
	subs := slices.Clone(n.subs)
	n.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

// Len reports the number of subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Clear drops every subscriber.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.subs = nil
	n.mu.Unlock()
}
