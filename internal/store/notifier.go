package store

import "sync"

// Notifier is the change-notification channel of the backend: a pulse per
// committed insert or update on a table, with no payload detail. Consumers
// react by reloading the full table, never by diffing.
type Notifier struct {
	mu   sync.Mutex
	subs map[Table][]chan struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Table][]chan struct{})}
}

// Subscribe returns a signal channel for the table. The channel has a buffer
// of one; pulses arriving while a reload is already pending coalesce.
func (n *Notifier) Subscribe(table Table) <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subs[table] = append(n.subs[table], ch)
	n.mu.Unlock()
	return ch
}

// Pulse signals every subscriber of the table without blocking.
func (n *Notifier) Pulse(table Table) {
	n.mu.Lock()
	subs := n.subs[table]
	n.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
