package feed

import "sync"

// Signals fans visibility events out to subscribers for one session.
type Signals struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Subscription receives visibility events on C until it is unsubscribed or
// the hub is closed, at which point C is closed.
type Subscription struct {
	C <-chan Visibility

	ch   chan Visibility
	hub  *Signals
	once sync.Once
}

func NewSignals() *Signals {
	return &Signals{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a subscriber with the given buffer size (minimum 1).
func (s *Signals) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Visibility, buffer)
	sub := &Subscription{C: ch, ch: ch, hub: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

// Publish delivers v to every subscriber. A subscriber whose buffer is full
// misses the event. It reports how many subscribers received it.
func (s *Signals) Publish(v Visibility) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	delivered := 0
	for sub := range s.subs {
		select {
		case sub.ch <- v:
			delivered++
		default:
		}
	}
	return delivered
}

// Len returns the number of live subscriptions.
func (s *Signals) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close ends every subscription.
func (s *Signals) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		delete(s.subs, sub)
		sub.closeChan()
	}
}

// Unsubscribe detaches the subscription and closes C. Safe to call twice.
func (sub *Subscription) Unsubscribe() {
	sub.hub.mu.Lock()
	delete(sub.hub.subs, sub)
	sub.hub.mu.Unlock()
	sub.closeChan()
}

func (sub *Subscription) closeChan() {
	sub.once.Do(func() { close(sub.ch) })
}
