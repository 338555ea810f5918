package effects

import "sync"

// Feed is a PointerSource that hosts push raw pointer events into.
type Feed struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Point)
}

// NewFeed returns a feed with no subscribers.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(Point))}
}

func (f *Feed) Subscribe(fn func(Point)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Emit delivers p to every current subscriber.
func (f *Feed) Emit(p Point) {
	f.mu.Lock()
	fns := make([]func(Point), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
