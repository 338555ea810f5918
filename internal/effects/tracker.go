package effects

import (
	"context"
	"sync"
)

// PointerSource delivers pointer-move notifications. Subscribe returns the
// function that removes the subscription.
type PointerSource interface {
	Subscribe(fn func(Point)) (unsubscribe func())
}

// Tracker republishes pointer movement into a PointerStore, coalescing bursts
// to one publication per frame. Events overwrite the pending coordinates; a
// frame is requested only when none is pending.
type Tracker struct {
	mu          sync.Mutex
	frames      FrameScheduler
	store       *PointerStore
	unsubscribe func()
	latest      Point
	handle      FrameHandle
	scheduled   uint64 // sequence number of the outstanding frame, 0 if none
	seq         uint64
	closed      bool
}

// Mount subscribes a tracker to src. The caller owns the tracker and must
// Close it; Track is the scoped form.
func Mount(src PointerSource, frames FrameScheduler, store *PointerStore) *Tracker {
	if store == nil {
		store = Pointer
	}
	t := &Tracker{frames: frames, store: store}
	unsub := src.Subscribe(t.move)
	t.mu.Lock()
	t.unsubscribe = unsub
	t.mu.Unlock()
	return t
}

func (t *Tracker) move(p Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.latest = p
	if t.scheduled != 0 {
		return
	}
	t.seq++
	seq := t.seq
	t.scheduled = seq
	t.handle = t.frames.RequestFrame(func() { t.frame(seq) })
}

func (t *Tracker) frame(seq uint64) {
	t.mu.Lock()
	if t.closed || t.scheduled != seq {
		t.mu.Unlock()
		return
	}
	t.scheduled = 0
	t.handle = 0
	t.store.publish(t.latest)
	t.mu.Unlock()
}

// Pending reports whether a frame callback is outstanding.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scheduled != 0
}

// Close removes the subscription and cancels any pending frame. No
// publication happens after Close returns. Close is idempotent.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	if t.scheduled != 0 {
		t.frames.CancelFrame(t.handle)
		t.scheduled = 0
		t.handle = 0
	}
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Track mounts a tracker for the lifetime of ctx and releases it on every
// exit path.
func Track(ctx context.Context, src PointerSource, frames FrameScheduler, store *PointerStore) error {
	t := Mount(src, frames, store)
	defer t.Close()
	<-ctx.Done()
	return ctx.Err()
}
