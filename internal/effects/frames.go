package effects

import (
	"sort"
	"sync"
	"time"
)

// FrameHandle identifies a requested frame callback. Zero is never issued.
type FrameHandle uint64

// FrameScheduler runs callbacks before the next repaint, at most once per
// request.
type FrameScheduler interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// frameQueue holds requested callbacks until the next repaint.
type frameQueue struct {
	mu      sync.Mutex
	next    FrameHandle
	pending map[FrameHandle]func()
}

func (q *frameQueue) request(fn func()) FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[FrameHandle]func())
	}
	q.next++
	q.pending[q.next] = fn
	return q.next
}

func (q *frameQueue) cancel(h FrameHandle) {
	q.mu.Lock()
	delete(q.pending, h)
	q.mu.Unlock()
}

// drain removes and runs every callback requested before the call, in
// request order. Callbacks requested while draining wait for the next frame.
func (q *frameQueue) drain() int {
	q.mu.Lock()
	handles := make([]FrameHandle, 0, len(q.pending))
	for h := range q.pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	fns := make([]func(), len(handles))
	for i, h := range handles {
		fns[i] = q.pending[h]
		delete(q.pending, h)
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualFrames is a FrameScheduler that repaints only when told to. Tests and
// hosts with their own render loop call Advance once per frame.
type ManualFrames struct {
	q frameQueue
}

// NewManualFrames returns an idle manual scheduler.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{}
}

func (m *ManualFrames) RequestFrame(fn func()) FrameHandle { return m.q.request(fn) }

func (m *ManualFrames) CancelFrame(h FrameHandle) { m.q.cancel(h) }

// Advance simulates one repaint and returns how many callbacks ran.
func (m *ManualFrames) Advance() int { return m.q.drain() }

// Pending returns the number of callbacks waiting for the next repaint.
func (m *ManualFrames) Pending() int { return m.q.len() }

// TickerFrames repaints at a fixed rate on its own goroutine.
type TickerFrames struct {
	q       frameQueue
	ticker  *time.Ticker
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	onFrame func() // runs after each repaint's callbacks
}

// NewTickerFrames starts a scheduler repainting fps times per second.
// onFrame may be nil.
func NewTickerFrames(fps int, onFrame func()) *TickerFrames {
	if fps <= 0 {
		fps = 60
	}
	t := &TickerFrames{
		ticker:  time.NewTicker(time.Second / time.Duration(fps)),
		done:    make(chan struct{}),
		onFrame: onFrame,
	}
	t.wg.Add(1)
	go t.loop()
	return t
}

func (t *TickerFrames) loop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			t.q.drain()
			if t.onFrame != nil {
				t.onFrame()
			}
		}
	}
}

func (t *TickerFrames) RequestFrame(fn func()) FrameHandle { return t.q.request(fn) }

func (t *TickerFrames) CancelFrame(h FrameHandle) { t.q.cancel(h) }

// Close stops repainting and waits for the loop to exit. Callbacks still
// pending are dropped.
func (t *TickerFrames) Close() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		t.wg.Wait()
	})
}
