package effects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// deafFrames ignores cancellation so late callbacks still fire.
type deafFrames struct {
	*ManualFrames
}

func (deafFrames) CancelFrame(FrameHandle) {}

func TestTracker_CoalescesBurstToLastEvent(t *testing.T) {
	feed := NewFeed()
	frames := NewManualFrames()
	store := &PointerStore{}
	tr := Mount(feed, frames, store)
	defer tr.Close()

	for i := 0; i < 25; i++ {
		feed.Emit(Point{X: float64(i), Y: float64(i * 2)})
	}
	assert.Equal(t, 1, frames.Pending(), "a burst must request a single frame")
	assert.True(t, tr.Pending())

	_, ok := store.Load()
	assert.False(t, ok, "nothing is published before the frame")

	assert.Equal(t, 1, frames.Advance())
	p, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, Point{X: 24, Y: 48}, p)
	assert.Equal(t, uint64(1), store.Publications())
	assert.False(t, tr.Pending())

	assert.Equal(t, 0, frames.Advance(), "idle frames publish nothing")
	assert.Equal(t, uint64(1), store.Publications())
}

func TestTracker_NextBurstSchedulesNextFrame(t *testing.T) {
	feed := NewFeed()
	frames := NewManualFrames()
	store := &PointerStore{}
	tr := Mount(feed, frames, store)
	defer tr.Close()

	feed.Emit(Point{X: 1, Y: 1})
	frames.Advance()
	feed.Emit(Point{X: 2, Y: 2})
	feed.Emit(Point{X: 3, Y: 4})
	assert.Equal(t, 1, frames.Pending())
	frames.Advance()

	p, _ := store.Load()
	assert.Equal(t, Point{X: 3, Y: 4}, p)
	assert.Equal(t, uint64(2), store.Publications())
}

func TestTracker_CloseStopsEverything(t *testing.T) {
	feed := NewFeed()
	frames := NewManualFrames()
	store := &PointerStore{}
	tr := Mount(feed, frames, store)
	require.Equal(t, 1, feed.Subscribers())

	feed.Emit(Point{X: 5, Y: 5})
	tr.Close()

	assert.Equal(t, 0, feed.Subscribers())
	assert.Equal(t, 0, frames.Pending(), "pending frame must be cancelled")
	assert.Equal(t, 0, frames.Advance())

	assert.NotPanics(t, func() { feed.Emit(Point{X: 9, Y: 9}) })
	assert.Equal(t, 0, frames.Advance())
	_, ok := store.Load()
	assert.False(t, ok)

	assert.NotPanics(t, tr.Close, "close is idempotent")
}

func TestTracker_LateCallbackAfterCloseIsIgnored(t *testing.T) {
	feed := NewFeed()
	frames := deafFrames{NewManualFrames()}
	store := &PointerStore{}
	tr := Mount(feed, frames, store)

	feed.Emit(Point{X: 1, Y: 2})
	tr.Close()
	assert.Equal(t, 1, frames.Advance(), "scheduler ignored the cancel")

	_, ok := store.Load()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), store.Publications())
}

func TestTrack_ReleasesOnCancel(t *testing.T) {
	feed := NewFeed()
	frames := NewManualFrames()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Track(ctx, feed, frames, &PointerStore{}) }()

	require.Eventually(t, func() bool { return feed.Subscribers() == 1 }, time.Second, time.Millisecond)
	feed.Emit(Point{X: 1, Y: 1})
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Track did not return after cancel")
	}
	assert.Equal(t, 0, feed.Subscribers())
	assert.Equal(t, 0, frames.Pending())
}

func TestMount_DefaultsToPageWideStore(t *testing.T) {
	Pointer.Reset()
	defer Pointer.Reset()

	feed := NewFeed()
	frames := NewManualFrames()
	tr := Mount(feed, frames, nil)
	defer tr.Close()

	feed.Emit(Point{X: 3, Y: 4})
	require.Equal(t, 1, frames.Advance())
	p, ok := Pointer.Load()
	require.True(t, ok)
	assert.Equal(t, Point{X: 3, Y: 4}, p)
}

func TestTickerFrames_PublishesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	feed := NewFeed()
	store := &PointerStore{}
	frames := NewTickerFrames(120, nil)
	tr := Mount(feed, frames, store)

	feed.Emit(Point{X: 40, Y: 50})
	require.Eventually(t, func() bool {
		p, ok := store.Load()
		return ok && p == Point{X: 40, Y: 50}
	}, 2*time.Second, 2*time.Millisecond)

	tr.Close()
	frames.Close()
	frames.Close()
}

func TestPointerStore_CSSVars(t *testing.T) {
	s := &PointerStore{}
	assert.Equal(t, "", s.CSSVars())
	assert.Nil(t, s.Vars())

	s.publish(Point{X: 120, Y: 340})
	assert.Equal(t, "--mx:120.00px;--my:340.00px", s.CSSVars())
	assert.Equal(t, map[string]string{VarPointerX: "120.00px", VarPointerY: "340.00px"}, s.Vars())

	s.Reset()
	_, ok := s.Load()
	assert.False(t, ok)
}

// Mount, activate, move, repaint, unmount: the whole lifecycle of one view.
func TestViewLifecycle(t *testing.T) {
	v := Leaves()
	field := NewField(v, func() Source { return NewSource(42) })
	feed := NewFeed()
	frames := NewManualFrames()
	store := &PointerStore{}

	tr := Mount(feed, frames, store)
	assert.Empty(t, field.Particles())

	field.Activate()
	assertInBounds(t, v, field.Particles())

	feed.Emit(Point{X: 120, Y: 340})
	frames.Advance()
	p, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, Point{X: 120, Y: 340}, p)

	tr.Close()
	field.Teardown()

	assert.NotPanics(t, func() { feed.Emit(Point{X: 1, Y: 1}) })
	frames.Advance()
	p, _ = store.Load()
	assert.Equal(t, Point{X: 120, Y: 340}, p)
	assert.Equal(t, uint64(1), store.Publications())
	assert.Empty(t, field.Particles())
}
