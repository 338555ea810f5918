package preview

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KevinGhlee/portfolio/internal/effects"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 25)
	return s
}

func TestCell(t *testing.T) {
	x, y, ok := cell(effects.ParticleSpec{X: 50, Y: 100, Unit: effects.UnitPercent}, 81, 21)
	assert.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 20, y)

	x, y, ok = cell(effects.ParticleSpec{X: -16, Y: 32, Unit: effects.UnitPixel}, 80, 24)
	assert.True(t, ok)
	assert.Equal(t, 38, x)
	assert.Equal(t, 14, y)

	_, _, ok = cell(effects.ParticleSpec{X: 4000, Y: 0, Unit: effects.UnitPixel}, 80, 24)
	assert.False(t, ok)
}

func TestRun_TracksMouseAndQuits(t *testing.T) {
	defer goleak.VerifyNone(t)

	screen := newScreen(t)
	defer screen.Fini()
	store := &effects.PointerStore{}
	p := New(screen, Options{
		Variant:   effects.Leaves(),
		FPS:       120,
		NewSource: func() effects.Source { return effects.NewSource(3) },
		Store:     store,
	})
	require.Same(t, store, p.Pointer())

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		screen.InjectMouse(12, 7, tcell.ButtonNone, tcell.ModNone)
		pt, ok := p.Pointer().Load()
		return ok && pt == effects.Point{X: 12, Y: 7}
	}, 3*time.Second, 10*time.Millisecond)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("preview did not quit")
	}
	assert.Equal(t, 0, p.feed.Subscribers())
	assert.Equal(t, effects.Pending, p.field.Phase(), "quitting tears the field down")

	_, ok := store.Load()
	assert.False(t, ok, "quitting resets the spotlight")
	publications := store.Publications()
	p.feed.Emit(effects.Point{X: 1, Y: 1})
	assert.Equal(t, publications, store.Publications())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	screen := newScreen(t)
	defer screen.Fini()
	p := New(screen, Options{Variant: effects.Cells(), FPS: 60})
	require.Same(t, effects.Pointer, p.Pointer(), "the page-wide store is the default")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return p.feed.Subscribers() == 1 }, 3*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("preview did not stop")
	}
}
