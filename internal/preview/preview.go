// Package preview renders a particle field and the pointer spotlight in a
// terminal, driving the tracker from real mouse motion.
package preview

import (
	"context"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/KevinGhlee/portfolio/internal/effects"
)

const (
	defaultFPS    = 60
	defaultRadius = 8
	// Terminal cells are roughly twice as tall as they are wide.
	cellWidthPx  = 8.0
	cellHeightPx = 16.0
)

// Options configure a Preview.
type Options struct {
	Variant   effects.Variant
	FPS       int
	Radius    int // spotlight radius in columns
	NewSource func() effects.Source
	// Store receives the spotlight coordinates; nil selects effects.Pointer.
	Store *effects.PointerStore
}

// Preview owns the screen loop. The screen must already be initialised; the
// caller finalises it.
type Preview struct {
	screen tcell.Screen
	opts   Options
	field  *effects.Field
	feed   *effects.Feed
	store  *effects.PointerStore
	glyph  rune
}

var (
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleBright = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleLit    = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorDarkSeaGreen)
)

// New prepares a preview for screen. The field starts pending.
func New(screen tcell.Screen, opts Options) *Preview {
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.Radius <= 0 {
		opts.Radius = defaultRadius
	}
	if opts.Store == nil {
		opts.Store = effects.Pointer
	}
	glyph := '*'
	if rs := []rune(opts.Variant.Glyph); len(rs) > 0 {
		glyph = rs[0]
	}
	return &Preview{
		screen: screen,
		opts:   opts,
		field:  effects.NewField(opts.Variant, opts.NewSource),
		feed:   effects.NewFeed(),
		store:  opts.Store,
		glyph:  glyph,
	}
}

// Pointer exposes the spotlight state the preview publishes into.
func (p *Preview) Pointer() *effects.PointerStore {
	return p.store
}

// Run draws until ctx is done or the user quits with q, Esc or Ctrl-C. The
// pointer store is reset on return.
func (p *Preview) Run(ctx context.Context) error {
	p.screen.EnableMouse(tcell.MouseMotionEvents)
	defer p.screen.DisableMouse()

	// First paint happens before activation and shows no particles.
	p.draw()
	p.field.Activate()
	p.draw()

	frames := effects.NewTickerFrames(p.opts.FPS, func() {
		_ = p.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer frames.Close()

	trackCtx, stopTracking := context.WithCancel(ctx)
	tracked := make(chan struct{})
	go func() {
		defer close(tracked)
		_ = effects.Track(trackCtx, p.feed, frames, p.store)
	}()
	defer func() {
		stopTracking()
		<-tracked
		p.store.Reset()
	}()
	defer p.field.Teardown()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go p.screen.ChannelEvents(events, quit)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !p.handle(ev) {
				return nil
			}
		}
	}
}

func (p *Preview) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			p.field.Regenerate()
			p.draw()
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		p.feed.Emit(effects.Point{X: float64(x), Y: float64(y)})
	case *tcell.EventResize:
		p.screen.Sync()
		p.draw()
	case *tcell.EventInterrupt:
		p.draw()
	}
	return true
}

// cell maps a particle onto the screen, reporting false when it falls off.
func cell(sp effects.ParticleSpec, w, h int) (int, int, bool) {
	var x, y int
	switch sp.Unit {
	case effects.UnitPixel:
		x = w/2 + int(math.Round(sp.X/cellWidthPx))
		y = h/2 + int(math.Round(sp.Y/cellHeightPx))
	default:
		x = int(sp.X / 100 * float64(w-1))
		y = int(sp.Y / 100 * float64(h-1))
	}
	return x, y, x >= 0 && y >= 0 && x < w && y < h
}

func (p *Preview) lit(x, y int) bool {
	pt, ok := p.store.Load()
	if !ok {
		return false
	}
	dx := float64(x) - pt.X
	dy := (float64(y) - pt.Y) * cellHeightPx / cellWidthPx
	return math.Hypot(dx, dy) <= float64(p.opts.Radius)
}

func (p *Preview) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()
	if h < 2 {
		p.screen.Show()
		return
	}

	batch := p.field.Particles()
	for _, sp := range batch {
		x, y, ok := cell(sp, w, h-1)
		if !ok {
			continue
		}
		style := styleDim
		if sp.Opacity >= 0.4 {
			style = styleBright
		}
		if p.lit(x, y) {
			style = styleLit
		}
		p.screen.SetContent(x, y, p.glyph, nil, style)
	}

	status := fmt.Sprintf(" %s · %s · %d particles · %s · r regenerate · q quit ",
		p.opts.Variant.Name, p.field.Phase(), len(batch), p.store.CSSVars())
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
	col := 0
	for _, r := range status {
		if col >= w {
			break
		}
		p.screen.SetContent(col, h-1, r, nil, styleStatus)
		col++
	}
	p.screen.Show()
}
