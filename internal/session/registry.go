// Package session keeps one particle field per rendered page view, so the
// batch a browser receives after the page turns interactive is drawn once and
// survives repeated activation requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KevinGhlee/portfolio/internal/effects"
)

// ErrUnknownView is returned for view IDs that were never opened, were torn
// down, or expired.
var ErrUnknownView = errors.New("unknown view")

const (
	defaultTTL        = 30 * time.Minute
	defaultPendingTTL = 2 * time.Minute
	defaultMaxViews   = 10000
)

type view struct {
	field    *effects.Field
	lastSeen time.Time
}

// Options configure a Registry. Zero values select the defaults.
type Options struct {
	TTL time.Duration
	// PendingTTL expires views that were opened but never activated, such as
	// renders fetched by crawlers. It is capped at TTL.
	PendingTTL time.Duration
	// MaxViews bounds the registry; opening a view at the limit evicts the
	// least recently seen one.
	MaxViews  int
	Clock     func() time.Time
	NewSource func() effects.Source
}

// Registry maps view IDs to their fields. It is safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	views      map[string]*view
	catalog    *effects.Catalog
	ttl        time.Duration
	pendingTTL time.Duration
	maxViews   int
	clock      func() time.Time
	newSource  func() effects.Source
}

// New returns an empty registry drawing from catalog.
func New(catalog *effects.Catalog, opts Options) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = defaultPendingTTL
	}
	if opts.PendingTTL > opts.TTL {
		opts.PendingTTL = opts.TTL
	}
	if opts.MaxViews <= 0 {
		opts.MaxViews = defaultMaxViews
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewSource == nil {
		opts.NewSource = func() effects.Source {
			return effects.NewSource(rand.Uint64())
		}
	}
	return &Registry{
		views:      make(map[string]*view),
		catalog:    catalog,
		ttl:        opts.TTL,
		pendingTTL: opts.PendingTTL,
		maxViews:   opts.MaxViews,
		clock:      opts.Clock,
		newSource:  opts.NewSource,
	}
}

// Open registers a pending view using the named variant ("" for the default)
// and returns its ID.
func (r *Registry) Open(variant string) (string, effects.Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.catalog.Lookup(variant)
	if err != nil {
		return "", effects.Variant{}, err
	}
	for len(r.views) >= r.maxViews {
		r.evictOldest()
	}
	id := uuid.NewString()
	r.views[id] = &view{
		field:    effects.NewField(v, r.newSource),
		lastSeen: r.clock(),
	}
	return id, v, nil
}

// Activate flips the view's field to activated, drawing its batch on the
// first call only.
func (r *Registry) Activate(id string) (effects.Variant, effects.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vw, err := r.lookup(id)
	if err != nil {
		return effects.Variant{}, nil, err
	}
	return vw.field.Variant(), vw.field.Activate(), nil
}

// Particles returns the view's current render input and phase without
// activating it.
func (r *Registry) Particles(id string) (effects.Phase, effects.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vw, err := r.lookup(id)
	if err != nil {
		return effects.Pending, nil, err
	}
	return vw.field.Phase(), vw.field.Particles(), nil
}

// Teardown re-arms and forgets the view.
func (r *Registry) Teardown(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vw, ok := r.views[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownView, id)
	}
	vw.field.Teardown()
	delete(r.views, id)
	return nil
}

// evictOldest drops the least recently seen view. Callers hold r.mu.
func (r *Registry) evictOldest() {
	var (
		oldestID string
		oldest   *view
	)
	for id, vw := range r.views {
		if oldest == nil || vw.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, vw
		}
	}
	if oldest == nil {
		return
	}
	oldest.field.Teardown()
	delete(r.views, oldestID)
}

func (r *Registry) lookup(id string) (*view, error) {
	vw, ok := r.views[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, id)
	}
	vw.lastSeen = r.clock()
	return vw, nil
}

// SetCatalog swaps the variant table used by views opened from now on.
func (r *Registry) SetCatalog(c *effects.Catalog) {
	r.mu.Lock()
	r.catalog = c
	r.mu.Unlock()
}

// Catalog returns the variant table currently in force.
func (r *Registry) Catalog() *effects.Catalog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep tears down views idle for longer than the TTL, and never-activated
// views idle for longer than the pending TTL. It returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	cutoff := now.Add(-r.ttl)
	pendingCutoff := now.Add(-r.pendingTTL)
	removed := 0
	for id, vw := range r.views {
		limit := cutoff
		if vw.field.Phase() == effects.Pending {
			limit = pendingCutoff
		}
		if vw.lastSeen.Before(limit) {
			vw.field.Teardown()
			delete(r.views, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done. onSweep, if set, receives the
// count of each non-empty sweep.
func (r *Registry) Run(ctx context.Context, interval time.Duration, onSweep func(int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
