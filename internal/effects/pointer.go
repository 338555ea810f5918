package effects

import (
	"strings"
	"sync"
)

// CSS custom properties consumed by the spotlight gradient.
const (
	VarPointerX = "--mx"
	VarPointerY = "--my"
)

// Point is a pointer position in viewport coordinates.
type Point struct {
	X, Y float64
}

// PointerStore is the page-wide pointer state behind the spotlight. It is
// written only by a Tracker; everything else reads it.
type PointerStore struct {
	mu  sync.RWMutex
	pt  Point
	set bool
	// publications counts writes so readers can tell frames apart.
	publications uint64
}

// Pointer is the process-wide store used when a host does not supply its own.
var Pointer = &PointerStore{}

func (s *PointerStore) publish(p Point) {
	s.mu.Lock()
	s.pt = p
	s.set = true
	s.publications++
	s.mu.Unlock()
}

// Reset returns the store to its absent state.
func (s *PointerStore) Reset() {
	s.mu.Lock()
	s.pt = Point{}
	s.set = false
	s.mu.Unlock()
}

// Load returns the last published point and whether one exists.
func (s *PointerStore) Load() (Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pt, s.set
}

// Publications returns the number of writes since creation.
func (s *PointerStore) Publications() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.publications
}

// Vars returns the custom property values, or nil while absent.
func (s *PointerStore) Vars() map[string]string {
	p, ok := s.Load()
	if !ok {
		return nil
	}
	return map[string]string{
		VarPointerX: num(p.X) + "px",
		VarPointerY: num(p.Y) + "px",
	}
}

// CSSVars renders the custom properties as a declaration list, empty while
// absent so the stylesheet fallback applies.
func (s *PointerStore) CSSVars() string {
	p, ok := s.Load()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(VarPointerX)
	b.WriteByte(':')
	b.WriteString(num(p.X))
	b.WriteString("px;")
	b.WriteString(VarPointerY)
	b.WriteByte(':')
	b.WriteString(num(p.Y))
	b.WriteString("px")
	return b.String()
}
