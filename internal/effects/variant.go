package effects

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidVariant is returned when a variant's bands cannot produce
	// in-bounds particles.
	ErrInvalidVariant = errors.New("invalid particle variant")
	// ErrUnknownVariant is returned when a variant name is not registered.
	ErrUnknownVariant = errors.New("unknown particle variant")
)

// Placement selects how particle positions are drawn.
type Placement string

const (
	// PlacementRect draws percentages uniformly over the container.
	PlacementRect Placement = "rect"
	// PlacementPolar draws an angle in [0, 2π) and a radius band around Center.
	PlacementPolar Placement = "polar"
)

// Vec2 is a 2D offset or coordinate.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Variant is the visual configuration of one particle field.
type Variant struct {
	Name      string    `yaml:"name" json:"name"`
	Glyph     string    `yaml:"glyph" json:"glyph"`
	Count     int       `yaml:"count" json:"count"`
	Placement Placement `yaml:"placement" json:"placement"`

	// Rect placement, in percent of the container.
	X Range `yaml:"x" json:"x"`
	Y Range `yaml:"y" json:"y"`

	// Polar placement, in px from Center.
	Center Vec2  `yaml:"center" json:"center"`
	Radius Range `yaml:"radius" json:"radius"`

	Size    Range `yaml:"size" json:"size"`
	Delay   Range `yaml:"delay" json:"delay"`
	Opacity Range `yaml:"opacity" json:"opacity"`

	// Drift, when set, gives each particle an animation target offset (px).
	Drift *Range `yaml:"drift,omitempty" json:"drift,omitempty"`
}

// Validate checks that every band is finite, ordered and keeps particles
// visible.
func (v Variant) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidVariant)
	}
	if v.Count <= 0 {
		return fmt.Errorf("%w %q: count must be positive, got %d", ErrInvalidVariant, v.Name, v.Count)
	}
	switch v.Placement {
	case PlacementRect:
		if !v.X.valid() || !v.Y.valid() || v.X.Min < 0 || v.X.Max > 100 || v.Y.Min < 0 || v.Y.Max > 100 {
			return fmt.Errorf("%w %q: rect bands must lie within 0..100%%", ErrInvalidVariant, v.Name)
		}
	case PlacementPolar:
		if !v.Radius.valid() || v.Radius.Min < 0 {
			return fmt.Errorf("%w %q: radius band must be non-negative", ErrInvalidVariant, v.Name)
		}
		if !finite(v.Center.X) || !finite(v.Center.Y) {
			return fmt.Errorf("%w %q: center must be finite", ErrInvalidVariant, v.Name)
		}
	default:
		return fmt.Errorf("%w %q: unknown placement %q", ErrInvalidVariant, v.Name, v.Placement)
	}
	if !v.Size.valid() || v.Size.Min <= 0 {
		return fmt.Errorf("%w %q: size band must be positive", ErrInvalidVariant, v.Name)
	}
	if !v.Delay.valid() || v.Delay.Min < 0 {
		return fmt.Errorf("%w %q: delay band must be non-negative", ErrInvalidVariant, v.Name)
	}
	if !v.Opacity.valid() || v.Opacity.Min < 0 || v.Opacity.Max > 1 {
		return fmt.Errorf("%w %q: opacity band must lie within 0..1", ErrInvalidVariant, v.Name)
	}
	if v.Drift != nil && !v.Drift.valid() {
		return fmt.Errorf("%w %q: drift band must be finite and ordered", ErrInvalidVariant, v.Name)
	}
	return nil
}

// Leaves is the light variant: a handful of drifting leaf glyphs.
func Leaves() Variant {
	return Variant{
		Name:      "leaves",
		Glyph:     "🍃",
		Count:     10,
		Placement: PlacementRect,
		X:         Range{Min: 0, Max: 100},
		Y:         Range{Min: 0, Max: 100},
		Size:      Range{Min: 14, Max: 28},
		Delay:     Range{Min: 0, Max: 8},
		Opacity:   Range{Min: 0.25, Max: 0.6},
	}
}

// Cells is the dense variant: dots in a ring around the hero, each drifting.
func Cells() Variant {
	return Variant{
		Name:      "cells",
		Glyph:     "•",
		Count:     130,
		Placement: PlacementPolar,
		Center:    Vec2{X: 0, Y: 0},
		Radius:    Range{Min: 120, Max: 420},
		Size:      Range{Min: 4, Max: 10},
		Delay:     Range{Min: 0, Max: 6},
		Opacity:   Range{Min: 0.15, Max: 0.7},
		Drift:     &Range{Min: -40, Max: 40},
	}
}

// Catalog is a set of named variants with a default.
type Catalog struct {
	Default  string
	variants map[string]Variant
}

// NewCatalog validates and indexes the given variants. The first variant is
// the default unless def names another one.
func NewCatalog(def string, variants ...Variant) (*Catalog, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: no variants", ErrInvalidVariant)
	}
	c := &Catalog{variants: make(map[string]Variant, len(variants))}
	for _, v := range variants {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.variants[v.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidVariant, v.Name)
		}
		c.variants[v.Name] = v
	}
	if def == "" {
		def = variants[0].Name
	}
	if _, ok := c.variants[def]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownVariant, def)
	}
	c.Default = def
	return c, nil
}

// DefaultCatalog holds the built-in presets with leaves as the default.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog("leaves", Leaves(), Cells())
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the named variant, or the default when name is empty.
func (c *Catalog) Lookup(name string) (Variant, error) {
	if name == "" {
		name = c.Default
	}
	v, ok := c.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Names lists the registered variant names in order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.variants))
	for n := range c.variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
