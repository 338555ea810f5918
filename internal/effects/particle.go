package effects

import (
	"math"
	"strconv"
	"strings"
)

// Unit is the unit a particle's position is expressed in.
type Unit string

const (
	UnitPercent Unit = "%"
	UnitPixel   Unit = "px"
)

// ParticleSpec is one decorative element of a field. It is immutable once its
// batch has been generated.
type ParticleSpec struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Unit    Unit    `json:"unit"`
	Size    float64 `json:"size"`
	Delay   float64 `json:"delay"`
	Opacity float64 `json:"opacity"`
	Drift   *Vec2   `json:"drift,omitempty"`
}

// Style renders the inline CSS declaration for the element.
func (p ParticleSpec) Style() string {
	var b strings.Builder
	b.WriteString("left:")
	b.WriteString(num(p.X))
	b.WriteString(string(p.Unit))
	b.WriteString(";top:")
	b.WriteString(num(p.Y))
	b.WriteString(string(p.Unit))
	b.WriteString(";width:")
	b.WriteString(num(p.Size))
	b.WriteString("px;height:")
	b.WriteString(num(p.Size))
	b.WriteString("px;font-size:")
	b.WriteString(num(p.Size))
	b.WriteString("px;animation-delay:")
	b.WriteString(num(p.Delay))
	b.WriteString("s;opacity:")
	b.WriteString(num(p.Opacity))
	if p.Drift != nil {
		b.WriteString(";--dx:")
		b.WriteString(num(p.Drift.X))
		b.WriteString("px;--dy:")
		b.WriteString(num(p.Drift.Y))
		b.WriteString("px")
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Batch is the full set of particles produced by one generation.
type Batch []ParticleSpec

// Generate draws v.Count independent particles from src. A nil src yields a
// fixed deterministic batch so the decorative baseline is never empty.
func Generate(v Variant, src Source) Batch {
	if src == nil {
		src = fallbackSource()
	}
	batch := make(Batch, v.Count)
	for i := range batch {
		batch[i] = drawParticle(i, v, src)
	}
	return batch
}

func drawParticle(id int, v Variant, src Source) ParticleSpec {
	p := ParticleSpec{ID: id}
	switch v.Placement {
	case PlacementPolar:
		angle := Range{Min: 0, Max: 2 * math.Pi}.Draw(src)
		r := v.Radius.Draw(src)
		p.X = v.Center.X + r*math.Cos(angle)
		p.Y = v.Center.Y + r*math.Sin(angle)
		p.Unit = UnitPixel
	default:
		p.X = v.X.Draw(src)
		p.Y = v.Y.Draw(src)
		p.Unit = UnitPercent
	}
	p.Size = v.Size.Draw(src)
	p.Delay = v.Delay.Draw(src)
	p.Opacity = v.Opacity.Draw(src)
	if v.Drift != nil {
		p.Drift = &Vec2{X: v.Drift.Draw(src), Y: v.Drift.Draw(src)}
	}
	return p
}
