package effects

// Phase is the activation phase of a Field.
type Phase int

const (
	// Pending fields render nothing.
	Pending Phase = iota
	// Activated fields render their batch.
	Activated
)

func (p Phase) String() string {
	if p == Activated {
		return "activated"
	}
	return "pending"
}

// fieldState is either pending{} or activated{batch}.
type fieldState interface {
	phase() Phase
}

type pending struct{}

func (pending) phase() Phase { return Pending }

type activated struct {
	batch Batch
}

func (activated) phase() Phase { return Activated }

// Field owns the particle batch of one mounted view. The first render of a
// view happens while the field is pending and therefore shows no particles;
// the batch is drawn exactly once, when the view reports itself interactive.
//
// A Field is not safe for concurrent use; hosts serialize access.
type Field struct {
	variant Variant
	source  func() Source
	state   fieldState
}

// NewField returns a pending field for v. newSource is called on every
// generation; nil selects the deterministic fallback source.
func NewField(v Variant, newSource func() Source) *Field {
	if newSource == nil {
		newSource = func() Source { return nil }
	}
	return &Field{variant: v, source: newSource, state: pending{}}
}

// Variant returns the field's configuration.
func (f *Field) Variant() Variant { return f.variant }

// Phase reports the current phase.
func (f *Field) Phase() Phase { return f.state.phase() }

// Particles returns the current render input: empty while pending.
func (f *Field) Particles() Batch {
	if a, ok := f.state.(activated); ok {
		return a.batch
	}
	return nil
}

// Activate moves the field from pending to activated, generating the batch in
// the same step. Calling it again before Teardown returns the existing batch.
func (f *Field) Activate() Batch {
	if a, ok := f.state.(activated); ok {
		return a.batch
	}
	batch := Generate(f.variant, f.source())
	f.state = activated{batch: batch}
	return batch
}

// Regenerate replaces the whole batch of an activated field. It returns
// false and leaves a pending field untouched.
func (f *Field) Regenerate() (Batch, bool) {
	if _, ok := f.state.(activated); !ok {
		return nil, false
	}
	batch := Generate(f.variant, f.source())
	f.state = activated{batch: batch}
	return batch, true
}

// Teardown re-arms the field so the next mount generates a fresh batch.
func (f *Field) Teardown() {
	f.state = pending{}
}
