package transform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/modelvault/modelvault/field"
	"github.com/modelvault/modelvault/id"
)

// Normalizer divides samples by their p-norm.
type Normalizer struct {
	uid    string
	fields *field.Set
}

// NewNormalizer creates a normalizer using the Euclidean norm.
func NewNormalizer() *Normalizer {
	return newNormalizer(id.New("norm"))
}

func newNormalizer(uid string) *Normalizer {
	f := field.NewSet()
	f.Declare("p", "order of the norm", field.Float64())
	f.MustSet("p", 2.0)

	return &Normalizer{uid: uid, fields: f}
}

// UID returns the normalizer's stable identifier.
func (t *Normalizer) UID() string { return t.uid }

// Fields returns the normalizer's declared field set.
func (t *Normalizer) Fields() *field.Set { return t.fields }

// SetP sets the norm order. Orders below 1 do not define a norm.
func (t *Normalizer) SetP(p float64) error {
	if p < 1 {
		return fmt.Errorf("transform: norm order %v is below 1", p)
	}
	return t.fields.Set("p", p)
}

// P returns the norm order.
func (t *Normalizer) P() (float64, error) {
	return t.fields.Float64("p")
}

// Transform returns the samples divided by their p-norm. A zero norm
// leaves the samples unchanged, since there is nothing to scale by.
func (t *Normalizer) Transform(samples []float64) ([]float64, error) {
	p, err := t.P()
	if err != nil {
		return nil, fmt.Errorf("failed to transform: %w", err)
	}

	out := make([]float64, len(samples))
	copy(out, samples)
	if len(samples) == 0 {
		return out, nil
	}

	norm := floats.Norm(samples, p)
	if norm == 0 {
		return out, nil
	}
	floats.Scale(1/norm, out)
	return out, nil
}
