// Package transform provides persistable sample transforms. Each
// transform declares its configuration as fields, so it saves and loads
// through the persist package without custom serialization.
package transform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/modelvault/modelvault/field"
	"github.com/modelvault/modelvault/id"
)

// LinearScaler multiplies every sample by a constant factor.
type LinearScaler struct {
	uid    string
	fields *field.Set
}

// NewLinearScaler creates a scaler with factor 1.
func NewLinearScaler() *LinearScaler {
	return newLinearScaler(id.New("linscaler"))
}

func newLinearScaler(uid string) *LinearScaler {
	f := field.NewSet()
	f.Declare("scale", "factor applied to every sample", field.Float64())
	f.MustSet("scale", 1.0)

	return &LinearScaler{uid: uid, fields: f}
}

// UID returns the scaler's stable identifier.
func (t *LinearScaler) UID() string { return t.uid }

// Fields returns the scaler's declared field set.
func (t *LinearScaler) Fields() *field.Set { return t.fields }

// SetScale sets the factor.
func (t *LinearScaler) SetScale(scale float64) error {
	return t.fields.Set("scale", scale)
}

// Scale returns the factor.
func (t *LinearScaler) Scale() (float64, error) {
	return t.fields.Float64("scale")
}

// Transform returns a new slice with every sample scaled.
func (t *LinearScaler) Transform(samples []float64) ([]float64, error) {
	scale, err := t.Scale()
	if err != nil {
		return nil, fmt.Errorf("failed to transform: %w", err)
	}

	out := make([]float64, len(samples))
	floats.ScaleTo(out, scale, samples)
	return out, nil
}
