package transform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/modelvault/modelvault/field"
	"github.com/modelvault/modelvault/id"
)

// MinMaxScaler rescales samples linearly onto a target range.
type MinMaxScaler struct {
	uid    string
	fields *field.Set
}

// NewMinMaxScaler creates a scaler targeting [0, 1].
func NewMinMaxScaler() *MinMaxScaler {
	return newMinMaxScaler(id.New("minmax"))
}

func newMinMaxScaler(uid string) *MinMaxScaler {
	f := field.NewSet()
	f.Declare("min", "lower bound of the target range", field.Float64())
	f.Declare("max", "upper bound of the target range", field.Float64())
	f.MustSet("min", 0.0)
	f.MustSet("max", 1.0)

	return &MinMaxScaler{uid: uid, fields: f}
}

// UID returns the scaler's stable identifier.
func (t *MinMaxScaler) UID() string { return t.uid }

// Fields returns the scaler's declared field set.
func (t *MinMaxScaler) Fields() *field.Set { return t.fields }

// SetRange sets the target range.
func (t *MinMaxScaler) SetRange(min, max float64) error {
	if min >= max {
		return fmt.Errorf("transform: invalid range [%v, %v]", min, max)
	}
	if err := t.fields.Set("min", min); err != nil {
		return err
	}
	return t.fields.Set("max", max)
}

// Range returns the target range.
func (t *MinMaxScaler) Range() (min, max float64, err error) {
	if min, err = t.fields.Float64("min"); err != nil {
		return 0, 0, err
	}
	if max, err = t.fields.Float64("max"); err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

// Transform rescales the samples onto the target range. Constant input
// has no spread to stretch, so every sample maps to the midpoint.
func (t *MinMaxScaler) Transform(samples []float64) ([]float64, error) {
	lo, hi, err := t.Range()
	if err != nil {
		return nil, fmt.Errorf("failed to transform: %w", err)
	}
	// Loaded fields bypass SetRange, so the invariant is re-checked here.
	if lo >= hi {
		return nil, fmt.Errorf("transform: invalid range [%v, %v]", lo, hi)
	}
	if len(samples) == 0 {
		return []float64{}, nil
	}

	inMin, inMax := floats.Min(samples), floats.Max(samples)
	out := make([]float64, len(samples))

	if inMin == inMax {
		mid := (lo + hi) / 2
		for i := range out {
			out[i] = mid
		}
		return out, nil
	}

	ratio := (hi - lo) / (inMax - inMin)
	for i, v := range samples {
		out[i] = lo + (v-inMin)*ratio
	}
	return out, nil
}
