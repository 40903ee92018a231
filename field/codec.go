// Package field implements the configuration surface of persistable
// instances: named, documented fields whose values travel through a
// per-field codec as JSON text.
//
// A Set declares the fields an instance understands and tracks which of
// them currently hold a value. Codecs convert between in-memory values
// and the text form stored in manifests, so supporting a new value type
// means writing a new Codec and nothing else.
package field

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Codec converts one field value between its in-memory form and JSON text.
type Codec interface {
	// Encode renders a value as JSON text.
	Encode(v any) (string, error)
	// Decode parses JSON text back into a value. The returned value uses
	// the codec's canonical type regardless of what Encode accepted.
	Decode(text string) (any, error)
}

// Float64 returns a codec for float64 values. Encode accepts any numeric
// type and widens it.
func Float64() Codec { return float64Codec{} }

// Int returns a codec for int64 values. Encode accepts any signed
// integer type.
func Int() Codec { return intCodec{} }

// Bool returns a codec for bool values.
func Bool() Codec { return boolCodec{} }

// String returns a codec for string values.
func String() Codec { return stringCodec{} }

// Strings returns a codec for []string values.
func Strings() Codec { return stringsCodec{} }

// Float64s returns a codec for []float64 values. Encode accepts slices
// of any numeric type.
func Float64s() Codec { return float64sCodec{} }

type float64Codec struct{}

func (float64Codec) Encode(v any) (string, error) {
	f, ok := toFloat64(v)
	if !ok {
		return "", fmt.Errorf("float64 codec: cannot encode %T", v)
	}
	return sonic.MarshalString(f)
}

func (float64Codec) Decode(text string) (any, error) {
	var f float64
	if err := sonic.UnmarshalString(text, &f); err != nil {
		return nil, fmt.Errorf("float64 codec: %w", err)
	}
	return f, nil
}

type intCodec struct{}

func (intCodec) Encode(v any) (string, error) {
	i, ok := toInt64(v)
	if !ok {
		return "", fmt.Errorf("int codec: cannot encode %T", v)
	}
	return sonic.MarshalString(i)
}

func (intCodec) Decode(text string) (any, error) {
	var i int64
	if err := sonic.UnmarshalString(text, &i); err != nil {
		return nil, fmt.Errorf("int codec: %w", err)
	}
	return i, nil
}

type boolCodec struct{}

func (boolCodec) Encode(v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("bool codec: cannot encode %T", v)
	}
	return sonic.MarshalString(b)
}

func (boolCodec) Decode(text string) (any, error) {
	var b bool
	if err := sonic.UnmarshalString(text, &b); err != nil {
		return nil, fmt.Errorf("bool codec: %w", err)
	}
	return b, nil
}

type stringCodec struct{}

func (stringCodec) Encode(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("string codec: cannot encode %T", v)
	}
	return sonic.MarshalString(s)
}

func (stringCodec) Decode(text string) (any, error) {
	var s string
	if err := sonic.UnmarshalString(text, &s); err != nil {
		return nil, fmt.Errorf("string codec: %w", err)
	}
	return s, nil
}

type stringsCodec struct{}

func (stringsCodec) Encode(v any) (string, error) {
	switch vs := v.(type) {
	case []string:
		return sonic.MarshalString(vs)
	case []any:
		out := make([]string, len(vs))
		for i, e := range vs {
			s, ok := e.(string)
			if !ok {
				return "", fmt.Errorf("strings codec: element %d is %T, not string", i, e)
			}
			out[i] = s
		}
		return sonic.MarshalString(out)
	default:
		return "", fmt.Errorf("strings codec: cannot encode %T", v)
	}
}

func (stringsCodec) Decode(text string) (any, error) {
	var out []string
	if err := sonic.UnmarshalString(text, &out); err != nil {
		return nil, fmt.Errorf("strings codec: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

type float64sCodec struct{}

func (float64sCodec) Encode(v any) (string, error) {
	switch vs := v.(type) {
	case []float64:
		return sonic.MarshalString(vs)
	case []any:
		out := make([]float64, len(vs))
		for i, e := range vs {
			f, ok := toFloat64(e)
			if !ok {
				return "", fmt.Errorf("float64s codec: element %d is %T, not numeric", i, e)
			}
			out[i] = f
		}
		return sonic.MarshalString(out)
	default:
		return "", fmt.Errorf("float64s codec: cannot encode %T", v)
	}
}

func (float64sCodec) Decode(text string) (any, error) {
	var out []float64
	if err := sonic.UnmarshalString(text, &out); err != nil {
		return nil, fmt.Errorf("float64s codec: %w", err)
	}
	if out == nil {
		out = []float64{}
	}
	return out, nil
}

// toFloat64 widens common numeric types.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toInt64 widens signed integer types.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	default:
		return 0, false
	}
}
