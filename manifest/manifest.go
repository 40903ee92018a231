// Package manifest defines the persistence envelope written for every
// saved instance and its JSON wire form.
//
// A manifest is a single line of JSON with five keys: class, uid,
// timestamp (epoch milliseconds), formatVersion, and fields (a mapping
// of field name to the field's JSON-encoded value). Parsing is tolerant
// of unknown keys and of the legacy paramMap key; rendering is
// deterministic, with map keys sorted.
package manifest

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// ErrMalformed reports a manifest that is not a valid envelope: not a
// JSON object, missing a required key, or carrying a wrongly-typed value.
var ErrMalformed = errors.New("manifest: malformed")

// json is the std-compat codec. Sorted map keys make renders reproducible.
var json = sonic.ConfigStd

// Manifest is the envelope persisted alongside an instance's fields.
type Manifest struct {
	// ClassName is the registered type name used to reconstruct the
	// instance at load time.
	ClassName string
	// UID is the unique identifier of the persisted instance.
	UID string
	// Timestamp records when the manifest was written, in epoch millis.
	Timestamp int64
	// FormatVersion is the library version that wrote the manifest.
	// Optional on read; older writers did not emit it.
	FormatVersion string
	// Fields maps field names to their JSON-encoded values.
	Fields map[string]string
	// RawText holds the exact serialized form this manifest was parsed
	// from or rendered to. Kept for diagnostics, never re-serialized.
	RawText string
}

// wire is the JSON shape of a manifest.
type wire struct {
	Class         string            `json:"class"`
	UID           string            `json:"uid"`
	Timestamp     int64             `json:"timestamp"`
	FormatVersion string            `json:"formatVersion,omitempty"`
	Fields        map[string]string `json:"fields"`
}

// New creates a manifest stamped with the current time.
func New(className, uid, formatVersion string, fields map[string]string) *Manifest {
	if fields == nil {
		fields = make(map[string]string)
	}
	return &Manifest{
		ClassName:     className,
		UID:           uid,
		Timestamp:     time.Now().UnixMilli(),
		FormatVersion: formatVersion,
		Fields:        fields,
	}
}

// Render serializes the manifest to its wire form and records the result
// in RawText. Rendering the same manifest twice yields identical text.
func (m *Manifest) Render() (string, error) {
	if m.ClassName == "" {
		return "", fmt.Errorf("manifest: class name is required")
	}
	if m.UID == "" {
		return "", fmt.Errorf("manifest: uid is required")
	}

	w := wire{
		Class:         m.ClassName,
		UID:           m.UID,
		Timestamp:     m.Timestamp,
		FormatVersion: m.FormatVersion,
		Fields:        m.Fields,
	}
	if w.Fields == nil {
		w.Fields = make(map[string]string)
	}

	text, err := json.MarshalToString(w)
	if err != nil {
		return "", fmt.Errorf("failed to render manifest: %w", err)
	}
	m.RawText = text
	return text, nil
}

// Parse validates and decodes manifest text. The original text is
// preserved in RawText. Field values that arrive as raw JSON rather than
// text (manifests written before values were stringified) are re-rendered
// to their compact JSON form so codecs can decode them uniformly.
func Parse(text string) (*Manifest, error) {
	var root map[string]any
	if err := json.UnmarshalFromString(text, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	class, err := stringKey(root, "class")
	if err != nil {
		return nil, err
	}
	uid, err := stringKey(root, "uid")
	if err != nil {
		return nil, err
	}

	rawTS, ok := root["timestamp"]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrMalformed, "timestamp")
	}
	ts, ok := rawTS.(float64)
	if !ok {
		return nil, fmt.Errorf("%w: key %q is %T, want number", ErrMalformed, "timestamp", rawTS)
	}

	formatVersion := ""
	if rawFV, ok := root["formatVersion"]; ok {
		formatVersion, ok = rawFV.(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %q is %T, want string", ErrMalformed, "formatVersion", rawFV)
		}
	}

	rawFields, ok := root["fields"]
	if !ok {
		// Older manifests used paramMap for the same mapping.
		rawFields, ok = root["paramMap"]
	}
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrMalformed, "fields")
	}
	obj, ok := rawFields.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: fields is %T, want object", ErrMalformed, rawFields)
	}

	fields := make(map[string]string, len(obj))
	for name, v := range obj {
		if s, ok := v.(string); ok {
			fields[name] = s
			continue
		}
		encoded, err := json.MarshalToString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformed, name, err)
		}
		fields[name] = encoded
	}

	return &Manifest{
		ClassName:     class,
		UID:           uid,
		Timestamp:     int64(ts),
		FormatVersion: formatVersion,
		Fields:        fields,
		RawText:       text,
	}, nil
}

// Time returns the write timestamp as a time.Time.
func (m *Manifest) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

func stringKey(root map[string]any, key string) (string, error) {
	raw, ok := root[key]
	if !ok {
		return "", fmt.Errorf("%w: missing key %q", ErrMalformed, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: key %q is %T, want string", ErrMalformed, key, raw)
	}
	return s, nil
}
