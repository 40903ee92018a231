package field

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotDeclared reports an operation on a field the set never declared.
	ErrNotDeclared = errors.New("field: not declared")
	// ErrNotSet reports a read of a declared field that holds no value.
	ErrNotSet = errors.New("field: not set")
)

// decl describes one declared field.
type decl struct {
	doc   string
	codec Codec
}

// Set holds the declared fields of one instance and the values currently
// assigned to them. Declaration order is preserved for deterministic
// iteration. Create with NewSet; the zero value is not usable.
type Set struct {
	mu     sync.RWMutex
	decls  map[string]decl
	order  []string
	values map[string]any
}

// NewSet creates an empty field set.
func NewSet() *Set {
	return &Set{
		decls:  make(map[string]decl),
		values: make(map[string]any),
	}
}

// Declare registers a named field with its doc string and codec.
// Declaring happens at instance construction; an empty name, a nil codec,
// or a duplicate name is a programming error and panics.
func (s *Set) Declare(name, doc string, c Codec) {
	if name == "" {
		panic("field: declared with empty name")
	}
	if c == nil {
		panic(fmt.Sprintf("field: %q declared with nil codec", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.decls[name]; exists {
		panic(fmt.Sprintf("field: %q declared twice", name))
	}
	s.decls[name] = decl{doc: doc, codec: c}
	s.order = append(s.order, name)
}

// Set assigns a value to a declared field. The value is validated
// through the field's codec so type errors surface immediately rather
// than at save time.
func (s *Set) Set(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decls[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}
	if _, err := d.codec.Encode(v); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	s.values[name] = v
	return nil
}

// MustSet assigns a value and panics on error. For use in typed setters
// where the field name is known to be declared.
func (s *Set) MustSet(name string, v any) {
	if err := s.Set(name, v); err != nil {
		panic(err)
	}
}

// Clear removes the value of a field, returning it to the unset state.
func (s *Set) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, name)
}

// Get returns the raw value of a field and whether it is set.
func (s *Set) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// IsSet reports whether a field currently holds a value.
func (s *Set) IsSet(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[name]
	return ok
}

// Declared reports whether a field name is known to the set.
func (s *Set) Declared(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.decls[name]
	return ok
}

// Doc returns the doc string of a declared field.
func (s *Set) Doc(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decls[name].doc
}

// Names returns all declared field names in declaration order.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of fields currently set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Each calls fn for every currently-set field in declaration order,
// stopping early if fn returns false. The iteration works on a snapshot,
// so fn may call back into the set.
func (s *Set) Each(fn func(name string, value any) bool) {
	s.mu.RLock()
	type pair struct {
		name  string
		value any
	}
	pairs := make([]pair, 0, len(s.values))
	for _, name := range s.order {
		if v, ok := s.values[name]; ok {
			pairs = append(pairs, pair{name, v})
		}
	}
	s.mu.RUnlock()

	for _, p := range pairs {
		if !fn(p.name, p.value) {
			return
		}
	}
}

// Encode renders the current value of a field as JSON text.
func (s *Set) Encode(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.decls[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}
	v, ok := s.values[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotSet, name)
	}
	text, err := d.codec.Encode(v)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return text, nil
}

// EncodeAll renders every currently-set field as JSON text, keyed by
// field name. This is what writers persist.
func (s *Set) EncodeAll() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.values))
	for name, v := range s.values {
		text, err := s.decls[name].codec.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = text
	}
	return out, nil
}

// DecodeAndSet parses JSON text through the field's codec and assigns
// the result. This is how readers restore persisted values.
func (s *Set) DecodeAndSet(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.decls[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}
	v, err := d.codec.Decode(text)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	s.values[name] = v
	return nil
}

// Float64 returns the value of a float64 field.
func (s *Set) Float64(name string) (float64, error) {
	v, err := s.get(name)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, fmt.Errorf("field %q holds %T, want float64", name, v)
	}
	return f, nil
}

// Int returns the value of an integer field.
func (s *Set) Int(name string) (int64, error) {
	v, err := s.get(name)
	if err != nil {
		return 0, err
	}
	i, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("field %q holds %T, want int64", name, v)
	}
	return i, nil
}

// Bool returns the value of a bool field.
func (s *Set) Bool(name string) (bool, error) {
	v, err := s.get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %q holds %T, want bool", name, v)
	}
	return b, nil
}

// String returns the value of a string field.
func (s *Set) String(name string) (string, error) {
	v, err := s.get(name)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q holds %T, want string", name, v)
	}
	return str, nil
}

// Strings returns the value of a []string field.
func (s *Set) Strings(name string) ([]string, error) {
	v, err := s.get(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([]string)
	if !ok {
		return nil, fmt.Errorf("field %q holds %T, want []string", name, v)
	}
	return out, nil
}

// Float64s returns the value of a []float64 field.
func (s *Set) Float64s(name string) ([]float64, error) {
	v, err := s.get(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([]float64)
	if !ok {
		return nil, fmt.Errorf("field %q holds %T, want []float64", name, v)
	}
	return out, nil
}

func (s *Set) get(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.decls[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}
	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotSet, name)
	}
	return v, nil
}
