package persist

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Factory constructs a component instance carrying the given uid,
// ready to receive loaded fields. Reconstruction passes the manifest's
// uid, so every persistable type must support uid-only construction.
type Factory func(uid string) Persistable

// Registry maps class names to factories so components can be
// reconstructed from a manifest alone. It also keeps the reverse
// mapping from Go type to class name, which lets saves and typed loads
// derive the class without the caller naming it.
type Registry struct {
	byName sync.Map // class name -> Factory
	byType sync.Map // reflect.Type -> class name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that Register and
// the package-level Save and Load operate on.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a class to the default registry. Call it from an init
// function in the package defining the component.
func Register[C Persistable](name string, factory func(uid string) C) {
	RegisterIn[C](defaultRegistry, name, factory)
}

// RegisterIn adds a class to the given registry.
func RegisterIn[C Persistable](r *Registry, name string, factory func(uid string) C) {
	r.add(name, reflect.TypeFor[C](), func(uid string) Persistable { return factory(uid) })
}

// Add registers a class by probing the factory for its concrete type.
// Prefer RegisterIn, which derives the type without constructing an
// instance.
func (r *Registry) Add(name string, factory Factory) {
	if factory == nil {
		panic("persist: nil factory for class " + name)
	}
	r.add(name, reflect.TypeOf(factory("")), factory)
}

func (r *Registry) add(name string, t reflect.Type, factory Factory) {
	if name == "" {
		panic("persist: empty class name")
	}
	if factory == nil {
		panic("persist: nil factory for class " + name)
	}
	if _, loaded := r.byName.LoadOrStore(name, factory); loaded {
		panic(fmt.Sprintf("persist: class %s registered twice", name))
	}
	if prev, loaded := r.byType.LoadOrStore(t, name); loaded && prev.(string) != name {
		panic(fmt.Sprintf("persist: type %s registered as both %s and %s", t, prev, name))
	}
}

// New constructs an instance of the named class carrying the given uid.
func (r *Registry) New(name, uid string) (Persistable, error) {
	factory, ok := r.byName.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: no factory registered for %q", ErrUnknownClass, name)
	}
	return factory.(Factory)(uid), nil
}

// Contains reports whether the class name is registered.
func (r *Registry) Contains(name string) bool {
	_, ok := r.byName.Load(name)
	return ok
}

// NameFor returns the class name registered for the component's
// concrete type.
func (r *Registry) NameFor(c Persistable) (string, bool) {
	return r.nameForType(reflect.TypeOf(c))
}

func (r *Registry) nameForType(t reflect.Type) (string, bool) {
	name, ok := r.byType.Load(t)
	if !ok {
		return "", false
	}
	return name.(string), true
}

// Names returns all registered class names, sorted.
func (r *Registry) Names() []string {
	var names []string
	r.byName.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	sort.Strings(names)
	return names
}
