package typeinfo

import (
	"fmt"
	"sync"
)

// registry hands out keys and remembers the name behind each one.
type registry struct {
	mu     sync.RWMutex
	names  []string // indexed by Key; slot 0 is the undefined key
	byName map[string]TypeInfo
}

var defaultRegistry = &registry{
	names:  []string{""},
	byName: make(map[string]TypeInfo),
}

// Register records a new unqualified type and returns its identity. The exact
// and bare keys of an unqualified type are the same. Registering a name twice
// returns the first identity.
func Register(name string, traits Traits) TypeInfo {
	return defaultRegistry.register(name, traits&^(Const|Reference|Pointer))
}

// Lookup returns the identity registered under name.
func Lookup(name string) (TypeInfo, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	ti, ok := defaultRegistry.byName[name]
	return ti, ok
}

// AsConst returns the const-qualified variant of t.
func AsConst(t TypeInfo) TypeInfo { return defaultRegistry.qualify(t, Const, "const %s") }

// AsReference returns the reference variant of t.
func AsReference(t TypeInfo) TypeInfo { return defaultRegistry.qualify(t, Reference, "%s&") }

// AsPointer returns the pointer variant of t.
func AsPointer(t TypeInfo) TypeInfo { return defaultRegistry.qualify(t, Pointer, "%s*") }

func (r *registry) register(name string, traits Traits) TypeInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ti, ok := r.byName[name]; ok {
		return ti
	}

	k := Key(len(r.names))
	r.names = append(r.names, name)
	ti := New(Descriptor{Traits: traits, Exact: k, Bare: k})
	r.byName[name] = ti
	return ti
}

func (r *registry) qualify(t TypeInfo, q Traits, format string) TypeInfo {
	if t.IsUndef() {
		return t
	}

	name := fmt.Sprintf(format, t.Name())

	r.mu.Lock()
	defer r.mu.Unlock()

	if ti, ok := r.byName[name]; ok {
		return ti
	}

	k := Key(len(r.names))
	r.names = append(r.names, name)
	ti := New(Descriptor{Traits: t.traits | q, Exact: k, Bare: t.bare})
	r.byName[name] = ti
	return ti
}

func (r *registry) name(k Key) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if int(k) >= len(r.names) {
		return ""
	}
	return r.names[k]
}
