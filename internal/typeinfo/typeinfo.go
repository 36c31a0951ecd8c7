// Package typeinfo implements the type identity used by the script runtime
// and by the tree optimizer to decide when two values have the same shape.
//
// A TypeInfo records the const/reference/pointer/void/arithmetic character of
// a type plus two identity keys: the exact key of the type as written and the
// bare key of the type with its qualifiers stripped. Keys are handed out by
// explicit registration; there is no reflection involved.
package typeinfo

// Key is an opaque, stable identity for a registered type.
type Key uint32

// undefKey is never returned by Register.
const undefKey Key = 0

// Traits is a bitmask describing the character of a type.
type Traits uint8

const (
	Const Traits = 1 << iota
	Reference
	Pointer
	Void
	Arithmetic
)

// Descriptor is the input to New: the facets and keys of one type.
type Descriptor struct {
	Traits Traits
	Exact  Key
	Bare   Key
}

// TypeInfo is an immutable type identity. The zero value is the undefined
// identity, same as Undefined().
type TypeInfo struct {
	exact   Key
	bare    Key
	traits  Traits
	defined bool
}

// New builds a TypeInfo from a descriptor. Registration sites call this once
// per type; values copy the result around.
func New(d Descriptor) TypeInfo {
	return TypeInfo{exact: d.Exact, bare: d.Bare, traits: d.Traits, defined: true}
}

// Undefined returns the sentinel identity used for values without a type.
func Undefined() TypeInfo {
	return TypeInfo{}
}

// Equal reports whether both identities share the same exact key.
//
// Only the keys are compared, so two undefined identities compare equal here.
// Callers must not depend on that.
func (t TypeInfo) Equal(other TypeInfo) bool {
	return t.exact == other.exact
}

// EqualKey reports whether t is exactly the type registered under k.
func (t TypeInfo) EqualKey(k Key) bool {
	return t.defined && t.exact == k
}

// BareEqual compares the decayed keys, ignoring const/reference/pointer.
func (t TypeInfo) BareEqual(other TypeInfo) bool {
	return t.defined && other.defined && t.bare == other.bare
}

// BareEqualKey reports whether the decayed type of t is the type registered under k.
func (t TypeInfo) BareEqualKey(k Key) bool {
	return t.defined && t.bare == k
}

func (t TypeInfo) IsConst() bool      { return t.traits&Const != 0 }
func (t TypeInfo) IsReference() bool  { return t.traits&Reference != 0 }
func (t TypeInfo) IsPointer() bool    { return t.traits&Pointer != 0 }
func (t TypeInfo) IsVoid() bool       { return t.traits&Void != 0 }
func (t TypeInfo) IsArithmetic() bool { return t.traits&Arithmetic != 0 }
func (t TypeInfo) IsUndef() bool      { return !t.defined }

// Key returns the exact identity key.
func (t TypeInfo) Key() Key { return t.exact }

// BareKey returns the decayed identity key.
func (t TypeInfo) BareKey() Key { return t.bare }

// Name returns the registered name of the exact type, or "" when undefined.
func (t TypeInfo) Name() string {
	if !t.defined {
		return ""
	}
	return defaultRegistry.name(t.exact)
}

// BareName returns the registered name of the decayed type, or "" when undefined.
func (t TypeInfo) BareName() string {
	if !t.defined {
		return ""
	}
	return defaultRegistry.name(t.bare)
}

// Less orders identities by exact key so they can be used in sorted structures.
func (t TypeInfo) Less(other TypeInfo) bool {
	return t.exact < other.exact
}

// Compare returns -1, 0 or 1 following Less. It fits slices.SortFunc.
func Compare(a, b TypeInfo) int {
	switch {
	case a.exact < b.exact:
		return -1
	case a.exact > b.exact:
		return 1
	default:
		return 0
	}
}

func (t TypeInfo) String() string {
	if !t.defined {
		return "<undef>"
	}
	return t.Name()
}
