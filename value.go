package flatpack

import "fmt"

// node is the mutable-tree representation of a value. It is a
// tagged union over the seven logical kinds; only Object and Array carry
// children, and only those two are ever copy-on-write-copied in place since
// scalars have no in-place mutator (replacing a scalar means replacing the
// parent's handle to it, not mutating the scalar's node).
type node struct {
	kind Kind

	b bool
	i int64
	f float64
	s string

	arr []Value
	obj *omap
}

// Value is a handle into the mutable tree: a reference-counted owner of a
// node. Copying a Value struct directly (e.g. storing it in a slice) does not
// bump the owner's strong count -- only Clone does. Call Clone to create a
// second live alias of the same node; call Release when a handle created that
// way is no longer needed, so that copy-on-write can tell a solely owned node
// from a shared one.
type Value struct {
	own Own[*node]
}

// Clone returns a new handle sharing the same underlying node and bumps its
// strong count. a and a.Clone() observe each other's state until one of them
// is mutated, at which point copy-on-write isolates the mutated side.
func (v Value) Clone() Value {
	return Value{own: v.own.Clone()}
}

// Release retires this handle's claim on the underlying node. It is optional:
// forgetting to call it never corrupts state, it only means copy-on-write may
// copy more eagerly than strictly necessary on a later mutation.
func (v Value) Release() {
	if v.own != nil {
		v.own.Drop()
	}
}

// IsValid reports whether v wraps a node at all (the zero Value does not).
func (v Value) IsValid() bool { return v.own != nil }

func (v Value) n() *node { return v.own.Get() }

// Kind returns the value's logical type.
func (v Value) Kind() Kind { return v.n().kind }

func (v Value) ownerKind() OwnerKind { return v.own.Kind() }

func newValue(kind OwnerKind, n *node) Value {
	return Value{own: newOwner(kind, n)}
}

// --- scalar constructors -----------------------------------------------

// NewNull constructs a null value with atomic (default) ownership.
func NewNull() Value { return NewNullKind(OwnerAtomic) }

// NewNullKind constructs a null value with the given ownership kind.
func NewNullKind(kind OwnerKind) Value { return newValue(kind, &node{kind: KindNull}) }

func NewBool(b bool) Value { return NewBoolKind(OwnerAtomic, b) }

func NewBoolKind(kind OwnerKind, b bool) Value {
	return newValue(kind, &node{kind: KindBool, b: b})
}

func NewInt(i int64) Value { return NewIntKind(OwnerAtomic, i) }

func NewIntKind(kind OwnerKind, i int64) Value {
	return newValue(kind, &node{kind: KindInt, i: i})
}

func NewFloat(f float64) Value { return NewFloatKind(OwnerAtomic, f) }

func NewFloatKind(kind OwnerKind, f float64) Value {
	return newValue(kind, &node{kind: KindFloat, f: f})
}

func NewString(s string) Value { return NewStringKind(OwnerAtomic, s) }

func NewStringKind(kind OwnerKind, s string) Value {
	return newValue(kind, &node{kind: KindString, s: s})
}

func NewArray() Value { return NewArrayKind(OwnerAtomic) }

func NewArrayKind(kind OwnerKind) Value {
	return newValue(kind, &node{kind: KindArray, arr: nil})
}

func NewObject() Value { return NewObjectKind(OwnerAtomic) }

func NewObjectKind(kind OwnerKind) Value {
	return newValue(kind, &node{kind: KindObject, obj: newOmap()})
}

// --- scalar accessors ----------------------------------------------------

func (v Value) Bool() (bool, error) {
	n := v.n()
	if n.kind != KindBool {
		return false, NewTypeError("Bool", n.kind, "boolean")
	}
	return n.b, nil
}

// BoolOr returns the boolean value or def if v is not a boolean, for
// ergonomic retrieval without branching.
func (v Value) BoolOr(def bool) bool {
	b, err := v.Bool()
	if err != nil {
		return def
	}
	return b
}

func (v Value) Int() (int64, error) {
	n := v.n()
	switch n.kind {
	case KindInt:
		return n.i, nil
	case KindFloat:
		return 0, NewTypeError("Int", n.kind, "integer")
	default:
		return 0, NewTypeError("Int", n.kind, "integer")
	}
}

func (v Value) IntOr(def int64) int64 {
	i, err := v.Int()
	if err != nil {
		return def
	}
	return i
}

func (v Value) Float() (float64, error) {
	n := v.n()
	switch n.kind {
	case KindFloat:
		return n.f, nil
	case KindInt:
		return float64(n.i), nil
	default:
		return 0, NewTypeError("Float", n.kind, "decimal")
	}
}

func (v Value) FloatOr(def float64) float64 {
	f, err := v.Float()
	if err != nil {
		return def
	}
	return f
}

func (v Value) StringValue() (string, error) {
	n := v.n()
	if n.kind != KindString {
		return "", NewTypeError("String", n.kind, "string")
	}
	return n.s, nil
}

func (v Value) StringOr(def string) string {
	s, err := v.StringValue()
	if err != nil {
		return def
	}
	return s
}

func (v Value) IsNull() bool { return v.n().kind == KindNull }

func (v Value) String() string {
	n := v.n()
	switch n.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", n.b)
	case KindInt:
		return fmt.Sprintf("%d", n.i)
	case KindFloat:
		return fmt.Sprintf("%g", n.f)
	case KindString:
		return n.s
	case KindArray:
		return fmt.Sprintf("array[%d]", len(n.arr))
	case KindObject:
		return fmt.Sprintf("object[%d]", n.obj.len())
	default:
		return "?"
	}
}

// shallowCopy creates an exclusively-owned copy of v's top-level node: for
// aggregates, a new slice/map whose elements are Clone()d aliases of the
// originals, so those children's strong counts correctly reflect that two
// containers now reference them. Only the immediate level is copied; deeper
// structure remains shared.
func (n *node) shallowCopy() *node {
	switch n.kind {
	case KindArray:
		cp := make([]Value, len(n.arr))
		for i, c := range n.arr {
			cp[i] = c.Clone()
		}
		return &node{kind: KindArray, arr: cp}
	case KindObject:
		return &node{kind: KindObject, obj: n.obj.cloneShallow()}
	default:
		return &node{kind: n.kind, b: n.b, i: n.i, f: n.f, s: n.s}
	}
}

// ensureExclusive implements the copy-on-write mutation protocol: if this
// handle's node is shared (strong count > 1), it is replaced with an
// exclusively-owned shallow copy before the caller mutates it in place. It
// returns the (possibly new) node to mutate.
func (v *Value) ensureExclusive() *node {
	if v.own.StrongCount() > 1 {
		cp := v.n().shallowCopy()
		newOwn := newOwner(v.own.Kind(), cp)
		v.own.Drop()
		v.own = newOwn
		return cp
	}
	return v.n()
}
