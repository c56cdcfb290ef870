package flatpack

import "sort"

// omap is the ordered key->child map backing an object node. Keys are kept
// sorted lexicographically at all times, implemented as a sorted slice
// searched by binary search -- the same shape the wire format itself uses, so
// iteration order trivially matches finalized key order.
type omap struct {
	entries []omapEntry
}

type omapEntry struct {
	key string
	val Value
}

func newOmap() *omap { return &omap{} }

func (m *omap) len() int { return len(m.entries) }

func (m *omap) find(key string) (int, bool) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].key >= key })
	if i < len(m.entries) && m.entries[i].key == key {
		return i, true
	}
	return i, false
}

func (m *omap) get(key string) (Value, bool) {
	i, ok := m.find(key)
	if !ok {
		return Value{}, false
	}
	return m.entries[i].val, true
}

func (m *omap) has(key string) bool {
	_, ok := m.find(key)
	return ok
}

// insert fails if key already exists, matching Insert's DuplicateKey contract.
func (m *omap) insert(key string, val Value) bool {
	i, ok := m.find(key)
	if ok {
		return false
	}
	m.entries = append(m.entries, omapEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = omapEntry{key: key, val: val}
	return true
}

// set upserts key, returning the previous value (if any) so the caller can
// release it.
func (m *omap) set(key string, val Value) (old Value, hadOld bool) {
	i, ok := m.find(key)
	if ok {
		old, hadOld = m.entries[i].val, true
		m.entries[i].val = val
		return
	}
	m.entries = append(m.entries, omapEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = omapEntry{key: key, val: val}
	return
}

func (m *omap) delete(key string) (old Value, ok bool) {
	i, found := m.find(key)
	if !found {
		return Value{}, false
	}
	old = m.entries[i].val
	copy(m.entries[i:], m.entries[i+1:])
	m.entries = m.entries[:len(m.entries)-1]
	return old, true
}

func (m *omap) cloneShallow() *omap {
	cp := make([]omapEntry, len(m.entries))
	for i, e := range m.entries {
		cp[i] = omapEntry{key: e.key, val: e.val.Clone()}
	}
	return &omap{entries: cp}
}

func (m *omap) keyAt(i int) string { return m.entries[i].key }
func (m *omap) valAt(i int) Value  { return m.entries[i].val }

// --- Value object API ----------------------------------------------------

func (v Value) requireObject(op string) (*node, error) {
	n := v.n()
	if n.kind != KindObject {
		return nil, NewTypeError(op, n.kind, "object")
	}
	return n, nil
}

func (v Value) checkOwnerKind(op string, child Value) error {
	if v.ownerKind() != child.ownerKind() {
		return NewStateError(op, "cannot mix ownership kinds within one tree")
	}
	return nil
}

// Has reports whether key is present in this object.
func (v Value) Has(key string) (bool, error) {
	n, err := v.requireObject("Has")
	if err != nil {
		return false, err
	}
	return n.obj.has(key), nil
}

// Get returns the child for key, or a null value if the key is absent,
// matching the dynamic-language contract for missing members.
// Use At for the strict counterpart that errors on a missing key.
func (v Value) Get(key string) Value {
	n := v.n()
	if n.kind != KindObject {
		return NewNullKind(v.ownerKind())
	}
	child, ok := n.obj.get(key)
	if !ok {
		return NewNullKind(v.ownerKind())
	}
	return child.Clone()
}

// At returns the child for key, or a LogicError if it is absent.
func (v Value) At(key string) (Value, error) {
	n, err := v.requireObject("At")
	if err != nil {
		return Value{}, err
	}
	child, ok := n.obj.get(key)
	if !ok {
		return Value{}, NewLogicError("At", "key "+key+" not found")
	}
	return child.Clone(), nil
}

// Size returns the number of entries in this object (or array).
func (v Value) Size() (int, error) {
	n := v.n()
	switch n.kind {
	case KindObject:
		return n.obj.len(), nil
	case KindArray:
		return len(n.arr), nil
	default:
		return 0, NewTypeError("Size", n.kind, "object or array")
	}
}

// Keys returns the sorted keys of this object.
func (v Value) Keys() ([]string, error) {
	n, err := v.requireObject("Keys")
	if err != nil {
		return nil, err
	}
	out := make([]string, n.obj.len())
	for i := range out {
		out[i] = n.obj.keyAt(i)
	}
	return out, nil
}

// Values returns this aggregate's child values: in sorted key order for an
// object, in index order for an array. Each element is a Clone()d handle the
// caller owns.
func (v Value) Values() ([]Value, error) {
	n := v.n()
	switch n.kind {
	case KindObject:
		out := make([]Value, n.obj.len())
		for i := range out {
			out[i] = n.obj.valAt(i).Clone()
		}
		return out, nil
	case KindArray:
		out := make([]Value, len(n.arr))
		for i, c := range n.arr {
			out[i] = c.Clone()
		}
		return out, nil
	default:
		return nil, NewTypeError("Values", n.kind, "object or array")
	}
}

// Insert adds key->val, failing with a LogicError (DuplicateKey) if key
// already exists.
func (v *Value) Insert(key string, val Value) error {
	n, err := v.requireObject("Insert")
	if err != nil {
		return err
	}
	if err := v.checkOwnerKind("Insert", val); err != nil {
		return err
	}
	n = v.ensureExclusive()
	if !n.obj.insert(key, val.Clone()) {
		return ErrDuplicateKey("Insert", key)
	}
	return nil
}

// Set upserts key->val, releasing any previous value's handle.
func (v *Value) Set(key string, val Value) error {
	n, err := v.requireObject("Set")
	if err != nil {
		return err
	}
	if err := v.checkOwnerKind("Set", val); err != nil {
		return err
	}
	n = v.ensureExclusive()
	old, hadOld := n.obj.set(key, val.Clone())
	if hadOld {
		old.Release()
	}
	return nil
}

// Delete removes key, releasing its value's handle. It is a no-op if key is
// absent.
func (v *Value) Delete(key string) error {
	n, err := v.requireObject("Delete")
	if err != nil {
		return err
	}
	n = v.ensureExclusive()
	if old, ok := n.obj.delete(key); ok {
		old.Release()
	}
	return nil
}
