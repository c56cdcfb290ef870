package flatpack

func (v Value) requireArray(op string) (*node, error) {
	n := v.n()
	if n.kind != KindArray {
		return nil, NewTypeError(op, n.kind, "array")
	}
	return n, nil
}

// Len returns the number of elements in this array.
func (v Value) Len() (int, error) {
	n, err := v.requireArray("Len")
	if err != nil {
		return 0, err
	}
	return len(n.arr), nil
}

// Index returns the element at idx, or a null value if idx is out of range
// (the dynamic-language contract for missing members). IndexAt is the strict
// counterpart.
func (v Value) Index(idx int) Value {
	n := v.n()
	if n.kind != KindArray || idx < 0 || idx >= len(n.arr) {
		return NewNullKind(v.ownerKind())
	}
	return n.arr[idx].Clone()
}

// IndexAt returns the element at idx, or a LogicError if idx is out of range.
func (v Value) IndexAt(idx int) (Value, error) {
	n, err := v.requireArray("IndexAt")
	if err != nil {
		return Value{}, err
	}
	if idx < 0 || idx >= len(n.arr) {
		return Value{}, ErrIndexOutOfRange("IndexAt", idx, len(n.arr))
	}
	return n.arr[idx].Clone(), nil
}

// PushBack appends val to the end of the array.
func (v *Value) PushBack(val Value) error {
	n, err := v.requireArray("PushBack")
	if err != nil {
		return err
	}
	if err := v.checkOwnerKind("PushBack", val); err != nil {
		return err
	}
	n = v.ensureExclusive()
	n.arr = append(n.arr, val.Clone())
	return nil
}

// InsertAt inserts val at idx, shifting later elements right. idx == Len() is
// allowed and behaves like PushBack.
func (v *Value) InsertAt(idx int, val Value) error {
	n, err := v.requireArray("InsertAt")
	if err != nil {
		return err
	}
	if idx < 0 || idx > len(n.arr) {
		return ErrIndexOutOfRange("InsertAt", idx, len(n.arr))
	}
	if err := v.checkOwnerKind("InsertAt", val); err != nil {
		return err
	}
	n = v.ensureExclusive()
	n.arr = append(n.arr, Value{})
	copy(n.arr[idx+1:], n.arr[idx:])
	n.arr[idx] = val.Clone()
	return nil
}

// SetAt replaces the element at idx, releasing the previous handle.
func (v *Value) SetAt(idx int, val Value) error {
	n, err := v.requireArray("SetAt")
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(n.arr) {
		return ErrIndexOutOfRange("SetAt", idx, len(n.arr))
	}
	if err := v.checkOwnerKind("SetAt", val); err != nil {
		return err
	}
	n = v.ensureExclusive()
	old := n.arr[idx]
	n.arr[idx] = val.Clone()
	old.Release()
	return nil
}

// DeleteAt removes the element at idx, shifting later elements left.
func (v *Value) DeleteAt(idx int) error {
	n, err := v.requireArray("DeleteAt")
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(n.arr) {
		return ErrIndexOutOfRange("DeleteAt", idx, len(n.arr))
	}
	n = v.ensureExclusive()
	old := n.arr[idx]
	copy(n.arr[idx:], n.arr[idx+1:])
	n.arr = n.arr[:len(n.arr)-1]
	old.Release()
	return nil
}

// Resize grows or shrinks the array to exactly n elements. Growing pads with
// null values; shrinking releases the dropped elements' handles.
func (v *Value) Resize(n int) error {
	nd, err := v.requireArray("Resize")
	if err != nil {
		return err
	}
	if n < 0 {
		return NewLogicError("Resize", "negative size")
	}
	nd = v.ensureExclusive()
	switch {
	case n == len(nd.arr):
		return nil
	case n < len(nd.arr):
		for _, old := range nd.arr[n:] {
			old.Release()
		}
		nd.arr = nd.arr[:n]
	default:
		for len(nd.arr) < n {
			nd.arr = append(nd.arr, NewNullKind(v.ownerKind()))
		}
	}
	return nil
}

// Reserve ensures the array's backing storage can hold at least n elements
// without reallocating, without changing Len().
func (v *Value) Reserve(n int) error {
	nd, err := v.requireArray("Reserve")
	if err != nil {
		return err
	}
	if n <= cap(nd.arr) {
		return nil
	}
	nd = v.ensureExclusive()
	grown := make([]Value, len(nd.arr), n)
	copy(grown, nd.arr)
	nd.arr = grown
	return nil
}
