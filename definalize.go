package flatpack

import "github.com/ashgrove/flatpack/internal/wire"

// Definalize reconstructs a mutable tree from a finalized buffer: one node
// is allocated per reachable wire entry, recursively, so that
// Definalize(Finalize(v)) is logically equal to v. The returned tree uses the
// same ownership kind the buffer was built with.
func Definalize(b *Buffer) (Value, error) {
	return definalizeAt(b, b.offset, b.ownerKind())
}

func definalizeAt(b *Buffer, offset uint32, kind OwnerKind) (Value, error) {
	data := b.data()
	t := wire.RawType(data[offset])

	switch {
	case t == wire.RawNull:
		return NewNullKind(kind), nil
	case t == wire.RawBool:
		return NewBoolKind(kind, data[offset+1] != 0), nil
	case t.IsInteger():
		return NewIntKind(kind, definalizeInt(data, offset, t)), nil
	case t.IsFloat():
		return NewFloatKind(kind, definalizeFloat(data, offset, t)), nil
	case t.IsString():
		return NewStringKind(kind, string(wire.StringAt(data, offset, t))), nil
	case t == wire.RawArray:
		return definalizeArray(b, offset, kind)
	case t.IsObject():
		return definalizeObject(b, offset, kind)
	default:
		return Value{}, NewParseError("Definalize", NewTypeErrorf("Definalize", "unrecognized raw type %d", t))
	}
}

func definalizeInt(data []byte, offset uint32, t wire.RawType) int64 {
	off := offset + 1
	switch t {
	case wire.RawInt8:
		return int64(int8(data[off]))
	case wire.RawInt16:
		return int64(wire.ReadI16(data, off))
	case wire.RawInt32:
		return int64(wire.ReadI32(data, off))
	default:
		return wire.ReadI64(data, off)
	}
}

func definalizeFloat(data []byte, offset uint32, t wire.RawType) float64 {
	off := offset + 1
	if t == wire.RawFloat32 {
		return float64(wire.ReadF32(data, off))
	}
	return wire.ReadF64(data, off)
}

func definalizeArray(b *Buffer, base uint32, kind OwnerKind) (Value, error) {
	data := b.data()
	_, count, vtableOff := wire.ArrayHeader(data, base)
	n := &node{kind: KindArray, arr: make([]Value, count)}
	for i := uint16(0); i < count; i++ {
		entry := wire.ArrayEntryAt(data, vtableOff, i)
		child, err := definalizeAt(b, base+entry.Offset, kind)
		if err != nil {
			return Value{}, err
		}
		n.arr[i] = child
	}
	return newValue(kind, n), nil
}

func definalizeObject(b *Buffer, base uint32, kind OwnerKind) (Value, error) {
	data := b.data()
	count := 0
	{
		_, _, c, _ := wire.ObjectHeader(data, base)
		count = int(c)
	}
	om := newOmap()
	om.entries = make([]omapEntry, count)
	for i := 0; i < count; i++ {
		key, _, valOff, _ := wire.ObjectKeyValueAt(data, base, i)
		child, err := definalizeAt(b, valOff, kind)
		if err != nil {
			return Value{}, err
		}
		om.entries[i] = omapEntry{key: string(key), val: child}
	}
	return newValue(kind, &node{kind: KindObject, obj: om}), nil
}
