package flatpack

import "github.com/ashgrove/flatpack/internal/wire"

// ObjectIterator walks a heap object's entries in sorted key order (or its
// reverse). It holds no copy of the entries; each Next call
// clones the child it returns so the caller owns an independent handle.
type ObjectIterator struct {
	om      *omap
	idx     int
	reverse bool
}

// Iterate returns a forward iterator over this object's entries.
func (v Value) Iterate() (*ObjectIterator, error) {
	n, err := v.requireObject("Iterate")
	if err != nil {
		return nil, err
	}
	return &ObjectIterator{om: n.obj}, nil
}

// IterateReverse returns a reverse iterator over this object's entries.
func (v Value) IterateReverse() (*ObjectIterator, error) {
	n, err := v.requireObject("IterateReverse")
	if err != nil {
		return nil, err
	}
	return &ObjectIterator{om: n.obj, idx: n.obj.len() - 1, reverse: true}, nil
}

// Next advances the iterator and returns the next key/value pair. ok is
// false once the iterator is exhausted.
func (it *ObjectIterator) Next() (key string, val Value, ok bool) {
	if it.reverse {
		if it.idx < 0 {
			return "", Value{}, false
		}
		key, val = it.om.keyAt(it.idx), it.om.valAt(it.idx).Clone()
		it.idx--
		return key, val, true
	}
	if it.idx >= it.om.len() {
		return "", Value{}, false
	}
	key, val = it.om.keyAt(it.idx), it.om.valAt(it.idx).Clone()
	it.idx++
	return key, val, true
}

// ArrayIterator walks a heap array's elements in index order (or its
// reverse).
type ArrayIterator struct {
	arr     []Value
	idx     int
	reverse bool
}

// IterateArray returns a forward iterator over this array's elements.
func (v Value) IterateArray() (*ArrayIterator, error) {
	n, err := v.requireArray("IterateArray")
	if err != nil {
		return nil, err
	}
	return &ArrayIterator{arr: n.arr}, nil
}

// IterateArrayReverse returns a reverse iterator over this array's elements.
func (v Value) IterateArrayReverse() (*ArrayIterator, error) {
	n, err := v.requireArray("IterateArrayReverse")
	if err != nil {
		return nil, err
	}
	return &ArrayIterator{arr: n.arr, idx: len(n.arr) - 1, reverse: true}, nil
}

func (it *ArrayIterator) Next() (val Value, ok bool) {
	if it.reverse {
		if it.idx < 0 {
			return Value{}, false
		}
		val = it.arr[it.idx].Clone()
		it.idx--
		return val, true
	}
	if it.idx >= len(it.arr) {
		return Value{}, false
	}
	val = it.arr[it.idx].Clone()
	it.idx++
	return val, true
}

// BufferObjectIterator walks a buffer object's vtable in sorted key order (or
// its reverse): it carries only the base offset and an index, reading each
// entry from the shared byte region on demand. Each Next call allocates the
// new Buffer view it returns; the key bytes are not copied.
type BufferObjectIterator struct {
	b       *Buffer
	base    uint32
	count   int
	idx     int
	reverse bool
}

func (b *Buffer) Iterate() (*BufferObjectIterator, error) {
	if !b.rawType().IsObject() {
		return nil, NewTypeError("Iterate", b.Kind(), "object")
	}
	n, _ := b.Size()
	return &BufferObjectIterator{b: b, base: b.offset, count: n}, nil
}

func (b *Buffer) IterateReverse() (*BufferObjectIterator, error) {
	if !b.rawType().IsObject() {
		return nil, NewTypeError("IterateReverse", b.Kind(), "object")
	}
	n, _ := b.Size()
	return &BufferObjectIterator{b: b, base: b.offset, count: n, idx: n - 1, reverse: true}, nil
}

// Next returns the key (a view into the buffer, not copied) and a Buffer
// view of the value at the current position.
func (it *BufferObjectIterator) Next() (key []byte, val *Buffer, ok bool) {
	if it.reverse {
		if it.idx < 0 {
			return nil, nil, false
		}
	} else if it.idx >= it.count {
		return nil, nil, false
	}
	k, _, valOff, _ := wire.ObjectKeyValueAt(it.b.data(), it.base, it.idx)
	v := it.b.view(valOff)
	if it.reverse {
		it.idx--
	} else {
		it.idx++
	}
	return k, v, true
}

// BufferArrayIterator walks a buffer array's vtable in index order (or its
// reverse). Each Next call allocates the new Buffer view it returns.
type BufferArrayIterator struct {
	b       *Buffer
	base    uint32
	count   int
	idx     int
	reverse bool
}

func (b *Buffer) IterateArray() (*BufferArrayIterator, error) {
	if b.rawType() != wire.RawArray {
		return nil, NewTypeError("IterateArray", b.Kind(), "array")
	}
	n, _ := b.Size()
	return &BufferArrayIterator{b: b, base: b.offset, count: n}, nil
}

func (b *Buffer) IterateArrayReverse() (*BufferArrayIterator, error) {
	if b.rawType() != wire.RawArray {
		return nil, NewTypeError("IterateArrayReverse", b.Kind(), "array")
	}
	n, _ := b.Size()
	return &BufferArrayIterator{b: b, base: b.offset, count: n, idx: n - 1, reverse: true}, nil
}

func (it *BufferArrayIterator) Next() (val *Buffer, ok bool) {
	if it.reverse {
		if it.idx < 0 {
			return nil, false
		}
	} else if it.idx >= it.count {
		return nil, false
	}
	_, valOff, _ := wire.IndexAt(it.b.data(), it.base, it.idx)
	v := it.b.view(valOff)
	if it.reverse {
		it.idx--
	} else {
		it.idx++
	}
	return v, true
}
