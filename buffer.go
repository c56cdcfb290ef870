package flatpack

import (
	"runtime"

	"github.com/ashgrove/flatpack/internal/wire"
)

// bufRoot is the single contiguous byte region a finalized tree (or an
// adopted external buffer) lives in. Every Buffer view derived from it -- the
// root and every sub-value produced by a query -- shares ownership of the
// same bufRoot, so the region is freed only once every view has released its
// handle.
type bufRoot struct {
	data    []byte
	deleter func()
}

// Buffer is an immutable packed value: a byte region plus the offset of this
// particular node within it. Sub-values produced by Get/Index are views onto
// the same region: they share ownership but cache only a raw offset, so no
// query decodes more than it touches.
type Buffer struct {
	own    Own[*bufRoot]
	offset uint32
	isNull bool // true for a missing-key/out-of-range view; offset is meaningless
}

func newBuffer(kind OwnerKind, data []byte) *Buffer {
	return &Buffer{own: newOwner(kind, &bufRoot{data: data}), offset: 0}
}

// NewBufferFromBytes validates data and wraps it by borrow: the caller must
// keep data alive for as long as the returned Buffer (and any of its views)
// is in use.
func NewBufferFromBytes(kind OwnerKind, data []byte) (*Buffer, error) {
	if err := wire.Validate(data); err != nil {
		return nil, NewParseError("NewBufferFromBytes", err)
	}
	return newBuffer(kind, data), nil
}

// NewBufferAdopt validates data and takes ownership of it, invoking deleter
// exactly once when the last view over it is garbage collected. Use this when
// data was obtained from a resource the library itself must release, e.g. an
// mmap'd region.
func NewBufferAdopt(kind OwnerKind, data []byte, deleter func()) (*Buffer, error) {
	if err := wire.Validate(data); err != nil {
		if deleter != nil {
			deleter()
		}
		return nil, NewParseError("NewBufferAdopt", err)
	}
	root := &bufRoot{data: data, deleter: deleter}
	if deleter != nil {
		runtime.SetFinalizer(root, func(r *bufRoot) { r.deleter() })
	}
	return &Buffer{own: newOwner(kind, root), offset: 0}, nil
}

// Validate checks untrusted bytes against the wire format without
// constructing a Buffer: header lengths must agree with the slice, offsets
// must stay in extent, key tuples must be well-formed and keys strictly
// ascending. A nil return guarantees traversal never reads outside data.
func Validate(data []byte) error {
	if err := wire.Validate(data); err != nil {
		return NewParseError("Validate", err)
	}
	return nil
}

// TrustedBuffer wraps data as a Buffer without running the validator, for
// callers who already know the bytes were produced by Finalize on this
// architecture. It panics-free; malformed bytes given to a trusted buffer are
// the caller's responsibility.
func TrustedBuffer(kind OwnerKind, data []byte) *Buffer {
	return newBuffer(kind, data)
}

func (b *Buffer) data() []byte { return b.own.Get().data }

// Bytes returns the wire-format bytes this buffer's region holds. For the root
// buffer this is exactly the persisted form described by the format: writing
// it out with no extra framing and handing it to NewBufferFromBytes on the
// other side reconstructs the value. For a sub-value view it still returns the
// whole region, since views do not track their own extent.
func (b *Buffer) Bytes() []byte { return b.data() }

// Offset returns the byte offset of this node within the shared region; the
// root's offset is 0.
func (b *Buffer) Offset() uint32 { return b.offset }

func (b *Buffer) ownerKind() OwnerKind { return b.own.Kind() }

// Clone returns a new handle sharing the same byte region.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{own: b.own.Clone(), offset: b.offset}
}

// Release retires this handle's claim on the shared byte region.
func (b *Buffer) Release() {
	if b.own != nil {
		b.own.Drop()
	}
}

func (b *Buffer) rawType() wire.RawType {
	if b.isNull {
		return wire.RawNull
	}
	return wire.RawType(b.data()[b.offset])
}

// Kind returns the value's logical type.
func (b *Buffer) Kind() Kind {
	t := b.rawType()
	switch {
	case t == wire.RawNull:
		return KindNull
	case t == wire.RawBool:
		return KindBool
	case t.IsInteger():
		return KindInt
	case t.IsFloat():
		return KindFloat
	case t.IsString():
		return KindString
	case t == wire.RawArray:
		return KindArray
	case t.IsObject():
		return KindObject
	default:
		return KindNull
	}
}

func (b *Buffer) view(offset uint32) *Buffer {
	return &Buffer{own: b.own.Clone(), offset: offset}
}

// --- scalar accessors, mirroring Value's ---------------------------------

func (b *Buffer) Bool() (bool, error) {
	if b.rawType() != wire.RawBool {
		return false, NewTypeError("Bool", b.Kind(), "boolean")
	}
	return b.data()[b.offset+1] != 0, nil
}

func (b *Buffer) BoolOr(def bool) bool {
	v, err := b.Bool()
	if err != nil {
		return def
	}
	return v
}

func (b *Buffer) Int() (int64, error) {
	t := b.rawType()
	d, off := b.data(), b.offset+1
	switch t {
	case wire.RawInt8:
		return int64(int8(d[off])), nil
	case wire.RawInt16:
		return int64(wire.ReadI16(d, off)), nil
	case wire.RawInt32:
		return int64(wire.ReadI32(d, off)), nil
	case wire.RawInt64:
		return wire.ReadI64(d, off), nil
	default:
		return 0, NewTypeError("Int", b.Kind(), "integer")
	}
}

func (b *Buffer) IntOr(def int64) int64 {
	v, err := b.Int()
	if err != nil {
		return def
	}
	return v
}

func (b *Buffer) Float() (float64, error) {
	t := b.rawType()
	d, off := b.data(), b.offset+1
	switch t {
	case wire.RawFloat32:
		return float64(wire.ReadF32(d, off)), nil
	case wire.RawFloat64:
		return wire.ReadF64(d, off), nil
	case wire.RawInt8, wire.RawInt16, wire.RawInt32, wire.RawInt64:
		i, _ := b.Int()
		return float64(i), nil
	default:
		return 0, NewTypeError("Float", b.Kind(), "decimal")
	}
}

func (b *Buffer) FloatOr(def float64) float64 {
	v, err := b.Float()
	if err != nil {
		return def
	}
	return v
}

// StringBytes returns the string's content as a slice viewing the underlying
// buffer directly -- no copy is made.
func (b *Buffer) StringBytes() ([]byte, error) {
	t := b.rawType()
	if !t.IsString() {
		return nil, NewTypeError("StringBytes", b.Kind(), "string")
	}
	return wire.StringAt(b.data(), b.offset, t), nil
}

func (b *Buffer) StringValue() (string, error) {
	bs, err := b.StringBytes()
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func (b *Buffer) StringOr(def string) string {
	s, err := b.StringValue()
	if err != nil {
		return def
	}
	return s
}

func (b *Buffer) IsNull() bool { return b.rawType() == wire.RawNull }

// --- object/array consumer interface, zero-allocation -------------------

// Has reports whether key is present (object only).
func (b *Buffer) Has(key string) (bool, error) {
	if !b.rawType().IsObject() {
		return false, NewTypeError("Has", b.Kind(), "object")
	}
	_, _, ok := wire.LookupKey(b.data(), b.offset, []byte(key))
	return ok, nil
}

// Get returns the child for key or a null Buffer view if absent.
func (b *Buffer) Get(key string) *Buffer {
	if !b.rawType().IsObject() {
		return b.nullView()
	}
	_, valOff, ok := wire.LookupKey(b.data(), b.offset, []byte(key))
	if !ok {
		return b.nullView()
	}
	return b.view(valOff)
}

// At returns the child for key, or a LogicError if key is absent.
func (b *Buffer) At(key string) (*Buffer, error) {
	if !b.rawType().IsObject() {
		return nil, NewTypeError("At", b.Kind(), "object")
	}
	_, valOff, ok := wire.LookupKey(b.data(), b.offset, []byte(key))
	if !ok {
		return nil, NewLogicError("At", "key "+key+" not found")
	}
	return b.view(valOff), nil
}

// nullView returns a null Buffer for a missing key or out-of-range index,
// matching the dynamic-language contract for missing members.
// It still shares the region's ownership handle to stay symmetric with every
// other view, but isNull short-circuits every accessor before the
// (meaningless) offset is ever used.
func (b *Buffer) nullView() *Buffer {
	return &Buffer{own: b.own.Clone(), isNull: true}
}

// Size returns the element count of this object or array.
func (b *Buffer) Size() (int, error) {
	t := b.rawType()
	switch {
	case t.IsObject():
		_, _, count, _ := wire.ObjectHeader(b.data(), b.offset)
		return int(count), nil
	case t == wire.RawArray:
		_, count, _ := wire.ArrayHeader(b.data(), b.offset)
		return int(count), nil
	default:
		return 0, NewTypeError("Size", b.Kind(), "object or array")
	}
}

// Keys returns the sorted keys of this object, copying each key out of the
// buffer (Keys is a convenience accessor, not on the zero-alloc hot path;
// Iterate yields the keys as views into the buffer without copying them).
func (b *Buffer) Keys() ([]string, error) {
	if !b.rawType().IsObject() {
		return nil, NewTypeError("Keys", b.Kind(), "object")
	}
	n, _ := b.Size()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		key, _, _, _ := wire.ObjectKeyValueAt(b.data(), b.offset, i)
		out[i] = string(key)
	}
	return out, nil
}

// Index returns the element at idx or a null Buffer view if out of range.
func (b *Buffer) Index(idx int) *Buffer {
	if b.rawType() != wire.RawArray {
		return b.nullView()
	}
	_, valOff, ok := wire.IndexAt(b.data(), b.offset, idx)
	if !ok {
		return b.nullView()
	}
	return b.view(valOff)
}

// IndexAt returns the element at idx, or a LogicError if out of range.
func (b *Buffer) IndexAt(idx int) (*Buffer, error) {
	if b.rawType() != wire.RawArray {
		return nil, NewTypeError("IndexAt", b.Kind(), "array")
	}
	n, _ := b.Size()
	_, valOff, ok := wire.IndexAt(b.data(), b.offset, idx)
	if !ok {
		return nil, ErrIndexOutOfRange("IndexAt", idx, n)
	}
	return b.view(valOff), nil
}

