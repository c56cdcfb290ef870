package flatpack

// Packet is a tagged union over the two value representations: a mutable
// heap tree (Value) or an immutable finalized buffer (Buffer). It presents
// one consumer-side API regardless of which state it
// currently holds, so callers that only read a tree don't need to branch
// on how it got there.
type Packet struct {
	heap *Value
	buf  *Buffer
}

// NewHeapPacket wraps a mutable tree.
func NewHeapPacket(v Value) *Packet { return &Packet{heap: &v} }

// NewBufferPacket wraps an immutable buffer.
func NewBufferPacket(b *Buffer) *Packet { return &Packet{buf: b} }

// IsHeap reports whether the packet currently holds a mutable tree.
func (p *Packet) IsHeap() bool { return p.heap != nil }

// IsBuffer reports whether the packet currently holds an immutable buffer.
func (p *Packet) IsBuffer() bool { return p.buf != nil }

// Finalize transitions a heap-tagged packet to a buffer-tagged one in place,
// lowering the mutable tree exactly once. It is a no-op if the packet is
// already buffer-tagged.
func (p *Packet) Finalize() error {
	if p.buf != nil {
		return nil
	}
	b, err := Finalize(*p.heap)
	if err != nil {
		return err
	}
	p.heap.Release()
	p.heap = nil
	p.buf = b
	return nil
}

// Definalize transitions a buffer-tagged packet to a heap-tagged one in
// place, reconstructing a mutable tree. It is a no-op if the packet is
// already heap-tagged.
func (p *Packet) Definalize() error {
	if p.heap != nil {
		return nil
	}
	v, err := Definalize(p.buf)
	if err != nil {
		return err
	}
	p.buf.Release()
	p.buf = nil
	p.heap = &v
	return nil
}

// BufferView returns the underlying immutable buffer, or a StateError if the
// packet is currently heap-tagged.
func (p *Packet) BufferView() (*Buffer, error) {
	if p.buf == nil {
		return nil, NewStateError("BufferView", "packet is heap-tagged; call Finalize first")
	}
	return p.buf, nil
}

// HeapView returns the underlying mutable tree, or a StateError if the packet
// is currently buffer-tagged.
func (p *Packet) HeapView() (Value, error) {
	if p.heap == nil {
		return Value{}, NewStateError("HeapView", "packet is buffer-tagged; call Definalize first")
	}
	return *p.heap, nil
}

// Release retires the packet's underlying handle, whichever state it is in.
func (p *Packet) Release() {
	if p.heap != nil {
		p.heap.Release()
		p.heap = nil
	}
	if p.buf != nil {
		p.buf.Release()
		p.buf = nil
	}
}

// Kind returns the logical value type, forwarding to whichever
// representation is live.
func (p *Packet) Kind() Kind {
	if p.heap != nil {
		return p.heap.Kind()
	}
	return p.buf.Kind()
}

// mutateErr is returned by every heap-only mutator when the packet is
// currently buffer-tagged.
func mutateErr(op string) error {
	return NewStateError(op, "packet is buffer-tagged; call Definalize first")
}

// --- uniform consumer API, forwarding to the live representation --------

func (p *Packet) Has(key string) (bool, error) {
	if p.heap != nil {
		return p.heap.Has(key)
	}
	return p.buf.Has(key)
}

// Get returns the child for key as a new Packet, or a null Packet if absent.
// The returned Packet is tagged the same way as the receiver.
func (p *Packet) Get(key string) *Packet {
	if p.heap != nil {
		v := p.heap.Get(key)
		return &Packet{heap: &v}
	}
	return &Packet{buf: p.buf.Get(key)}
}

func (p *Packet) At(key string) (*Packet, error) {
	if p.heap != nil {
		v, err := p.heap.At(key)
		if err != nil {
			return nil, err
		}
		return &Packet{heap: &v}, nil
	}
	b, err := p.buf.At(key)
	if err != nil {
		return nil, err
	}
	return &Packet{buf: b}, nil
}

func (p *Packet) Size() (int, error) {
	if p.heap != nil {
		return p.heap.Size()
	}
	return p.buf.Size()
}

func (p *Packet) Keys() ([]string, error) {
	if p.heap != nil {
		return p.heap.Keys()
	}
	return p.buf.Keys()
}

func (p *Packet) Index(idx int) *Packet {
	if p.heap != nil {
		v := p.heap.Index(idx)
		return &Packet{heap: &v}
	}
	return &Packet{buf: p.buf.Index(idx)}
}

func (p *Packet) IndexAt(idx int) (*Packet, error) {
	if p.heap != nil {
		v, err := p.heap.IndexAt(idx)
		if err != nil {
			return nil, err
		}
		return &Packet{heap: &v}, nil
	}
	b, err := p.buf.IndexAt(idx)
	if err != nil {
		return nil, err
	}
	return &Packet{buf: b}, nil
}

func (p *Packet) Len() (int, error) {
	if p.heap != nil {
		return p.heap.Len()
	}
	n, err := p.buf.Size()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (p *Packet) Bool() (bool, error) {
	if p.heap != nil {
		return p.heap.Bool()
	}
	return p.buf.Bool()
}

func (p *Packet) Int() (int64, error) {
	if p.heap != nil {
		return p.heap.Int()
	}
	return p.buf.Int()
}

func (p *Packet) Float() (float64, error) {
	if p.heap != nil {
		return p.heap.Float()
	}
	return p.buf.Float()
}

func (p *Packet) StringValue() (string, error) {
	if p.heap != nil {
		return p.heap.StringValue()
	}
	return p.buf.StringValue()
}

func (p *Packet) IsNull() bool {
	if p.heap != nil {
		return p.heap.IsNull()
	}
	return p.buf.IsNull()
}

// --- heap-only mutators, rejected with a StateError on a buffer packet ---

func (p *Packet) Insert(key string, val Value) error {
	if p.heap == nil {
		return mutateErr("Insert")
	}
	return p.heap.Insert(key, val)
}

func (p *Packet) Set(key string, val Value) error {
	if p.heap == nil {
		return mutateErr("Set")
	}
	return p.heap.Set(key, val)
}

func (p *Packet) Delete(key string) error {
	if p.heap == nil {
		return mutateErr("Delete")
	}
	return p.heap.Delete(key)
}

func (p *Packet) PushBack(val Value) error {
	if p.heap == nil {
		return mutateErr("PushBack")
	}
	return p.heap.PushBack(val)
}

func (p *Packet) SetAt(idx int, val Value) error {
	if p.heap == nil {
		return mutateErr("SetAt")
	}
	return p.heap.SetAt(idx, val)
}

func (p *Packet) DeleteAt(idx int) error {
	if p.heap == nil {
		return mutateErr("DeleteAt")
	}
	return p.heap.DeleteAt(idx)
}
