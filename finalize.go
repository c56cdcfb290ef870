package flatpack

import (
	"github.com/ashgrove/flatpack/internal/wire"
)

// Finalize lowers the mutable tree rooted at v into a single contiguous
// immutable buffer. It is a pure function of v's logical content: two trees
// with equal content (same keys, values and types, irrespective of insertion
// order, since objects are always stored sorted) produce byte-identical
// output.
//
// Finalize performs two passes: plan (bottom-up size computation, choosing
// the narrowed numeric width, string size class and object size class for
// every node) and emit (a single pre-sized allocation, filled by one
// depth-first traversal in the same order the plan was built in).
func Finalize(v Value) (*Buffer, error) {
	p, err := buildPlan(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, p.size)
	buf = emitValue(buf, p)
	return newBuffer(v.ownerKind(), buf), nil
}

// plan is the pass-1 output for one node: its chosen wire representation and
// (for aggregates) the already-computed relative byte offset of each child's
// key/value tuple, so pass 2 never backpatches.
type plan struct {
	rawType wire.RawType
	size    uint32

	bval bool
	ival int64
	fval float64
	sval string

	// Array: one child plan per element, index order.
	// Object: one child plan per sorted entry, same order as keys/offsets.
	children []*plan
	keys     []string
	offsets  []uint32 // relative offset of each entry's key/value tuple (object) or value (array)
}

func buildPlan(v Value) (*plan, error) {
	n := v.n()
	switch n.kind {
	case KindNull:
		return &plan{rawType: wire.RawNull, size: 1}, nil
	case KindBool:
		return &plan{rawType: wire.RawBool, size: 2, bval: n.b}, nil
	case KindInt:
		rt := wire.NarrowInt(n.i)
		return &plan{rawType: rt, size: 1 + wire.IntWidth(rt), ival: n.i}, nil
	case KindFloat:
		rt := wire.NarrowFloat(n.f)
		return &plan{rawType: rt, size: 1 + wire.FloatWidth(rt), fval: n.f}, nil
	case KindString:
		rt := wire.StringSizeClass(len(n.s))
		return &plan{rawType: rt, size: 1 + wire.StringHeaderSize(rt) + uint32(len(n.s)), sval: n.s}, nil
	case KindArray:
		return buildArrayPlan(n)
	case KindObject:
		return buildObjectPlan(n)
	default:
		return nil, NewTypeErrorf("Finalize", "unknown kind %d", n.kind)
	}
}

func buildArrayPlan(n *node) (*plan, error) {
	children := make([]*plan, len(n.arr))
	for i, c := range n.arr {
		cp, err := buildPlan(c)
		if err != nil {
			return nil, err
		}
		children[i] = cp
	}

	headerSize := uint32(1) + wire.LargeHeaderLenSize + wire.CountFieldSize
	vtableSize := uint32(len(children)) * wire.ArrayEntrySize
	offsets := make([]uint32, len(children))
	cum := headerSize + vtableSize
	for i, cp := range children {
		offsets[i] = cum
		cum += cp.size
	}

	return &plan{rawType: wire.RawArray, size: cum, children: children, offsets: offsets}, nil
}

func buildObjectPlan(n *node) (*plan, error) {
	count := n.obj.len()
	children := make([]*plan, count)
	keys := make([]string, count)
	for i := 0; i < count; i++ {
		cp, err := buildPlan(n.obj.valAt(i))
		if err != nil {
			return nil, err
		}
		children[i] = cp
		keys[i] = n.obj.keyAt(i)
	}

	layoutFor := func(lenSize uint32) (headerSize, vtableSize uint32, offsets []uint32, total uint32) {
		headerSize = 1 + lenSize + wire.CountFieldSize
		vtableSize = uint32(count) * wire.ObjectEntrySize
		offsets = make([]uint32, count)
		cum := headerSize + vtableSize
		for i, cp := range children {
			offsets[i] = cum
			cum += wire.KeyLenFieldSize + uint32(len(keys[i])) + cp.size
		}
		return headerSize, vtableSize, offsets, cum
	}

	_, _, offsets, total := layoutFor(wire.SmallHeaderLenSize)
	rawType := wire.RawObjectSmall
	if total > wire.MaxSmallHeaderLen {
		_, _, offsets, total = layoutFor(wire.LargeHeaderLenSize)
		rawType = wire.RawObjectLarge
	}

	return &plan{rawType: rawType, size: total, children: children, keys: keys, offsets: offsets}, nil
}

func emitValue(dst []byte, p *plan) []byte {
	switch {
	case p.rawType == wire.RawNull:
		return append(dst, byte(wire.RawNull))
	case p.rawType == wire.RawBool:
		v := byte(0)
		if p.bval {
			v = 1
		}
		return append(dst, byte(wire.RawBool), v)
	case p.rawType.IsInteger():
		dst = append(dst, byte(p.rawType))
		return emitInt(dst, p.rawType, p.ival)
	case p.rawType.IsFloat():
		dst = append(dst, byte(p.rawType))
		return emitFloat(dst, p.rawType, p.fval)
	case p.rawType.IsString():
		return emitString(dst, p.rawType, p.sval)
	case p.rawType == wire.RawArray:
		return emitArray(dst, p)
	case p.rawType.IsObject():
		return emitObject(dst, p)
	default:
		panic("flatpack: unreachable raw type in emit")
	}
}

func emitInt(dst []byte, rt wire.RawType, v int64) []byte {
	switch rt {
	case wire.RawInt8:
		return append(dst, byte(int8(v)))
	case wire.RawInt16:
		return wire.AppendU16(dst, uint16(int16(v)))
	case wire.RawInt32:
		return wire.AppendU32(dst, uint32(int32(v)))
	default:
		return wire.AppendU64(dst, uint64(v))
	}
}

func emitFloat(dst []byte, rt wire.RawType, v float64) []byte {
	if rt == wire.RawFloat32 {
		return wire.AppendF32(dst, float32(v))
	}
	return wire.AppendF64(dst, v)
}

func emitString(dst []byte, rt wire.RawType, s string) []byte {
	dst = append(dst, byte(rt))
	if rt == wire.RawStringSmall {
		dst = append(dst, byte(len(s)))
	} else {
		dst = wire.AppendU32(dst, uint32(len(s)))
	}
	return append(dst, s...)
}

func emitArray(dst []byte, p *plan) []byte {
	dst = append(dst, byte(wire.RawArray))
	dst = wire.AppendU32(dst, p.size)
	dst = wire.AppendU16(dst, uint16(len(p.children)))
	for i, cp := range p.children {
		dst = append(dst, byte(cp.rawType), 0)
		dst = wire.AppendU32(dst, p.offsets[i])
	}
	for _, cp := range p.children {
		dst = emitValue(dst, cp)
	}
	return dst
}

func emitObject(dst []byte, p *plan) []byte {
	dst = append(dst, byte(p.rawType))
	if p.rawType == wire.RawObjectSmall {
		dst = wire.AppendU16(dst, uint16(p.size))
	} else {
		dst = wire.AppendU32(dst, p.size)
	}
	dst = wire.AppendU16(dst, uint16(len(p.children)))
	for i, cp := range p.children {
		prefix := wire.KeyPrefix([]byte(p.keys[i]))
		dst = append(dst, prefix[0], prefix[1], byte(cp.rawType))
		dst = wire.AppendU32(dst, p.offsets[i])
	}
	for i, cp := range p.children {
		dst = wire.AppendU16(dst, uint16(len(p.keys[i])))
		dst = append(dst, p.keys[i]...)
		dst = emitValue(dst, cp)
	}
	return dst
}
