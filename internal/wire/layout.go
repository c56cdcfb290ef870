package wire

import "math"

// =================== wire layout descriptors ===================
//
// Object layout:
//   [0]            raw type (RawObjectSmall | RawObjectLarge)
//   [1:1+L]        total byte length of the object, L = 2 (small) or 4 (large)
//   [1+L:3+L]      element count, uint16
//   [vtable]       Count * ObjectEntrySize, sorted by key
//   [payload]      per entry: keyLen(uint16) + key bytes + value (raw type + payload)
//
// Array layout mirrors this without keys:
//   [0]            RawArray
//   [1:5]          total byte length, uint32
//   [5:7]          element count, uint16
//   [vtable]       Count * ArrayEntrySize
//   [payload]      value (raw type + payload) per entry, in index order
//
// A "small" object is one whose total length fits in a uint16; crossing that
// threshold promotes the header's length field to uint32. Arrays have a single
// size class and always use the uint32 length field. This is the size-class
// open question from the design notes; the threshold chosen here is exactly the
// u16 range so that the common case (small documents) pays the 2-byte header cost.
const (
	SmallHeaderLenSize = 2
	LargeHeaderLenSize = 4
	CountFieldSize     = 2

	// ObjectEntrySize: 2 bytes key-prefix cache + 1 byte child raw type + 4 bytes
	// payload offset (relative to the object's own raw-type byte).
	ObjectEntrySize = 7
	// ArrayEntrySize: 1 byte child raw type + 1 padding byte + 4 bytes payload
	// offset (relative to the array's own raw-type byte).
	ArrayEntrySize = 6

	PrefixCacheLen = 2

	KeyLenFieldSize = 2

	// MaxSmallStringLen is the largest string length that fits the one-byte small
	// string length prefix.
	MaxSmallStringLen = 255

	// MaxSmallHeaderLen is the largest total object/array byte length representable
	// in the small (uint16) header length field.
	MaxSmallHeaderLen = math.MaxUint16
)

// HeaderLenSize returns the byte width of the length field for the given raw type,
// i.e. the small/large size-class decision.
func HeaderLenSize(t RawType) uint32 {
	switch t {
	case RawObjectSmall:
		return SmallHeaderLenSize
	case RawObjectLarge:
		return LargeHeaderLenSize
	case RawArray:
		return LargeHeaderLenSize
	default:
		return 0
	}
}

// ObjectSizeClass picks RawObjectSmall or RawObjectLarge for a would-be total byte
// length computed by the finalizer's size pass.
func ObjectSizeClass(totalLen uint64) RawType {
	if totalLen <= MaxSmallHeaderLen {
		return RawObjectSmall
	}
	return RawObjectLarge
}

// StringSizeClass picks RawStringSmall or RawStringLarge for a string of the given
// byte length.
func StringSizeClass(byteLen int) RawType {
	if byteLen <= MaxSmallStringLen {
		return RawStringSmall
	}
	return RawStringLarge
}

// StringHeaderSize returns the number of bytes the length prefix occupies for the
// given string raw type.
func StringHeaderSize(t RawType) uint32 {
	if t == RawStringSmall {
		return 1
	}
	return 4
}

// NarrowInt picks the smallest signed-integer raw type that can hold v losslessly.
func NarrowInt(v int64) RawType {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return RawInt8
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return RawInt16
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return RawInt32
	default:
		return RawInt64
	}
}

// IntWidth returns the payload width in bytes for an integer raw type.
func IntWidth(t RawType) uint32 {
	switch t {
	case RawInt8:
		return 1
	case RawInt16:
		return 2
	case RawInt32:
		return 4
	default:
		return 8
	}
}

// NarrowFloat picks RawFloat32 if v round-trips exactly through a float32, else
// RawFloat64, so a decimal only pays 8 bytes when it has to.
func NarrowFloat(v float64) RawType {
	f32 := float32(v)
	if float64(f32) == v {
		return RawFloat32
	}
	return RawFloat64
}

// FloatWidth returns the payload width in bytes for a decimal raw type.
func FloatWidth(t RawType) uint32 {
	if t == RawFloat32 {
		return 4
	}
	return 8
}

// ObjectEntry is the decoded form of one fixed-width vtable slot in an object.
// PrefixCache holds the first two bytes of the key, zero-padded on the right when
// the key is shorter than two bytes. Offset is relative to the start of the
// object's own raw-type byte.
type ObjectEntry struct {
	PrefixCache [PrefixCacheLen]byte
	ChildType   RawType
	Offset      uint32
}

// ArrayEntry is the decoded form of one fixed-width vtable slot in an array.
type ArrayEntry struct {
	ChildType RawType
	Offset    uint32
}

// KeyPrefix returns the zero-padded two-byte prefix used both when building a
// vtable entry and when probing the binary search with a sought key.
func KeyPrefix(key []byte) [PrefixCacheLen]byte {
	var p [PrefixCacheLen]byte
	n := len(key)
	if n > PrefixCacheLen {
		n = PrefixCacheLen
	}
	copy(p[:n], key[:n])
	return p
}
