// Package wire implements the on-disk representation described by the library's wire
// format: raw-type bytes, object/array headers, the prefix-cached vtable and the
// zero-allocation binary-search lookup over it. Nothing in this package allocates on
// the read path.
package wire

// RawType is the one-byte on-disk discriminator for a value. It carries width
// information for numerics and size-class information for aggregates, so type
// dispatch never needs to touch a value's payload.
type RawType uint8

const (
	RawNull RawType = iota
	RawBool
	RawInt8
	RawInt16
	RawInt32
	RawInt64
	RawFloat32
	RawFloat64
	RawStringSmall
	RawStringLarge
	RawArray
	RawObjectSmall
	RawObjectLarge
)

// IsObject reports whether t denotes either object size class.
func (t RawType) IsObject() bool { return t == RawObjectSmall || t == RawObjectLarge }

// IsString reports whether t denotes either string size class.
func (t RawType) IsString() bool { return t == RawStringSmall || t == RawStringLarge }

// IsInteger reports whether t denotes one of the narrowed integer widths.
func (t RawType) IsInteger() bool {
	return t == RawInt8 || t == RawInt16 || t == RawInt32 || t == RawInt64
}

// IsFloat reports whether t denotes one of the narrowed decimal widths.
func (t RawType) IsFloat() bool { return t == RawFloat32 || t == RawFloat64 }

func (t RawType) String() string {
	switch t {
	case RawNull:
		return "null"
	case RawBool:
		return "bool"
	case RawInt8, RawInt16, RawInt32, RawInt64:
		return "integer"
	case RawFloat32, RawFloat64:
		return "decimal"
	case RawStringSmall, RawStringLarge:
		return "string"
	case RawArray:
		return "array"
	case RawObjectSmall, RawObjectLarge:
		return "object"
	default:
		return "unknown"
	}
}
