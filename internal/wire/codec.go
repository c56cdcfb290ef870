package wire

import (
	"encoding/binary"
	"math"
)

// =================== byte codec and ordered scalars ===================
//
// Every multi-byte field on the wire is little-endian. Access never assumes
// alignment; it always goes through one of these helpers rather than a raw
// pointer cast, so the format is portable across architectures regardless of
// native byte order.

func ReadU8(b []byte, off uint32) uint8 { return b[off] }

func WriteU8(b []byte, off uint32, v uint8) { b[off] = v }

func ReadI16(b []byte, off uint32) int16 { return int16(ReadU16(b, off)) }

func WriteI16(b []byte, off uint32, v int16) { WriteU16(b, off, uint16(v)) }

func ReadU16(b []byte, off uint32) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

func WriteU16(b []byte, off uint32, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

func ReadI32(b []byte, off uint32) int32 { return int32(ReadU32(b, off)) }

func WriteI32(b []byte, off uint32, v int32) { WriteU32(b, off, uint32(v)) }

func ReadU32(b []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func WriteU32(b []byte, off uint32, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func ReadI64(b []byte, off uint32) int64 { return int64(ReadU64(b, off)) }

func WriteI64(b []byte, off uint32, v int64) { WriteU64(b, off, uint64(v)) }

func ReadU64(b []byte, off uint32) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

func WriteU64(b []byte, off uint32, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

func ReadF32(b []byte, off uint32) float32 {
	return math.Float32frombits(ReadU32(b, off))
}

func WriteF32(b []byte, off uint32, v float32) {
	WriteU32(b, off, math.Float32bits(v))
}

func ReadF64(b []byte, off uint32) float64 {
	return math.Float64frombits(ReadU64(b, off))
}

func WriteF64(b []byte, off uint32, v float64) {
	WriteU64(b, off, math.Float64bits(v))
}

// AppendU16/U32/U64 append a little-endian encoded scalar to dst, growing it as
// needed, for use by the finalizer's emit pass which builds the buffer by
// successive appends rather than by pre-indexed writes.
func AppendU16(dst []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendU32(dst []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendU64(dst []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(dst, tmp[:]...)
}

func AppendF32(dst []byte, v float32) []byte { return AppendU32(dst, math.Float32bits(v)) }

func AppendF64(dst []byte, v float64) []byte { return AppendU64(dst, math.Float64bits(v)) }
