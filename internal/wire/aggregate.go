package wire

// =================== aggregate header decoding ===================
//
// These helpers decode the fixed part of an object/array header at a given base
// offset into buf. None of them allocate; they return plain scalars and the caller
// combines them into the slices it actually needs.

// ObjectHeader decodes the raw type, total byte length, element count and the
// offset of the vtable's first entry for the object whose type byte is at base.
func ObjectHeader(buf []byte, base uint32) (rawType RawType, totalLen uint32, count uint16, vtableOff uint32) {
	rawType = RawType(buf[base])
	lenSize := HeaderLenSize(rawType)
	if lenSize == SmallHeaderLenSize {
		totalLen = uint32(ReadU16(buf, base+1))
	} else {
		totalLen = ReadU32(buf, base+1)
	}
	count = ReadU16(buf, base+1+lenSize)
	vtableOff = base + 1 + lenSize + CountFieldSize
	return
}

// ObjectEntryAt decodes the idx'th vtable entry of an object whose vtable starts
// at vtableOff. Offsets in the returned entry are relative to the object's base
// (its own raw-type byte).
func ObjectEntryAt(buf []byte, vtableOff uint32, idx uint16) ObjectEntry {
	off := vtableOff + uint32(idx)*ObjectEntrySize
	var e ObjectEntry
	e.PrefixCache[0] = buf[off]
	e.PrefixCache[1] = buf[off+1]
	e.ChildType = RawType(buf[off+2])
	e.Offset = ReadU32(buf, off+3)
	return e
}

// ObjectKeyAt reads the key bytes referenced by a vtable entry whose Offset points
// at the key/value payload tuple (keyLen uint16, key bytes, value). It returns the
// key bytes and the offset of the value that follows them.
func ObjectKeyAt(buf []byte, base uint32, entryOffset uint32) (key []byte, valueOffset uint32) {
	abs := base + entryOffset
	keyLen := ReadU16(buf, abs)
	keyStart := abs + KeyLenFieldSize
	key = buf[keyStart : keyStart+uint32(keyLen)]
	valueOffset = keyStart + uint32(keyLen)
	return
}

// ArrayHeader decodes the raw type (always RawArray), total byte length, element
// count and the offset of the vtable's first entry.
func ArrayHeader(buf []byte, base uint32) (totalLen uint32, count uint16, vtableOff uint32) {
	totalLen = ReadU32(buf, base+1)
	count = ReadU16(buf, base+1+LargeHeaderLenSize)
	vtableOff = base + 1 + LargeHeaderLenSize + CountFieldSize
	return
}

// ArrayEntryAt decodes the idx'th vtable entry of an array whose vtable starts at
// vtableOff. The entry's Offset is relative to the array's base and points
// directly at the element's raw-type byte (arrays have no key to skip).
func ArrayEntryAt(buf []byte, vtableOff uint32, idx uint16) ArrayEntry {
	off := vtableOff + uint32(idx)*ArrayEntrySize
	return ArrayEntry{
		ChildType: RawType(buf[off]),
		Offset:    ReadU32(buf, off+2),
	}
}

// StringAt decodes a string value (small or large form) whose raw-type byte is at
// abs, returning its content bytes as a view into buf.
func StringAt(buf []byte, abs uint32, t RawType) []byte {
	hdr := StringHeaderSize(t)
	var n uint32
	if t == RawStringSmall {
		n = uint32(buf[abs+1])
	} else {
		n = ReadU32(buf, abs+1)
	}
	start := abs + 1 + hdr
	return buf[start : start+n]
}
