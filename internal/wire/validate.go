package wire

import (
	"bytes"
	"fmt"
)

// Validate implements the four checks a receiver must apply to
// untrusted bytes before trusting a buffer: the header length must agree with the
// supplied slice, every child offset must stay within its parent's extent, every
// key offset must point at a length+bytes pair within the object's extent, and
// keys as found in the payload must be strictly ascending by lexicographic order.
//
// Validate walks the whole tree once. It does not allocate beyond the recursion
// stack and the slices it returns errors with.
func Validate(buf []byte) error {
	if len(buf) == 0 {
		return fmt.Errorf("wire: empty buffer")
	}
	end, err := validateValue(buf, 0, uint32(len(buf)))
	if err != nil {
		return err
	}
	if end != uint32(len(buf)) {
		return fmt.Errorf("wire: %d trailing byte(s) after root value", uint32(len(buf))-end)
	}
	return nil
}

// validateValue validates the value whose raw-type byte is at base and must lie
// entirely within [base, limit). It returns the offset just past the value.
func validateValue(buf []byte, base, limit uint32) (uint32, error) {
	if base >= limit {
		return 0, fmt.Errorf("wire: value at %d exceeds buffer extent", base)
	}
	t := RawType(buf[base])

	switch {
	case t == RawNull:
		return base + 1, nil
	case t == RawBool:
		if base+2 > limit {
			return 0, fmt.Errorf("wire: bool at %d truncated", base)
		}
		return base + 2, nil
	case t.IsInteger():
		w := IntWidth(t)
		if base+1+w > limit {
			return 0, fmt.Errorf("wire: integer at %d truncated", base)
		}
		return base + 1 + w, nil
	case t.IsFloat():
		w := FloatWidth(t)
		if base+1+w > limit {
			return 0, fmt.Errorf("wire: decimal at %d truncated", base)
		}
		return base + 1 + w, nil
	case t.IsString():
		return validateString(buf, base, limit, t)
	case t == RawArray:
		return validateArray(buf, base, limit)
	case t.IsObject():
		return validateObject(buf, base, limit)
	default:
		return 0, fmt.Errorf("wire: unknown raw type %d at offset %d", t, base)
	}
}

func validateString(buf []byte, base, limit uint32, t RawType) (uint32, error) {
	hdr := StringHeaderSize(t)
	if base+1+hdr > limit {
		return 0, fmt.Errorf("wire: string header at %d truncated", base)
	}
	var n uint32
	if t == RawStringSmall {
		n = uint32(buf[base+1])
	} else {
		n = ReadU32(buf, base+1)
	}
	end := base + 1 + hdr + n
	if end > limit {
		return 0, fmt.Errorf("wire: string at %d (len %d) exceeds parent extent", base, n)
	}
	return end, nil
}

func validateArray(buf []byte, base, limit uint32) (uint32, error) {
	if base+1+LargeHeaderLenSize+CountFieldSize > limit {
		return 0, fmt.Errorf("wire: array header at %d truncated", base)
	}
	totalLen, count, vtableOff := ArrayHeader(buf, base)
	end := base + totalLen
	if totalLen == 0 || end > limit {
		return 0, fmt.Errorf("wire: array at %d has invalid length %d", base, totalLen)
	}
	vtableEnd := vtableOff + uint32(count)*ArrayEntrySize
	if vtableEnd > end {
		return 0, fmt.Errorf("wire: array at %d vtable overruns declared length", base)
	}
	for i := uint16(0); i < count; i++ {
		entry := ArrayEntryAt(buf, vtableOff, i)
		childBase := base + entry.Offset
		if childBase < vtableEnd || childBase >= end {
			return 0, fmt.Errorf("wire: array entry %d at %d points outside extent", i, base)
		}
		if RawType(buf[childBase]) != entry.ChildType {
			return 0, fmt.Errorf("wire: array entry %d type mismatch at %d", i, base)
		}
		childEnd, err := validateValue(buf, childBase, end)
		if err != nil {
			return 0, err
		}
		_ = childEnd
	}
	return end, nil
}

func validateObject(buf []byte, base, limit uint32) (uint32, error) {
	if base+1+SmallHeaderLenSize+CountFieldSize > limit {
		return 0, fmt.Errorf("wire: object header at %d truncated", base)
	}
	t, totalLen, count, vtableOff := ObjectHeader(buf, base)
	end := base + totalLen
	if totalLen == 0 || end > limit {
		return 0, fmt.Errorf("wire: object at %d has invalid length %d", base, totalLen)
	}
	if ObjectSizeClass(uint64(totalLen)) != t {
		return 0, fmt.Errorf("wire: object at %d uses wrong size class for its length", base)
	}
	vtableEnd := vtableOff + uint32(count)*ObjectEntrySize
	if vtableEnd > end {
		return 0, fmt.Errorf("wire: object at %d vtable overruns declared length", base)
	}

	var prevKey []byte
	for i := uint16(0); i < count; i++ {
		entry := ObjectEntryAt(buf, vtableOff, i)
		tupleStart := base + entry.Offset
		if tupleStart < vtableEnd || tupleStart+KeyLenFieldSize > end {
			return 0, fmt.Errorf("wire: object key %d at %d points outside extent", i, base)
		}
		keyLen := ReadU16(buf, tupleStart)
		keyStart := tupleStart + KeyLenFieldSize
		keyEnd := keyStart + uint32(keyLen)
		if keyEnd > end {
			return 0, fmt.Errorf("wire: object key %d at %d exceeds extent", i, base)
		}
		key := buf[keyStart:keyEnd]
		if expect := KeyPrefix(key); expect != entry.PrefixCache {
			return 0, fmt.Errorf("wire: object key %d at %d prefix cache mismatch", i, base)
		}
		if prevKey != nil && bytes.Compare(prevKey, key) >= 0 {
			return 0, fmt.Errorf("wire: object keys at %d not strictly ascending", base)
		}
		prevKey = key

		valueBase := keyEnd
		if valueBase >= end || RawType(buf[valueBase]) != entry.ChildType {
			return 0, fmt.Errorf("wire: object value %d at %d type mismatch", i, base)
		}
		if _, err := validateValue(buf, valueBase, end); err != nil {
			return 0, err
		}
	}
	return end, nil
}
