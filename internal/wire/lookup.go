package wire

import "bytes"

// =================== the lookup engine ===================
//
// Object key lookup is a binary search over the vtable. The first two bytes of
// each key are inlined in the vtable entry (the "prefix cache"), so the search
// only touches the vtable -- a small, contiguous, cache-hot region -- until a
// candidate is found by prefix equality; only then is the full key dereferenced
// from the payload area to disambiguate. No step of this algorithm allocates.

// prefixLess reports whether zero-padded 2-byte prefix a sorts strictly before b,
// treating both as big-endian unsigned integers. Padding with the zero byte keeps
// this consistent with full lexicographic order: a key that is a strict prefix of
// another always compares as less, and any genuine mismatch occurs within the
// first two bytes and is therefore resolved here without ambiguity.
func prefixLess(a, b [PrefixCacheLen]byte) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

func prefixEqual(a, b [PrefixCacheLen]byte) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// LookupKey performs the prefix-cached binary search over the object
// whose header starts at base. It returns the matched child's raw type and the
// absolute byte offset (into buf) of the child's own raw-type byte, or ok=false
// if no entry matches.
func LookupKey(buf []byte, base uint32, key []byte) (childType RawType, valueAbsOffset uint32, ok bool) {
	_, _, count, vtableOff := ObjectHeader(buf, base)
	target := KeyPrefix(key)

	lo, hi := uint16(0), count
	for lo < hi {
		mid := lo + (hi-lo)/2
		entry := ObjectEntryAt(buf, vtableOff, mid)

		switch {
		case prefixLess(entry.PrefixCache, target):
			lo = mid + 1
		case prefixLess(target, entry.PrefixCache):
			hi = mid
		default:
			// Prefixes tie; only now touch the payload region to compare the full
			// key and break the tie (or confirm the match).
			fullKey, valueOff := ObjectKeyAt(buf, base, entry.Offset)
			switch bytes.Compare(fullKey, key) {
			case 0:
				return entry.ChildType, valueOff, true
			case -1:
				lo = mid + 1
			default:
				hi = mid
			}
		}
	}
	return 0, 0, false
}

// IndexAt performs constant-time array access: fetch
// the vtable entry at idx and return its cached raw type and the child's absolute
// byte offset. ok is false if idx is out of range.
func IndexAt(buf []byte, base uint32, idx int) (childType RawType, valueAbsOffset uint32, ok bool) {
	_, count, vtableOff := ArrayHeader(buf, base)
	if idx < 0 || idx >= int(count) {
		return 0, 0, false
	}
	entry := ArrayEntryAt(buf, vtableOff, uint16(idx))
	return entry.ChildType, base + entry.Offset, true
}

// ObjectKeyValueAt returns the key and the absolute value offset for the idx'th
// vtable slot of an object, used by in-order object iteration (vtable order is
// sorted key order, so this visits keys ascending).
func ObjectKeyValueAt(buf []byte, base uint32, idx int) (key []byte, childType RawType, valueAbsOffset uint32, ok bool) {
	_, _, count, vtableOff := ObjectHeader(buf, base)
	if idx < 0 || idx >= int(count) {
		return nil, 0, 0, false
	}
	entry := ObjectEntryAt(buf, vtableOff, uint16(idx))
	k, valueOff := ObjectKeyAt(buf, base, entry.Offset)
	return k, entry.ChildType, valueOff, true
}
