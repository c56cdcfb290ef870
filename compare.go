package flatpack

// Equal reports whether a and b are structurally equal: same kind, same
// scalar value, same object keys, and pairwise-equal values -- regardless of
// which side is heap- or buffer-tagged, or which Own[T] implementation backs
// it. Equal goes through the uniform Packet API so a heap tree and its own
// Finalize output compare equal.
func Equal(a, b *Packet) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindBool:
		av, _ := a.Bool()
		bv, _ := b.Bool()
		return av == bv
	case KindInt:
		av, _ := a.Int()
		bv, _ := b.Int()
		return av == bv
	case KindFloat:
		av, _ := a.Float()
		bv, _ := b.Float()
		return av == bv
	case KindString:
		av, _ := a.StringValue()
		bv, _ := b.StringValue()
		return av == bv
	case KindArray:
		return equalArrays(a, b)
	case KindObject:
		return equalObjects(a, b)
	default:
		return false
	}
}

func equalArrays(a, b *Packet) bool {
	na, _ := a.Len()
	nb, _ := b.Len()
	if na != nb {
		return false
	}
	for i := 0; i < na; i++ {
		ea, err := a.IndexAt(i)
		if err != nil {
			return false
		}
		eb, err := b.IndexAt(i)
		if err != nil {
			return false
		}
		if !Equal(ea, eb) {
			return false
		}
	}
	return true
}

func equalObjects(a, b *Packet) bool {
	ka, _ := a.Keys()
	kb, _ := b.Keys()
	if len(ka) != len(kb) {
		return false
	}
	// Both sides keep keys sorted, so same length plus
	// pairwise key equality at each position is sufficient -- no need to sort
	// or build a lookup set.
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
		va, err := a.At(ka[i])
		if err != nil {
			return false
		}
		vb, err := b.At(kb[i])
		if err != nil {
			return false
		}
		if !Equal(va, vb) {
			return false
		}
	}
	return true
}

// EqualValues is a convenience wrapper for comparing two heap trees directly
// without constructing Packets.
func EqualValues(a, b Value) bool {
	return Equal(NewHeapPacket(a), NewHeapPacket(b))
}

// EqualBuffers is a convenience wrapper for comparing two finalized buffers
// directly.
func EqualBuffers(a, b *Buffer) bool {
	return Equal(NewBufferPacket(a), NewBufferPacket(b))
}
