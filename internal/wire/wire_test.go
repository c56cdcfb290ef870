package wire

import (
	"math"
	"sort"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	buf := make([]byte, 16)

	t.Run("Test U16", func(t *testing.T) {
		for _, v := range []uint16{0, 1, 0x1234, math.MaxUint16} {
			WriteU16(buf, 3, v)
			if got := ReadU16(buf, 3); got != v {
				t.Errorf("u16 %x round-tripped as %x", v, got)
			}
		}
	})

	t.Run("Test U32", func(t *testing.T) {
		for _, v := range []uint32{0, 0xDEADBEEF, math.MaxUint32} {
			WriteU32(buf, 5, v)
			if got := ReadU32(buf, 5); got != v {
				t.Errorf("u32 %x round-tripped as %x", v, got)
			}
		}
	})

	t.Run("Test I64", func(t *testing.T) {
		for _, v := range []int64{0, -1, math.MinInt64, math.MaxInt64} {
			WriteI64(buf, 1, v)
			if got := ReadI64(buf, 1); got != v {
				t.Errorf("i64 %d round-tripped as %d", v, got)
			}
		}
	})

	t.Run("Test Floats Preserve Bit Patterns", func(t *testing.T) {
		for _, v := range []float64{0, -0.0, 1.5, math.Inf(1), math.SmallestNonzeroFloat64} {
			WriteF64(buf, 2, v)
			if got := ReadF64(buf, 2); math.Float64bits(got) != math.Float64bits(v) {
				t.Errorf("f64 %v round-tripped as %v", v, got)
			}
		}
		nan := math.NaN()
		WriteF64(buf, 2, nan)
		if got := ReadF64(buf, 2); math.Float64bits(got) != math.Float64bits(nan) {
			t.Errorf("NaN bit pattern not preserved")
		}

		for _, v := range []float32{0, 2.5, float32(math.Inf(-1))} {
			WriteF32(buf, 4, v)
			if got := ReadF32(buf, 4); math.Float32bits(got) != math.Float32bits(v) {
				t.Errorf("f32 %v round-tripped as %v", v, got)
			}
		}
	})

	t.Run("Test Little Endian On Wire", func(t *testing.T) {
		WriteU32(buf, 0, 0x01020304)
		if buf[0] != 0x04 || buf[1] != 0x03 || buf[2] != 0x02 || buf[3] != 0x01 {
			t.Errorf("u32 not little-endian: % x", buf[:4])
		}
	})
}

func TestNarrowing(t *testing.T) {
	t.Run("Test Int Widths", func(t *testing.T) {
		cases := map[int64]RawType{
			0:              RawInt8,
			math.MaxInt8:   RawInt8,
			math.MinInt8:   RawInt8,
			math.MaxInt8 + 1:  RawInt16,
			math.MinInt16:  RawInt16,
			math.MaxInt16 + 1: RawInt32,
			math.MinInt32:  RawInt32,
			math.MaxInt32 + 1: RawInt64,
			math.MinInt64:  RawInt64,
		}
		for v, want := range cases {
			if got := NarrowInt(v); got != want {
				t.Errorf("NarrowInt(%d) = %v, want %v", v, got, want)
			}
		}
	})

	t.Run("Test Float Widths", func(t *testing.T) {
		if NarrowFloat(0.5) != RawFloat32 {
			t.Errorf("0.5 should narrow to float32")
		}
		if NarrowFloat(0.1) != RawFloat64 {
			t.Errorf("0.1 should stay float64")
		}
		if NarrowFloat(math.Inf(1)) != RawFloat32 {
			t.Errorf("+Inf is exact in float32")
		}
	})

	t.Run("Test Size Classes", func(t *testing.T) {
		if ObjectSizeClass(100) != RawObjectSmall {
			t.Errorf("100 bytes should be small class")
		}
		if ObjectSizeClass(math.MaxUint16) != RawObjectSmall {
			t.Errorf("exactly MaxUint16 bytes should be small class")
		}
		if ObjectSizeClass(math.MaxUint16+1) != RawObjectLarge {
			t.Errorf("MaxUint16+1 bytes should be large class")
		}
		if StringSizeClass(255) != RawStringSmall || StringSizeClass(256) != RawStringLarge {
			t.Errorf("string size class threshold wrong")
		}
	})
}

func TestKeyPrefix(t *testing.T) {
	if p := KeyPrefix([]byte("abc")); p != [2]byte{'a', 'b'} {
		t.Errorf("prefix of abc = %v", p)
	}
	if p := KeyPrefix([]byte("a")); p != [2]byte{'a', 0} {
		t.Errorf("short key not zero-padded: %v", p)
	}
	if p := KeyPrefix(nil); p != [2]byte{0, 0} {
		t.Errorf("empty key not zero-padded: %v", p)
	}
}

// buildObject hand-emits a small object whose i'th (sorted) key maps to the
// int8 value i, exercising the decoder/lookup side without the finalizer.
func buildObject(t *testing.T, keys []string) []byte {
	t.Helper()
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	n := len(sorted)

	header := uint32(1 + SmallHeaderLenSize + CountFieldSize)
	vtable := uint32(n) * ObjectEntrySize
	offsets := make([]uint32, n)
	cum := header + vtable
	for i, k := range sorted {
		offsets[i] = cum
		cum += KeyLenFieldSize + uint32(len(k)) + 2
	}

	buf := make([]byte, 0, cum)
	buf = append(buf, byte(RawObjectSmall))
	buf = AppendU16(buf, uint16(cum))
	buf = AppendU16(buf, uint16(n))
	for i, k := range sorted {
		p := KeyPrefix([]byte(k))
		buf = append(buf, p[0], p[1], byte(RawInt8))
		buf = AppendU32(buf, offsets[i])
	}
	for i, k := range sorted {
		buf = AppendU16(buf, uint16(len(k)))
		buf = append(buf, k...)
		buf = append(buf, byte(RawInt8), byte(i))
	}
	return buf
}

func TestLookupKey(t *testing.T) {
	keys := []string{"alpha", "beta", "b", "be", "bf", "gamma", "", "a"}
	buf := buildObject(t, keys)

	if err := Validate(buf); err != nil {
		t.Fatalf("hand-built object rejected: %v", err)
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	t.Run("Test Every Key Found", func(t *testing.T) {
		for i, k := range sorted {
			childType, off, ok := LookupKey(buf, 0, []byte(k))
			if !ok {
				t.Errorf("key %q not found", k)
				continue
			}
			if childType != RawInt8 {
				t.Errorf("key %q: cached type %v, want int8", k, childType)
			}
			if got := int8(buf[off+1]); int(got) != i {
				t.Errorf("key %q: value %d, want %d", k, got, i)
			}
		}
	})

	t.Run("Test Absent Keys", func(t *testing.T) {
		for _, k := range []string{"al", "bg", "zzz", "alph", "alphaa"} {
			if _, _, ok := LookupKey(buf, 0, []byte(k)); ok {
				t.Errorf("absent key %q reported found", k)
			}
		}
	})

	t.Run("Test Lookup Never Allocates", func(t *testing.T) {
		key := []byte("gamma")
		allocs := testing.AllocsPerRun(1000, func() {
			LookupKey(buf, 0, key)
		})
		if allocs != 0 {
			t.Errorf("LookupKey allocated %v times per run", allocs)
		}
	})
}

func TestIndexAt(t *testing.T) {
	// Hand-emit [int8(10), int8(20)].
	header := uint32(1 + LargeHeaderLenSize + CountFieldSize)
	vtable := uint32(2) * ArrayEntrySize
	total := header + vtable + 4
	buf := make([]byte, 0, total)
	buf = append(buf, byte(RawArray))
	buf = AppendU32(buf, total)
	buf = AppendU16(buf, 2)
	buf = append(buf, byte(RawInt8), 0)
	buf = AppendU32(buf, header+vtable)
	buf = append(buf, byte(RawInt8), 0)
	buf = AppendU32(buf, header+vtable+2)
	buf = append(buf, byte(RawInt8), 10, byte(RawInt8), 20)

	if err := Validate(buf); err != nil {
		t.Fatalf("hand-built array rejected: %v", err)
	}

	for i, want := range []int8{10, 20} {
		childType, off, ok := IndexAt(buf, 0, i)
		if !ok || childType != RawInt8 {
			t.Fatalf("index %d: ok=%v type=%v", i, ok, childType)
		}
		if got := int8(buf[off+1]); got != want {
			t.Errorf("index %d: value %d, want %d", i, got, want)
		}
	}
	if _, _, ok := IndexAt(buf, 0, 2); ok {
		t.Errorf("out-of-range index reported ok")
	}
	if _, _, ok := IndexAt(buf, 0, -1); ok {
		t.Errorf("negative index reported ok")
	}
}
