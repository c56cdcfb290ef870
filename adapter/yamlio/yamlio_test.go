package yamlio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ashgrove/flatpack"
	"github.com/ashgrove/flatpack/adapter/yamlio"
)

var sampleYAML = `
name: sample
count: 42
ratio: 2.5
enabled: true
missing: null
tags:
  - one
  - two
nested:
  inner: 1
`

func TestDecode(t *testing.T) {
	v, err := yamlio.DecodeBytes([]byte(sampleYAML), flatpack.OwnerAtomic)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	t.Run("Test Scalars", func(t *testing.T) {
		if got := v.Get("name").StringOr(""); got != "sample" {
			t.Errorf("name: got %q", got)
		}
		if got := v.Get("count").IntOr(0); got != 42 {
			t.Errorf("count: got %d", got)
		}
		if got := v.Get("ratio").FloatOr(0); got != 2.5 {
			t.Errorf("ratio: got %v", got)
		}
		if got := v.Get("enabled").BoolOr(false); !got {
			t.Errorf("enabled: got false")
		}
		if !v.Get("missing").IsNull() {
			t.Errorf("missing should decode as null")
		}
	})

	t.Run("Test Aggregates", func(t *testing.T) {
		tags := v.Get("tags")
		if n, _ := tags.Len(); n != 2 {
			t.Errorf("tags len: got %d", n)
		}
		if got := tags.Index(1).StringOr(""); got != "two" {
			t.Errorf("tags[1]: got %q", got)
		}
		if got := v.Get("nested").Get("inner").IntOr(0); got != 1 {
			t.Errorf("nested.inner: got %d", got)
		}
	})

	t.Run("Test Keys Stored Sorted", func(t *testing.T) {
		keys, err := v.Keys()
		if err != nil {
			t.Fatalf("keys: %v", err)
		}
		for i := 1; i < len(keys); i++ {
			if keys[i-1] >= keys[i] {
				t.Errorf("keys not sorted: %v", keys)
				break
			}
		}
	})
}

func TestEncode(t *testing.T) {
	v, err := yamlio.DecodeBytes([]byte(sampleYAML), flatpack.OwnerAtomic)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var out bytes.Buffer
	if err := yamlio.Encode(&out, flatpack.NewHeapPacket(v)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	back, err := yamlio.Decode(strings.NewReader(out.String()), flatpack.OwnerAtomic)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	orig, _ := yamlio.DecodeBytes([]byte(sampleYAML), flatpack.OwnerAtomic)
	if !flatpack.EqualValues(orig, back) {
		t.Errorf("encode/decode round trip changed content:\n%s", out.String())
	}
}

func TestEncodeFinalized(t *testing.T) {
	v, err := yamlio.DecodeBytes([]byte(sampleYAML), flatpack.OwnerAtomic)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := flatpack.NewHeapPacket(v)
	if err := p.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	var out bytes.Buffer
	if err := yamlio.Encode(&out, p); err != nil {
		t.Fatalf("encode finalized packet: %v", err)
	}
	if !strings.Contains(out.String(), "name: sample") {
		t.Errorf("expected name field in output:\n%s", out.String())
	}
}
