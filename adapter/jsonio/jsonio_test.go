package jsonio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ashgrove/flatpack"
	"github.com/ashgrove/flatpack/adapter/jsonio"
)

func TestDecode(t *testing.T) {
	t.Run("Test Simple Object", func(t *testing.T) {
		v, err := jsonio.DecodeBytes([]byte(`{"msg":"hello from dart!"}`), flatpack.OwnerAtomic)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := v.Get("msg").StringOr(""); got != "hello from dart!" {
			t.Errorf("expected hello from dart!, got %q", got)
		}
		if n, _ := v.Size(); n != 1 {
			t.Errorf("expected size 1, got %d", n)
		}
	})

	t.Run("Test All Kinds", func(t *testing.T) {
		src := `{"s":"text","i":42,"f":2.5,"b":true,"n":null,"a":[1,"two"],"o":{"x":1}}`
		v, err := jsonio.DecodeBytes([]byte(src), flatpack.OwnerAtomic)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if v.Get("s").Kind() != flatpack.KindString ||
			v.Get("i").Kind() != flatpack.KindInt ||
			v.Get("f").Kind() != flatpack.KindFloat ||
			v.Get("b").Kind() != flatpack.KindBool ||
			v.Get("n").Kind() != flatpack.KindNull ||
			v.Get("a").Kind() != flatpack.KindArray ||
			v.Get("o").Kind() != flatpack.KindObject {
			t.Errorf("kinds not mapped as expected")
		}
		if got := v.Get("a").Index(1).StringOr(""); got != "two" {
			t.Errorf("nested array element: got %q", got)
		}
	})

	t.Run("Test Keys Stored Sorted", func(t *testing.T) {
		v, err := jsonio.DecodeBytes([]byte(`{"c":3,"a":1,"b":2}`), flatpack.OwnerAtomic)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		keys, _ := v.Keys()
		if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
			t.Errorf("expected a,b,c, got %v", keys)
		}
	})

	t.Run("Test Malformed Input", func(t *testing.T) {
		if _, err := jsonio.DecodeBytes([]byte(`{"unterminated`), flatpack.OwnerAtomic); err == nil {
			t.Errorf("expected error on malformed JSON")
		}
	})
}

func TestEncode(t *testing.T) {
	t.Run("Test Heap Round Trip", func(t *testing.T) {
		src := `{"a":[1,"two",null],"b":true,"c":1.5}`
		v, err := jsonio.DecodeBytes([]byte(src), flatpack.OwnerAtomic)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		var out bytes.Buffer
		if err := jsonio.Encode(&out, flatpack.NewHeapPacket(v)); err != nil {
			t.Fatalf("encode: %v", err)
		}

		back, err := jsonio.DecodeBytes(out.Bytes(), flatpack.OwnerAtomic)
		if err != nil {
			t.Fatalf("re-decode: %v", err)
		}
		orig, _ := jsonio.DecodeBytes([]byte(src), flatpack.OwnerAtomic)
		if !flatpack.EqualValues(orig, back) {
			t.Errorf("encode/decode round trip changed content: %s", out.String())
		}
	})

	t.Run("Test Buffer Encode", func(t *testing.T) {
		v, err := jsonio.Decode(strings.NewReader(`{"hello":"world"}`), flatpack.OwnerAtomic)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		p := flatpack.NewHeapPacket(v)
		if err := p.Finalize(); err != nil {
			t.Fatalf("finalize: %v", err)
		}

		var out bytes.Buffer
		if err := jsonio.Encode(&out, p); err != nil {
			t.Fatalf("encode buffer packet: %v", err)
		}
		if got := strings.TrimSpace(out.String()); got != `{"hello":"world"}` {
			t.Errorf("expected {\"hello\":\"world\"}, got %s", got)
		}
	})
}
