package flatpack_test

import (
	"errors"
	"testing"

	"github.com/ashgrove/flatpack"
)

func TestPacketTransitions(t *testing.T) {
	t.Run("Test Finalize Then Definalize", func(t *testing.T) {
		obj := flatpack.NewObject()
		obj.Set("k", flatpack.NewString("v"))
		p := flatpack.NewHeapPacket(obj)

		if !p.IsHeap() {
			t.Fatalf("expected heap-tagged packet")
		}
		if err := p.Finalize(); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if !p.IsBuffer() {
			t.Fatalf("expected buffer-tagged packet after Finalize")
		}
		if got, _ := p.Get("k").StringValue(); got != "v" {
			t.Errorf("expected v after finalize, got %q", got)
		}

		if err := p.Definalize(); err != nil {
			t.Fatalf("definalize: %v", err)
		}
		if !p.IsHeap() {
			t.Fatalf("expected heap-tagged packet after Definalize")
		}
		if err := p.Set("k", flatpack.NewString("w")); err != nil {
			t.Errorf("mutation after definalize: %v", err)
		}
	})

	t.Run("Test Transitions Are Idempotent", func(t *testing.T) {
		p := flatpack.NewHeapPacket(flatpack.NewInt(1))
		if err := p.Finalize(); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if err := p.Finalize(); err != nil {
			t.Errorf("second finalize should be a no-op, got %v", err)
		}
		if err := p.Definalize(); err != nil {
			t.Fatalf("definalize: %v", err)
		}
		if err := p.Definalize(); err != nil {
			t.Errorf("second definalize should be a no-op, got %v", err)
		}
	})
}

func TestPacketMutationGuard(t *testing.T) {
	obj := flatpack.NewObject()
	obj.Set("k", flatpack.NewInt(1))
	p := flatpack.NewHeapPacket(obj)
	if err := p.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	var stateErr *flatpack.StateError
	if err := p.Set("k", flatpack.NewInt(2)); !errors.As(err, &stateErr) {
		t.Errorf("Set on buffer packet: expected StateError, got %v", err)
	}
	if err := p.Insert("j", flatpack.NewInt(3)); !errors.As(err, &stateErr) {
		t.Errorf("Insert on buffer packet: expected StateError, got %v", err)
	}
	if err := p.Delete("k"); !errors.As(err, &stateErr) {
		t.Errorf("Delete on buffer packet: expected StateError, got %v", err)
	}
	if _, err := p.HeapView(); !errors.As(err, &stateErr) {
		t.Errorf("HeapView on buffer packet: expected StateError, got %v", err)
	}

	// The failed mutations left the value unchanged.
	if got, _ := p.Get("k").Int(); got != 1 {
		t.Errorf("expected k=1 after rejected mutations, got %d", got)
	}
}

func TestPacketUniformReads(t *testing.T) {
	build := func() *flatpack.Packet {
		obj := flatpack.NewObject()
		obj.Set("s", flatpack.NewString("text"))
		obj.Set("i", flatpack.NewInt(7))
		arr := flatpack.NewArray()
		arr.PushBack(flatpack.NewBool(true))
		obj.Set("a", arr)
		return flatpack.NewHeapPacket(obj)
	}

	check := func(t *testing.T, p *flatpack.Packet) {
		t.Helper()
		if n, _ := p.Size(); n != 3 {
			t.Errorf("expected size 3, got %d", n)
		}
		if got, _ := p.Get("s").StringValue(); got != "text" {
			t.Errorf("expected text, got %q", got)
		}
		if got, _ := p.Get("i").Int(); got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
		if got, _ := p.Get("a").IndexAt(0); got != nil {
			if b, _ := got.Bool(); !b {
				t.Errorf("expected a[0]=true")
			}
		}
		if !p.Get("missing").IsNull() {
			t.Errorf("expected null for missing key")
		}
	}

	t.Run("Test Heap Tagged", func(t *testing.T) {
		check(t, build())
	})

	t.Run("Test Buffer Tagged", func(t *testing.T) {
		p := build()
		if err := p.Finalize(); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		check(t, p)
	})
}
