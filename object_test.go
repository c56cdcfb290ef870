package flatpack_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/ashgrove/flatpack"
)

func TestObjectSortedKeys(t *testing.T) {
	t.Run("Test Insertion Order Irrelevant", func(t *testing.T) {
		obj := flatpack.NewObject()
		for _, kv := range []struct {
			k string
			v int64
		}{{"a", 1}, {"c", 3}, {"b", 2}} {
			if err := obj.Insert(kv.k, flatpack.NewInt(kv.v)); err != nil {
				t.Fatalf("insert %s: %v", kv.k, err)
			}
		}

		keys, err := obj.Keys()
		if err != nil {
			t.Fatalf("keys: %v", err)
		}
		if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
			t.Errorf("expected a,b,c, got %v", keys)
		}
		if !sort.StringsAreSorted(keys) {
			t.Errorf("keys not sorted: %v", keys)
		}
	})

	t.Run("Test Duplicate Insert", func(t *testing.T) {
		obj := flatpack.NewObject()
		if err := obj.Insert("k", flatpack.NewInt(1)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		err := obj.Insert("k", flatpack.NewInt(2))
		var logicErr *flatpack.LogicError
		if !errors.As(err, &logicErr) {
			t.Errorf("expected LogicError on duplicate insert, got %v", err)
		}
		// Failed mutation leaves the value unchanged.
		if got := obj.Get("k").IntOr(0); got != 1 {
			t.Errorf("duplicate insert overwrote value: got %d", got)
		}
	})

	t.Run("Test Set Upserts", func(t *testing.T) {
		obj := flatpack.NewObject()
		if err := obj.Set("k", flatpack.NewInt(1)); err != nil {
			t.Fatalf("set: %v", err)
		}
		if err := obj.Set("k", flatpack.NewInt(2)); err != nil {
			t.Fatalf("second set: %v", err)
		}
		if got := obj.Get("k").IntOr(0); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
		if n, _ := obj.Size(); n != 1 {
			t.Errorf("expected size 1, got %d", n)
		}
	})

	t.Run("Test Delete", func(t *testing.T) {
		obj := flatpack.NewObject()
		obj.Set("a", flatpack.NewInt(1))
		obj.Set("b", flatpack.NewInt(2))
		if err := obj.Delete("a"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if has, _ := obj.Has("a"); has {
			t.Errorf("a still present after delete")
		}
		if n, _ := obj.Size(); n != 1 {
			t.Errorf("expected size 1, got %d", n)
		}
	})

	t.Run("Test Missing Key Is Null", func(t *testing.T) {
		obj := flatpack.NewObject()
		if !obj.Get("absent").IsNull() {
			t.Errorf("expected null for missing key")
		}
		_, err := obj.At("absent")
		var logicErr *flatpack.LogicError
		if !errors.As(err, &logicErr) {
			t.Errorf("expected LogicError from strict At, got %v", err)
		}
	})
}

func TestArrayOps(t *testing.T) {
	t.Run("Test Push Index Delete", func(t *testing.T) {
		arr := flatpack.NewArray()
		for i := int64(0); i < 5; i++ {
			if err := arr.PushBack(flatpack.NewInt(i)); err != nil {
				t.Fatalf("push %d: %v", i, err)
			}
		}
		if err := arr.DeleteAt(0); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if got := arr.Index(0).IntOr(-1); got != 1 {
			t.Errorf("expected 1 after shift, got %d", got)
		}
		if n, _ := arr.Len(); n != 4 {
			t.Errorf("expected len 4, got %d", n)
		}
	})

	t.Run("Test InsertAt", func(t *testing.T) {
		arr := flatpack.NewArray()
		arr.PushBack(flatpack.NewInt(1))
		arr.PushBack(flatpack.NewInt(3))
		if err := arr.InsertAt(1, flatpack.NewInt(2)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		for i := int64(0); i < 3; i++ {
			if got := arr.Index(int(i)).IntOr(-1); got != i+1 {
				t.Errorf("index %d: expected %d, got %d", i, i+1, got)
			}
		}
	})

	t.Run("Test Resize", func(t *testing.T) {
		arr := flatpack.NewArray()
		if err := arr.Resize(3); err != nil {
			t.Fatalf("resize: %v", err)
		}
		if n, _ := arr.Len(); n != 3 {
			t.Errorf("expected len 3, got %d", n)
		}
		if !arr.Index(2).IsNull() {
			t.Errorf("expected null padding")
		}
		if err := arr.Resize(1); err != nil {
			t.Fatalf("shrink: %v", err)
		}
		if n, _ := arr.Len(); n != 1 {
			t.Errorf("expected len 1, got %d", n)
		}
	})

	t.Run("Test Out Of Range", func(t *testing.T) {
		arr := flatpack.NewArray()
		if !arr.Index(3).IsNull() {
			t.Errorf("expected null for out-of-range index")
		}
		_, err := arr.IndexAt(3)
		var logicErr *flatpack.LogicError
		if !errors.As(err, &logicErr) {
			t.Errorf("expected LogicError from strict IndexAt, got %v", err)
		}
	})
}
