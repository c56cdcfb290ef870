// Package jsonio is a JSON producer/consumer for flatpack values. It drives the
// mutable-tree constructors token by token on the way in and streams a finalized
// buffer or heap tree back out on the way out; the core itself never touches JSON
// text.
package jsonio

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/ashgrove/flatpack"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode reads one JSON value from r and builds a mutable tree with the given
// ownership kind. Object keys need not arrive sorted; the tree stores them
// sorted regardless.
func Decode(r io.Reader, kind flatpack.OwnerKind) (flatpack.Value, error) {
	iter := jsoniter.Parse(json, r, 4096)
	v, err := decodeValue(iter, kind)
	if err != nil {
		return flatpack.Value{}, err
	}
	if iter.Error != nil && iter.Error != io.EOF {
		v.Release()
		return flatpack.Value{}, flatpack.NewParseError("jsonio.Decode", iter.Error)
	}
	return v, nil
}

// DecodeBytes is Decode over an in-memory slice.
func DecodeBytes(data []byte, kind flatpack.OwnerKind) (flatpack.Value, error) {
	iter := jsoniter.ParseBytes(json, data)
	v, err := decodeValue(iter, kind)
	if err != nil {
		return flatpack.Value{}, err
	}
	if iter.Error != nil && iter.Error != io.EOF {
		v.Release()
		return flatpack.Value{}, flatpack.NewParseError("jsonio.DecodeBytes", iter.Error)
	}
	return v, nil
}

func decodeValue(iter *jsoniter.Iterator, kind flatpack.OwnerKind) (flatpack.Value, error) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return flatpack.NewNullKind(kind), nil
	case jsoniter.BoolValue:
		return flatpack.NewBoolKind(kind, iter.ReadBool()), nil
	case jsoniter.NumberValue:
		num := iter.ReadNumber()
		if i, err := num.Int64(); err == nil {
			return flatpack.NewIntKind(kind, i), nil
		}
		f, err := num.Float64()
		if err != nil {
			return flatpack.Value{}, flatpack.NewParseError("jsonio.Decode", err)
		}
		return flatpack.NewFloatKind(kind, f), nil
	case jsoniter.StringValue:
		return flatpack.NewStringKind(kind, iter.ReadString()), nil
	case jsoniter.ArrayValue:
		return decodeArray(iter, kind)
	case jsoniter.ObjectValue:
		return decodeObject(iter, kind)
	default:
		iter.Skip()
		err := iter.Error
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return flatpack.Value{}, flatpack.NewParseError("jsonio.Decode", err)
	}
}

func decodeArray(iter *jsoniter.Iterator, kind flatpack.OwnerKind) (flatpack.Value, error) {
	arr := flatpack.NewArrayKind(kind)
	var childErr error
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		child, err := decodeValue(it, kind)
		if err != nil {
			childErr = err
			return false
		}
		if err := arr.PushBack(child); err != nil {
			child.Release()
			childErr = err
			return false
		}
		child.Release()
		return true
	})
	if childErr != nil {
		arr.Release()
		return flatpack.Value{}, childErr
	}
	return arr, nil
}

func decodeObject(iter *jsoniter.Iterator, kind flatpack.OwnerKind) (flatpack.Value, error) {
	obj := flatpack.NewObjectKind(kind)
	var childErr error
	iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
		child, err := decodeValue(it, kind)
		if err != nil {
			childErr = err
			return false
		}
		// Set, not Insert: JSON permits duplicate keys and last-one-wins is the
		// conventional reading.
		if err := obj.Set(key, child); err != nil {
			child.Release()
			childErr = err
			return false
		}
		child.Release()
		return true
	})
	if childErr != nil {
		obj.Release()
		return flatpack.Value{}, childErr
	}
	return obj, nil
}

// Encode writes p as JSON text to w, whichever state p is in. Object keys come
// out in sorted order, since that is the only order either representation has.
func Encode(w io.Writer, p *flatpack.Packet) error {
	stream := jsoniter.NewStream(json, w, 4096)
	if err := encodePacket(stream, p); err != nil {
		return err
	}
	if err := stream.Flush(); err != nil {
		return flatpack.NewRuntimeError("jsonio.Encode", err)
	}
	return nil
}

func encodePacket(stream *jsoniter.Stream, p *flatpack.Packet) error {
	switch p.Kind() {
	case flatpack.KindNull:
		stream.WriteNil()
	case flatpack.KindBool:
		b, err := p.Bool()
		if err != nil {
			return err
		}
		stream.WriteBool(b)
	case flatpack.KindInt:
		i, err := p.Int()
		if err != nil {
			return err
		}
		stream.WriteInt64(i)
	case flatpack.KindFloat:
		f, err := p.Float()
		if err != nil {
			return err
		}
		stream.WriteFloat64(f)
	case flatpack.KindString:
		s, err := p.StringValue()
		if err != nil {
			return err
		}
		stream.WriteString(s)
	case flatpack.KindArray:
		n, err := p.Len()
		if err != nil {
			return err
		}
		stream.WriteArrayStart()
		for i := 0; i < n; i++ {
			if i > 0 {
				stream.WriteMore()
			}
			child, err := p.IndexAt(i)
			if err != nil {
				return err
			}
			if err := encodePacket(stream, child); err != nil {
				child.Release()
				return err
			}
			child.Release()
		}
		stream.WriteArrayEnd()
	case flatpack.KindObject:
		keys, err := p.Keys()
		if err != nil {
			return err
		}
		stream.WriteObjectStart()
		for i, key := range keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(key)
			child, err := p.At(key)
			if err != nil {
				return err
			}
			if err := encodePacket(stream, child); err != nil {
				child.Release()
				return err
			}
			child.Release()
		}
		stream.WriteObjectEnd()
	}
	if stream.Error != nil {
		return flatpack.NewRuntimeError("jsonio.Encode", stream.Error)
	}
	return nil
}
