// Package yamlio is a YAML producer/consumer for flatpack values, mirroring
// adapter/jsonio. yaml.v3 exposes no push tokenizer, so the adapter goes through
// its yaml.Node tree in both directions instead of a token iterator.
package yamlio

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ashgrove/flatpack"
)

// Decode reads one YAML document from r and builds a mutable tree with the
// given ownership kind.
func Decode(r io.Reader, kind flatpack.OwnerKind) (flatpack.Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return flatpack.Value{}, flatpack.NewParseError("yamlio.Decode", err)
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return flatpack.NewNullKind(kind), nil
		}
		root = doc.Content[0]
	}
	return decodeNode(root, kind)
}

// DecodeBytes is Decode over an in-memory slice.
func DecodeBytes(data []byte, kind flatpack.OwnerKind) (flatpack.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return flatpack.Value{}, flatpack.NewParseError("yamlio.DecodeBytes", err)
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return flatpack.NewNullKind(kind), nil
		}
		root = doc.Content[0]
	}
	return decodeNode(root, kind)
}

func decodeNode(n *yaml.Node, kind flatpack.OwnerKind) (flatpack.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeNode(n.Alias, kind)
	case yaml.ScalarNode:
		return decodeScalar(n, kind)
	case yaml.SequenceNode:
		arr := flatpack.NewArrayKind(kind)
		for _, c := range n.Content {
			child, err := decodeNode(c, kind)
			if err != nil {
				arr.Release()
				return flatpack.Value{}, err
			}
			if err := arr.PushBack(child); err != nil {
				child.Release()
				arr.Release()
				return flatpack.Value{}, err
			}
			child.Release()
		}
		return arr, nil
	case yaml.MappingNode:
		obj := flatpack.NewObjectKind(kind)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			child, err := decodeNode(valNode, kind)
			if err != nil {
				obj.Release()
				return flatpack.Value{}, err
			}
			if err := obj.Set(keyNode.Value, child); err != nil {
				child.Release()
				obj.Release()
				return flatpack.Value{}, err
			}
			child.Release()
		}
		return obj, nil
	default:
		return flatpack.Value{}, flatpack.NewParseError("yamlio.Decode",
			fmt.Errorf("unsupported yaml node kind %d at line %d", n.Kind, n.Line))
	}
}

func decodeScalar(n *yaml.Node, kind flatpack.OwnerKind) (flatpack.Value, error) {
	switch n.Tag {
	case "!!null":
		return flatpack.NewNullKind(kind), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return flatpack.Value{}, flatpack.NewParseError("yamlio.Decode", err)
		}
		return flatpack.NewBoolKind(kind, b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return flatpack.Value{}, flatpack.NewParseError("yamlio.Decode", err)
		}
		return flatpack.NewIntKind(kind, i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return flatpack.Value{}, flatpack.NewParseError("yamlio.Decode", err)
		}
		return flatpack.NewFloatKind(kind, f), nil
	default:
		// "!!str" and anything unrecognized decodes as its literal text.
		return flatpack.NewStringKind(kind, n.Value), nil
	}
}

// Encode writes p as a YAML document to w, whichever state p is in.
func Encode(w io.Writer, p *flatpack.Packet) error {
	n, err := encodePacket(p)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return flatpack.NewRuntimeError("yamlio.Encode", err)
	}
	return enc.Close()
}

func encodePacket(p *flatpack.Packet) (*yaml.Node, error) {
	switch p.Kind() {
	case flatpack.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case flatpack.KindBool:
		b, err := p.Bool()
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}, nil
	case flatpack.KindInt:
		i, err := p.Int()
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
	case flatpack.KindFloat:
		f, err := p.Float()
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	case flatpack.KindString:
		s, err := p.StringValue()
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}, nil
	case flatpack.KindArray:
		n, err := p.Len()
		if err != nil {
			return nil, err
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < n; i++ {
			child, err := p.IndexAt(i)
			if err != nil {
				return nil, err
			}
			cn, err := encodePacket(child)
			child.Release()
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, cn)
		}
		return seq, nil
	case flatpack.KindObject:
		keys, err := p.Keys()
		if err != nil {
			return nil, err
		}
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range keys {
			child, err := p.At(key)
			if err != nil {
				return nil, err
			}
			cn, err := encodePacket(child)
			child.Release()
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, cn)
		}
		return m, nil
	default:
		return nil, flatpack.NewTypeErrorf("yamlio.Encode", "unsupported kind %v", p.Kind())
	}
}
