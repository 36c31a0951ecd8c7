package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/position"
	"github.com/orizon-lang/scriptopt/internal/runtime"
	"github.com/orizon-lang/scriptopt/internal/typeinfo"
)

// jsonNode is the interchange form the parser hands over.
type jsonNode struct {
	Kind        string         `json:"kind"`
	Text        string         `json:"text,omitempty"`
	Span        *position.Span `json:"span,omitempty"`
	Value       *jsonValue     `json:"value,omitempty"`
	Children    []*jsonNode    `json:"children,omitempty"`
	Specialized bool           `json:"specialized,omitempty"`
}

type jsonValue struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode reads one tree from r.
func Decode(r io.Reader) (*Node, error) {
	var jn jsonNode
	if err := json.NewDecoder(r).Decode(&jn); err != nil {
		return nil, fmt.Errorf("decoding syntax tree: %w", err)
	}
	return fromJSON(&jn)
}

// Unmarshal decodes a tree from JSON bytes.
func Unmarshal(data []byte) (*Node, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, fmt.Errorf("decoding syntax tree: %w", err)
	}
	return fromJSON(&jn)
}

// Encode writes n to w. A specialized node is written as its original with
// the specialized flag set; the native body has no serialized form.
func Encode(w io.Writer, n *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(n))
}

func fromJSON(jn *jsonNode) (*Node, error) {
	if jn == nil {
		return nil, errors.MalformedTree("null node")
	}

	kind, ok := ParseKind(jn.Kind)
	if !ok || kind == KindSpecialized {
		return nil, errors.MalformedTree(fmt.Sprintf("unknown node kind %q", jn.Kind))
	}

	var span position.Span
	if jn.Span != nil {
		span = *jn.Span
	}

	if kind == KindConstant {
		if jn.Value == nil {
			return nil, errors.MalformedTree(fmt.Sprintf("constant %q at %s has no value", jn.Text, span))
		}
		v, err := decodeValue(jn.Value)
		if err != nil {
			return nil, err
		}
		return NewConstant(jn.Text, span, v), nil
	}

	children := make([]*Node, 0, len(jn.Children))
	for _, c := range jn.Children {
		child, err := fromJSON(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return New(kind, jn.Text, span, children...), nil
}

func decodeValue(jv *jsonValue) (runtime.Value, error) {
	var (
		v   runtime.Value
		err error
	)

	switch jv.Type {
	case "void":
		return runtime.Void(), nil
	case "bool":
		var b bool
		err = json.Unmarshal(jv.Data, &b)
		v = runtime.Bool(b)
	case "int":
		var i int32
		err = json.Unmarshal(jv.Data, &i)
		v = runtime.Int(i)
	case "long":
		var i int64
		err = json.Unmarshal(jv.Data, &i)
		v = runtime.Long(i)
	case "float":
		var f float64
		f, err = decodeFloat(jv.Data, 32)
		v = runtime.Float(float32(f))
	case "double":
		var f float64
		f, err = decodeFloat(jv.Data, 64)
		v = runtime.Double(f)
	case "string":
		var s string
		err = json.Unmarshal(jv.Data, &s)
		v = runtime.String(s)
	default:
		return runtime.Value{}, errors.MalformedTree(fmt.Sprintf("unsupported constant type %q", jv.Type))
	}

	if err != nil {
		return runtime.Value{}, errors.MalformedTree(fmt.Sprintf("bad %s constant: %v", jv.Type, err))
	}
	return v, nil
}

// decodeFloat accepts a JSON number, or one of the strings "NaN", "+Inf" and
// "-Inf" for values JSON cannot spell as a number.
func decodeFloat(data json.RawMessage, bitSize int) (float64, error) {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(s, bitSize)
		if err != nil || !(math.IsNaN(f) || math.IsInf(f, 0)) {
			return 0, fmt.Errorf("%q is not NaN or an infinity", s)
		}
		return f, nil
	}
	if bitSize == 32 {
		var f float32
		err := json.Unmarshal(data, &f)
		return float64(f), err
	}
	var f float64
	err := json.Unmarshal(data, &f)
	return f, err
}

func toJSON(n *Node) *jsonNode {
	if orig, ok := n.Original(); ok {
		jn := toJSON(orig)
		jn.Specialized = true
		return jn
	}

	jn := &jsonNode{Kind: n.kind.String(), Text: n.text}
	if n.span.Start.IsValid() {
		span := n.span
		jn.Span = &span
	}

	if v, ok := n.Constant(); ok {
		jn.Value = encodeValue(v)
	}

	for _, c := range n.children {
		jn.Children = append(jn.Children, toJSON(c))
	}
	return jn
}

func encodeValue(v runtime.Value) *jsonValue {
	v = v.Decay()
	jv := &jsonValue{Type: v.Type().BareName()}
	if v.IsVoid() || v.Type().EqualKey(typeinfo.FunctionType.Key()) {
		jv.Type = "void"
		return jv
	}

	x := v.Interface()
	switch f := x.(type) {
	case float32:
		x = nonFinite(float64(f), x)
	case float64:
		x = nonFinite(f, x)
	}

	data, err := json.Marshal(x)
	if err != nil {
		jv.Type = "void"
		return jv
	}
	jv.Data = data
	return jv
}

// nonFinite spells NaN and the infinities as strings, the only form JSON
// has for them; any other value is returned unchanged.
func nonFinite(f float64, x any) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return x
}
