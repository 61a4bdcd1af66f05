package output

import (
	"math"

	"github.com/yndnr/kvwire-go/pkg/command"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

// Result is the printable outcome of one command.
type Result struct {
	Command string `json:"command" yaml:"command"`
	// Status is a bare status such as "OK" or "aborted".
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	// Value is a string or a []string.
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Count *int64 `json:"count,omitempty" yaml:"count,omitempty"`
	Nil   bool   `json:"nil,omitempty" yaml:"nil,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DataValue returns the JSON-friendly form of d: a string or a []string.
func DataValue(d command.Data) any {
	if d.Kind == command.DataList {
		if d.List == nil {
			return []string{}
		}
		return d.List
	}
	return d.Text
}

// Node is the serializable form of a resp.Value. Type is the kind name.
// Big integers are written as decimal strings; non-finite doubles as
// "inf", "-inf" or "nan".
type Node struct {
	Type     string `json:"type" yaml:"type"`
	Value    any    `json:"value,omitempty" yaml:"value,omitempty"`
	Elements []Node `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// NodeOf converts v to a Node.
func NodeOf(v resp.Value) Node {
	n := Node{Type: v.Kind().String()}
	switch v.Kind() {
	case resp.KindBoolean:
		n.Value = v.Bool()
	case resp.KindInteger:
		n.Value = v.Int()
	case resp.KindBigInteger:
		n.Value = v.BigInt().String()
	case resp.KindDouble:
		f := v.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			n.Value = resp.FormatDouble(f)
		} else {
			n.Value = f
		}
	case resp.KindSimpleString, resp.KindSimpleError, resp.KindBulkString, resp.KindBulkError:
		n.Value = v.Text()
	case resp.KindArray:
		n.Elements = make([]Node, v.Len())
		for i := range v.Len() {
			n.Elements[i] = NodeOf(v.Index(i))
		}
	}
	return n
}

// normalize replaces values that have no faithful JSON or YAML form.
func normalize(data any) any {
	switch d := data.(type) {
	case resp.Value:
		return NodeOf(d)
	case []resp.Value:
		nodes := make([]Node, len(d))
		for i, v := range d {
			nodes[i] = NodeOf(v)
		}
		return nodes
	case *Table:
		return d.Records()
	}
	return data
}
