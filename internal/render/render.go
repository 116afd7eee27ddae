// Package render writes delivered variable values as HCL or JSON documents.
// Child scopes become nested scope blocks (HCL) or nested objects (JSON).
// Values that are still unknown are written as null.
package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/varflow/internal/valuestore"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Format selects the output syntax.
type Format string

const (
	FormatHCL  Format = "hcl"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatHCL, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want hcl or json)", s)
	}
}

// Write renders entries to w in the given format.
func Write(w io.Writer, format Format, entries []valuestore.Entry) error {
	switch format {
	case FormatHCL:
		return writeHCL(w, entries)
	case FormatJSON:
		return writeJSON(w, entries)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printable(val cty.Value) cty.Value {
	if val == cty.NilVal || !val.IsWhollyKnown() {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return val
}

func writeHCL(w io.Writer, entries []valuestore.Entry) error {
	f := hclwrite.NewEmptyFile()
	bodies := map[string]*hclwrite.Body{"": f.Body()}

	var bodyFor func(path []string) *hclwrite.Body
	bodyFor = func(path []string) *hclwrite.Body {
		key := fmt.Sprint(path)
		if len(path) == 0 {
			key = ""
		}
		if b, ok := bodies[key]; ok {
			return b
		}
		parent := bodyFor(path[:len(path)-1])
		block := parent.AppendNewBlock("scope", []string{path[len(path)-1]})
		bodies[key] = block.Body()
		return block.Body()
	}

	for _, e := range entries {
		bodyFor(e.Address.Scope).SetAttributeValue(e.Address.Name, printable(e.Value))
	}
	_, err := w.Write(hclwrite.Format(f.Bytes()))
	return err
}

// node is one scope level of the JSON document.
type node struct {
	values   map[string]cty.Value
	children map[string]*node
}

func newNode() *node {
	return &node{values: map[string]cty.Value{}, children: map[string]*node{}}
}

func (n *node) object() (cty.Value, error) {
	attrs := make(map[string]cty.Value, len(n.values)+len(n.children))
	for k, v := range n.values {
		attrs[k] = v
	}
	names := make([]string, 0, len(n.children))
	for k := range n.children {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		if _, ok := attrs[k]; ok {
			return cty.NilVal, fmt.Errorf("scope %q collides with a variable of the same name", k)
		}
		child, err := n.children[k].object()
		if err != nil {
			return cty.NilVal, err
		}
		attrs[k] = child
	}
	return cty.ObjectVal(attrs), nil
}

func writeJSON(w io.Writer, entries []valuestore.Entry) error {
	root := newNode()
	for _, e := range entries {
		cur := root
		for _, s := range e.Address.Scope {
			next, ok := cur.children[s]
			if !ok {
				next = newNode()
				cur.children[s] = next
			}
			cur = next
		}
		cur.values[e.Address.Name] = printable(e.Value)
	}

	obj, err := root.object()
	if err != nil {
		return err
	}
	buf, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return err
	}
	buf = append(buf, '\n')
	_, err = w.Write(buf)
	return err
}
