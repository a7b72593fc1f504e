package engine

import "github.com/matzehuels/docgraph/pkg/document"

// Partition splits an object's fields into scalars (nulls included) and
// structured values. Both keep document order.
type Partition struct {
	Scalars    []document.Field
	Structured []document.Field
}

// Singular returns the structured fields holding objects.
func (p Partition) Singular() []document.Field {
	return p.filter(document.KindObject)
}

// Repeated returns the structured fields holding arrays.
func (p Partition) Repeated() []document.Field {
	return p.filter(document.KindArray)
}

func (p Partition) filter(k document.Kind) []document.Field {
	var out []document.Field
	for _, f := range p.Structured {
		if f.Value.Kind() == k {
			out = append(out, f)
		}
	}
	return out
}

// Classify partitions the fields of an object. Non-objects yield an empty
// partition.
func Classify(v document.Value) Partition {
	var p Partition
	if v == nil || v.Kind() != document.KindObject {
		return p
	}
	for _, f := range v.Fields() {
		if document.IsStructured(f.Value) {
			p.Structured = append(p.Structured, f)
		} else {
			p.Scalars = append(p.Scalars, f)
		}
	}
	return p
}

// ChildCount is the badge number shown on a group node.
//
// An array counts its items (nulls included). An object counts one for its
// merged scalars, if any, plus one per structured field, empty ones
// included. Everything else counts zero.
func ChildCount(v document.Value) int {
	if v == nil {
		return 0
	}
	switch v.Kind() {
	case document.KindArray:
		return len(v.Items())
	case document.KindObject:
		p := Classify(v)
		n := len(p.Structured)
		if len(p.Scalars) > 0 {
			n++
		}
		return n
	}
	return 0
}
