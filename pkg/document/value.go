package document

import (
	"strings"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// Kind classifies a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "unknown"
}

// Value is a read-only view of one document node.
//
// Fields is only meaningful for objects and Items for arrays; both return
// nil otherwise. Text is only meaningful for scalars and null ("null").
type Value interface {
	Kind() Kind
	Text() string
	Fields() []Field
	Items() []Value
}

// Field is one key/value pair of an object, in document order.
type Field struct {
	Key   string
	Value Value
}

// IsStructured reports whether v is an object or an array.
func IsStructured(v Value) bool {
	if v == nil {
		return false
	}
	k := v.Kind()
	return k == KindObject || k == KindArray
}

// IsEmpty reports whether v is an object without fields or an array
// without items.
func IsEmpty(v Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case KindObject:
		return len(v.Fields()) == 0
	case KindArray:
		return len(v.Items()) == 0
	}
	return false
}

// IsNull reports whether v is nil or a null value.
func IsNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}

// Lookup returns the value of the first field named key.
func Lookup(v Value, key string) (Value, bool) {
	if v == nil || v.Kind() != KindObject {
		return nil, false
	}
	for _, f := range v.Fields() {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// node is the concrete Value produced by every adapter.
type node struct {
	kind   Kind
	text   string
	fields []Field
	items  []Value
}

func (n *node) Kind() Kind      { return n.kind }
func (n *node) Fields() []Field { return n.fields }
func (n *node) Items() []Value  { return n.items }

func (n *node) Text() string {
	if n.kind == KindNull {
		return "null"
	}
	return n.text
}

// Null returns a null value.
func Null() Value { return &node{kind: KindNull} }

// Scalar returns a scalar holding raw text.
func Scalar(text string) Value { return &node{kind: KindScalar, text: text} }

// Object returns an object with the given fields in order.
func Object(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return &node{kind: KindObject, fields: fields}
}

// Array returns an array with the given items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return &node{kind: KindArray, items: items}
}

// F is shorthand for building a [Field].
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Format names an input syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAuto, nil
	}
	if err := errors.ValidateDocumentFormat(name); err != nil {
		return "", err
	}
	return Format(strings.ToLower(name)), nil
}

// Detect sniffs the syntax of data: a first significant byte of '<' is XML,
// anything else JSON. A UTF-8 byte order mark is ignored.
func Detect(data []byte) Format {
	s := strings.TrimPrefix(string(data), "\ufeff")
	s = strings.TrimLeft(s, " \t\r\n")
	if strings.HasPrefix(s, "<") {
		return FormatXML
	}
	return FormatJSON
}

// Parse decodes data in the given format, sniffing it when format is auto.
func Parse(data []byte, format Format) (Value, error) {
	if format == FormatAuto || format == "" {
		format = Detect(data)
	}
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatXML:
		return ParseXML(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
}
