package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/docgraph/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseJSON decodes a single JSON value into an ordered tree.
//
// Object fields keep their source order. A key repeated within one object
// keeps its first position and its last value. Anything but whitespace after
// the value is an error, as is empty input. Failures carry
// [errors.ErrCodeInvalidDocument].
func ParseJSON(data []byte) (Value, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	iter := jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, data)
	if iter.WhatIsNext() == jsoniter.InvalidValue {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "document is empty")
		}
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document does not start with a JSON value")
	}

	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, iter.Error, "parse json")
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unexpected data after top-level value")
	}
	return v, nil
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := &node{kind: KindObject, fields: []Field{}}
		index := map[string]int{}
		iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
			v := readValue(iter)
			if i, dup := index[key]; dup {
				obj.fields[i].Value = v
			} else {
				index[key] = len(obj.fields)
				obj.fields = append(obj.fields, Field{Key: key, Value: v})
			}
			return iter.Error == nil || iter.Error == io.EOF
		})
		return obj
	case jsoniter.ArrayValue:
		arr := &node{kind: KindArray, items: []Value{}}
		iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			arr.items = append(arr.items, readValue(iter))
			return iter.Error == nil || iter.Error == io.EOF
		})
		return arr
	case jsoniter.StringValue:
		return Scalar(iter.ReadString())
	case jsoniter.NumberValue:
		return Scalar(string(iter.ReadNumber()))
	case jsoniter.BoolValue:
		return Scalar(strconv.FormatBool(iter.ReadBool()))
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null()
	default:
		iter.ReportError("readValue", "unexpected character")
		return Null()
	}
}

// FromAny adapts an already-decoded Go value.
//
// Supported shapes are those produced by encoding/json and json-iterator
// (map[string]any, []any, string, bool, float64, json.Number, nil) plus
// integer types, ordered []Field slices and nested [Value]s. Map keys have
// no inherent order, so they are sorted to keep builds deterministic.
// A float64 has already lost its literal, so 1.0 decoded without UseNumber
// reads "1"; decode with UseNumber to keep the text [ParseJSON] would keep.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return Scalar(t), nil
	case bool:
		return Scalar(strconv.FormatBool(t)), nil
	case json.Number:
		return Scalar(t.String()), nil
	case float64:
		return Scalar(formatFloat(t)), nil
	case float32:
		return Scalar(formatFloat(float64(t))), nil
	case int:
		return Scalar(strconv.Itoa(t)), nil
	case int64:
		return Scalar(strconv.FormatInt(t, 10)), nil
	case int32:
		return Scalar(strconv.FormatInt(int64(t), 10)), nil
	case uint64:
		return Scalar(strconv.FormatUint(t, 10)), nil
	case []Field:
		return Object(t...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			child, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Key: k, Value: child})
		}
		return Object(fields...), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		return Array(items...), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported value type %T", v)
}

// formatFloat renders a float the way a JavaScript runtime prints numbers:
// integral values without a fraction, others in shortest form.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Sprint(f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
