// Package jsonutil holds the JSON codec and the order-preserving object
// decoding shared by the panel, the catalog and the transport.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// API behaves like encoding/json.
var API = jsoniter.ConfigCompatibleWithStandardLibrary

// Strict is API that also rejects unknown object fields, for config files.
var Strict = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

var (
	ErrInvalid   = errors.New("invalid JSON")
	ErrNotObject = errors.New("JSON value is not an object")
)

type Object = orderedmap.OrderedMap[string, any]

func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Valid is strict RFC 8259 validation; trailing content after the first value
// makes the input invalid.
func Valid(data []byte) bool {
	return json.Valid(data)
}

// ParseObject decodes a JSON object keeping key order. Duplicate keys keep the
// first position and the last value.
func ParseObject(data []byte) (*Object, error) {
	trimmed := bytes.TrimSpace(data)
	if !Valid(trimmed) {
		return nil, ErrInvalid
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	obj := NewObject()
	if err := obj.UnmarshalJSON(trimmed); err != nil {
		return nil, err
	}
	return obj, nil
}

// Text renders a decoded JSON value as a single line of text, the way it
// would appear in a header or query string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case jsoniter.Number:
		return string(t)
	default:
		data, err := API.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Clone copies the top level of obj; nil stays nil.
func Clone(obj *Object) *Object {
	if obj == nil {
		return nil
	}
	out := NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// ToMap flattens obj into a plain map, losing order.
func ToMap(obj *Object) map[string]any {
	if obj == nil {
		return nil
	}
	out := make(map[string]any, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// Pretty renders v for display: strings pass through, everything else is
// two-space indented JSON.
func Pretty(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := API.Marshal(v)
	if err != nil {
		return Text(v)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return string(data)
	}
	return out.String()
}
