package jsonutil

import (
	"errors"
	"reflect"
	"testing"
)

func keys(obj *Object) []string {
	var out []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestParseObjectKeepsOrder(t *testing.T) {
	obj, err := ParseObject([]byte(` {"b": 1, "a": {"x": [1, 2]}, "c": "s"} `))
	if err != nil {
		t.Fatalf("ParseObject: %v", err)
	}
	if got := keys(obj); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected key order %v", got)
	}
	want := map[string]any{
		"b": float64(1),
		"a": map[string]any{"x": []any{float64(1), float64(2)}},
		"c": "s",
	}
	if got := ToMap(obj); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected values %#v", got)
	}
}

func TestParseObjectDuplicateKeys(t *testing.T) {
	obj, err := ParseObject([]byte(`{"a": 1, "b": 2, "a": 3}`))
	if err != nil {
		t.Fatalf("ParseObject: %v", err)
	}
	if got := keys(obj); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected key order %v", got)
	}
	if v, _ := obj.Get("a"); v != float64(3) {
		t.Fatalf("expected last value to win, got %v", v)
	}
}

func TestParseObjectErrors(t *testing.T) {
	cases := map[string]error{
		`{bad json`:  ErrInvalid,
		`{"a":1} []`: ErrInvalid,
		``:           ErrInvalid,
		`[1,2]`:      ErrNotObject,
		`"text"`:     ErrNotObject,
		`null`:       ErrNotObject,
	}
	for raw, want := range cases {
		_, err := ParseObject([]byte(raw))
		if !errors.Is(err, want) {
			t.Fatalf("ParseObject(%q) error = %v, want %v", raw, err, want)
		}
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"plain", "plain"},
		{float64(42), "42"},
		{float64(1.5), "1.5"},
		{true, "true"},
		{nil, "null"},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
		{[]any{float64(1), "x"}, `[1,"x"]`},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	obj := NewObject()
	obj.Set("a", "1")
	cp := Clone(obj)
	cp.Set("b", "2")
	if obj.Len() != 1 || cp.Len() != 2 {
		t.Fatalf("clone must not share storage: %d %d", obj.Len(), cp.Len())
	}
	if Clone(nil) != nil {
		t.Fatalf("expected nil clone of nil")
	}
}

func TestPrettyIndentsInInsertionOrder(t *testing.T) {
	obj, err := ParseObject([]byte(`{"z":1,"a":[true]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "{\n  \"z\": 1,\n  \"a\": [\n    true\n  ]\n}"
	if got := Pretty(obj); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if got := Pretty("plain text"); got != "plain text" {
		t.Fatalf("expected text to pass through, got %q", got)
	}
	if got := Pretty(nil); got != "" {
		t.Fatalf("expected empty output for nil, got %q", got)
	}
}
