package panel

import (
	"reflect"
	"testing"

	"github.com/unkn0wn-root/actionrun/internal/jsonutil"
)

func TestParseJSONFieldEmptyIsUnset(t *testing.T) {
	f := ParseJSONField("")
	if f.Validity != ValidityUnset || f.Value != nil {
		t.Fatalf("expected unset field, got %+v", f)
	}
	if f.Object().Len() != 0 {
		t.Fatalf("expected empty object for unset field")
	}
}

func TestParseJSONFieldInvalid(t *testing.T) {
	for _, raw := range []string{"{bad json", "   ", `{"a":1} trailing`, "[1,2]", `"text"`, "null", "42"} {
		f := ParseJSONField(raw)
		if f.Validity != ValidityInvalid {
			t.Fatalf("%q: expected invalid, got %q", raw, f.Validity)
		}
		if f.Value != nil {
			t.Fatalf("%q: expected nil value for invalid input", raw)
		}
		if f.Raw != raw {
			t.Fatalf("%q: expected raw text kept, got %q", raw, f.Raw)
		}
	}
}

func TestParseJSONFieldValidKeepsOrder(t *testing.T) {
	f := ParseJSONField(`{"b":1,"a":{"nested":[true,null]},"c":"x"}`)
	if f.Validity != ValidityValid {
		t.Fatalf("expected valid, got %q", f.Validity)
	}
	var keys []string
	for pair := f.Value.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if !reflect.DeepEqual(keys, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected key order %v", keys)
	}
}

func TestParseJSONFieldIdempotent(t *testing.T) {
	raw := `{"x":[1,2,{"y":"z"}],"n":null}`
	first := ParseJSONField(raw)
	second := ParseJSONField(raw)
	if first.Validity != second.Validity || first.Raw != second.Raw {
		t.Fatalf("expected identical fields, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(jsonutil.ToMap(first.Value), jsonutil.ToMap(second.Value)) {
		t.Fatalf("expected equal values")
	}
}

func TestParseJSONFieldRoundTrip(t *testing.T) {
	raw := `{ "name": "demo", "count": 3, "tags": ["a", "b"], "meta": {"ok": true} }`
	f := ParseJSONField(raw)
	if f.Validity != ValidityValid {
		t.Fatalf("expected valid, got %q", f.Validity)
	}
	data, err := f.Value.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var want, got map[string]any
	if err := jsonutil.API.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatalf("unmarshal original: %v", err)
	}
	if err := jsonutil.API.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal re-encoded: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch\nwant: %v\n got: %v", want, got)
	}
}

func TestFieldObjectIsCopy(t *testing.T) {
	f := ParseJSONField(`{"a":1}`)
	obj := f.Object()
	obj.Set("b", 2)
	if f.Value.Len() != 1 {
		t.Fatalf("expected field value untouched, got %d keys", f.Value.Len())
	}
}
