package panel

import "github.com/unkn0wn-root/actionrun/internal/jsonutil"

type Validity string

const (
	ValidityUnset   Validity = ""
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
)

type FieldID int

const (
	FieldHeaders FieldID = iota
	FieldParams
)

func (id FieldID) String() string {
	switch id {
	case FieldHeaders:
		return "headers"
	case FieldParams:
		return "params"
	default:
		return "unknown"
	}
}

// Field is one JSON text input. Value is set only when Validity is valid.
type Field struct {
	Raw      string
	Value    *jsonutil.Object
	Validity Validity
}

// ParseJSONField never fails: malformed input is reported through Validity
// and leaves Value nil. Only the empty string counts as unset; blank text is
// not valid JSON.
func ParseJSONField(raw string) Field {
	if raw == "" {
		return Field{}
	}
	obj, err := jsonutil.ParseObject([]byte(raw))
	if err != nil {
		return Field{Raw: raw, Validity: ValidityInvalid}
	}
	return Field{Raw: raw, Value: obj, Validity: ValidityValid}
}

// Object returns a private copy of the value, or an empty object when the
// field is unset or invalid.
func (f Field) Object() *jsonutil.Object {
	if f.Validity != ValidityValid || f.Value == nil {
		return jsonutil.NewObject()
	}
	return jsonutil.Clone(f.Value)
}

func (f Field) clone() Field {
	f.Value = jsonutil.Clone(f.Value)
	return f
}
