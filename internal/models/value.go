package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBoolean
	KindReference
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindReference:
		return "reference"
	default:
		return "raw"
	}
}

// Value is one submitted document value. Decoding from JSON yields Null, Text,
// Number, Boolean or Raw; Reference is only produced when a template field
// interprets the value as a pointer to another record.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	raw  json.RawMessage
}

func Null() Value                 { return Value{} }
func Text(s string) Value         { return Value{kind: KindText, text: s} }
func Number(n float64) Value      { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value           { return Value{kind: KindBoolean, b: b} }
func Reference(id string) Value   { return Value{kind: KindReference, text: id} }
func Raw(m json.RawMessage) Value { return Value{kind: KindRaw, raw: m} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Number() float64 { return v.num }
func (v Value) Bool() bool      { return v.b }

// Str returns the text of Text and Reference values and the empty string otherwise.
func (v Value) Str() string {
	if v.kind == KindText || v.kind == KindReference {
		return v.text
	}
	return ""
}

// String renders any value for display and grouping.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindReference:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindRaw:
		return string(v.raw)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText, KindReference:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.b)
	case KindRaw:
		if len(v.raw) == 0 {
			return []byte("null"), nil
		}
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Null()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{', '[':
		*v = Raw(append(json.RawMessage(nil), trimmed...))
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// Data maps field ids and question keys to submitted values.
type Data map[string]Value

// QuestionKey is the data key under which the answer to question id is stored.
func QuestionKey(id string) string {
	return "q_" + id
}

// Clone returns a shallow copy of d; a nil map clones to an empty one.
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
