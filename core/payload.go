package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// ValueKind discriminates the variants of a payload Value.
type ValueKind int

const (
	// KindString is a UTF-8 string value.
	KindString ValueKind = iota
	// KindInt is a 64-bit integer value.
	KindInt
	// KindFloat is a 64-bit floating point value.
	KindFloat
	// KindBool is a boolean value.
	KindBool
)

// String returns the string representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union over the scalar types a message payload may
// carry. Keeping the set closed makes payload handling exhaustively matchable
// and serialization total; there is no "unknown" fallback variant.
type Value struct {
	kind ValueKind
	str  string
	num  int64
	flt  float64
	bln  bool
}

// String constructs a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int constructs an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Float constructs a floating point Value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, bln: b} }

// Kind returns the variant discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string variant and whether the value holds one.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsInt returns the integer variant and whether the value holds one.
func (v Value) AsInt() (int64, bool) { return v.num, v.kind == KindInt }

// AsFloat returns the float variant and whether the value holds one.
func (v Value) AsFloat() (float64, bool) { return v.flt, v.kind == KindFloat }

// AsBool returns the boolean variant and whether the value holds one.
func (v Value) AsBool() (bool, bool) { return v.bln, v.kind == KindBool }

// Text renders the value as a plain string regardless of variant. Total by
// construction: every kind has a rendering.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.bln)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as its bare scalar form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.num)
	case KindFloat:
		return json.Marshal(v.flt)
	case KindBool:
		return json.Marshal(v.bln)
	default:
		return nil, fmt.Errorf("payload value has invalid kind %d", v.kind)
	}
}

// UnmarshalJSON decodes a bare scalar into the matching variant. Whole JSON
// numbers decode as integers, fractional ones as floats.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = String(t)
	case bool:
		*v = Bool(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			*v = Int(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("payload value %q is not a valid number", t.String())
		}
		*v = Float(f)
	default:
		return fmt.Errorf("payload value must be a string, number or bool, got %T", raw)
	}
	return nil
}

// Payload is the application data attached to a message: string keys mapped
// to scalar Values. A nil payload is valid and means "no data".
type Payload map[string]Value

// Clone returns an independent copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	cp := make(Payload, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// Keys returns the payload keys in sorted order for deterministic iteration.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Serialize renders the payload as canonical JSON with sorted keys. Security
// content inspection and logging both rely on this being deterministic.
func (p Payload) Serialize() string {
	if len(p) == 0 {
		return "{}"
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, '{')
	for i, k := range p.Keys() {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := p[k].MarshalJSON()
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return string(buf)
}
