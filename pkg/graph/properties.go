package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Well-known option property keys.
const (
	PropKey      = "key"      // rule-matching identifier
	PropIncluded = "included" // option is currently enabled
	PropEditable = "editable" // option may be toggled by the user
)

// Properties is an ordered mapping of string keys to scalar values.
// Values are restricted to string, float64 and bool; integer inputs are
// normalised to float64 so that JSON round trips are lossless.
//
// The zero value is an empty, ready-to-use mapping.
type Properties struct {
	keys   []string
	values map[string]any
}

// NewProperties builds a mapping from alternating key/value pairs.
// It panics on an odd argument count or an unsupported value, which makes
// it suitable for literals in tests and fixtures only.
func NewProperties(kv ...any) Properties {
	if len(kv)%2 != 0 {
		panic("graph: NewProperties needs key/value pairs")
	}
	var p Properties
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("graph: property key %v is not a string", kv[i]))
		}
		if err := p.Set(key, kv[i+1]); err != nil {
			panic(err)
		}
	}
	return p
}

// Set stores v under key, keeping the original position of existing keys.
func (p *Properties) Set(key string, v any) error {
	norm, err := normalizeValue(v)
	if err != nil {
		return fmt.Errorf("property %q: %w", key, err)
	}
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = norm
	return nil
}

// ParseValue converts command-line text into a property value. "true" and
// "false" become bools and finite numbers become float64; anything else is
// kept as a string.
func ParseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

// Get returns the value for key and whether it was present.
func (p Properties) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (p *Properties) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == key })
}

// Keys returns the keys in insertion order.
func (p Properties) Keys() []string { return slices.Clone(p.keys) }

// Len returns the number of entries.
func (p Properties) Len() int { return len(p.keys) }

// Bool returns the value for key if it is a bool.
func (p Properties) Bool(key string) (bool, bool) {
	b, ok := p.values[key].(bool)
	return b, ok
}

// String returns the value for key if it is a string.
func (p Properties) String(key string) (string, bool) {
	s, ok := p.values[key].(string)
	return s, ok
}

// Number returns the value for key if it is numeric.
func (p Properties) Number(key string) (float64, bool) {
	f, ok := p.values[key].(float64)
	return f, ok
}

// Clone returns an independent copy.
func (p Properties) Clone() Properties {
	out := Properties{keys: slices.Clone(p.keys)}
	if p.values != nil {
		out.values = make(map[string]any, len(p.values))
		for k, v := range p.values {
			out.values[k] = v
		}
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	*p = Properties{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected property key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		if err := p.Set(key, v); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case string, bool, float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T (want string, number or bool)", v)
	}
}
