// Package jsonvalue decodes JSON into plain Go values while keeping the
// member order of objects. Objects become *fingerprint.Record, arrays
// []any, numbers float64, and null nil.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/DarlingtonDeveloper/listkey/fingerprint"
)

// ErrNotArray is returned by DecodeArray when the document is not an array.
var ErrNotArray = errors.New("json document is not an array")

// Decode reads exactly one JSON value from r.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after json value")
		}
		return nil, err
	}
	return v, nil
}

// DecodeArray reads one JSON array from r.
func DecodeArray(r io.Reader) ([]any, error) {
	v, err := Decode(r)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	return items, nil
}

// Unmarshal is Decode over a byte slice.
func Unmarshal(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		rec := fingerprint.NewRecord()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", kt)
			}
			val, err := readValue(dec)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", key, err)
			}
			// A repeated key keeps its first position and its last value.
			rec.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return rec, nil

	case '[':
		items := []any{}
		for dec.More() {
			val, err := readValue(dec)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", len(items), err)
			}
			items = append(items, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// Marshal encodes v as JSON, writing Record members in order.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case *fingerprint.Record:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for el := x.Front(); el != nil; el = el.Next() {
			if el != x.Front() {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(el.Key)
			buf.Write(key)
			buf.WriteByte(':')
			if err := encode(buf, el.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// Value wraps a decoded value so encoding/json writes it with Marshal.
type Value struct {
	V any
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v.V)
}
