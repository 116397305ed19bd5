package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// MarshalJSON encodes d keeping mapping order. Dates and partial dates encode
// as their ISO text ("1990-03-15", "1990", "1990-03").
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d Document) writeJSON(buf *bytes.Buffer) error {
	switch d.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if d.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if math.IsNaN(d.number) || math.IsInf(d.number, 0) {
			return fmt.Errorf("unsupported number %v", d.number)
		}
		b, _ := json.Marshal(d.number)
		buf.Write(b)
	case KindString, KindDate, KindPartialDate:
		b, err := json.Marshal(d.Text())
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindMapping:
		buf.WriteByte('{')
		for i, f := range d.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range d.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unknown document kind %s", d.kind)
	}
	return nil
}

// UnmarshalJSON decodes JSON keeping object key order. Dates come back as
// strings; the JSON form does not carry the date kinds.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected trailing data after JSON document")
	}
	*d = v
	return nil
}

func readJSON(dec *json.Decoder) (Document, error) {
	tok, err := dec.Token()
	if err != nil {
		return Document{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Document{}, fmt.Errorf("parse number %q: %w", t, err)
		}
		return Number(n), nil
	case json.Delim:
		switch t {
		case '{':
			var fields []Field
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Document{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Document{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				value, err := readJSON(dec)
				if err != nil {
					return Document{}, err
				}
				fields = append(fields, Field{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return Document{}, err
			}
			return NewMapping(fields...)
		case '[':
			items := []Document{}
			for dec.More() {
				item, err := readJSON(dec)
				if err != nil {
					return Document{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Document{}, err
			}
			return Document{kind: KindSequence, items: items}, nil
		}
	}
	return Document{}, fmt.Errorf("unexpected JSON token %v", tok)
}
