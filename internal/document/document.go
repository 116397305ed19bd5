// Package document models a decoded XML payload as a recursive value.
//
// A Document is one of:
//   - a scalar: null, string, bool, number, full date or partial date
//   - a mapping: ordered, unique string keys to Documents
//   - a sequence: ordered Documents
//
// Documents are immutable values. Constructors copy the slices they are given
// and accessors hand out copies, so a Document can be shared between
// goroutines and reused across pipeline runs without coordination. The zero
// value is the null scalar.
package document

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Document.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindDate
	KindPartialDate
	KindMapping
	KindSequence
)

var kindNames = [...]string{
	KindNull:        "null",
	KindString:      "string",
	KindBool:        "bool",
	KindNumber:      "number",
	KindDate:        "date",
	KindPartialDate: "partial_date",
	KindMapping:     "mapping",
	KindSequence:    "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ErrDuplicateKey is returned when a mapping would hold the same key twice.
var ErrDuplicateKey = errors.New("duplicate mapping key")

// Field is one key/value entry of a mapping.
type Field struct {
	Key   string
	Value Document
}

// F is shorthand for building a Field.
func F(key string, value Document) Field {
	return Field{Key: key, Value: value}
}

// Document is the recursive scalar/mapping/sequence value.
type Document struct {
	kind    Kind
	str     string
	boolean bool
	number  float64
	date    Date
	partial PartialDate
	fields  []Field
	items   []Document
}

// Null returns the null scalar.
func Null() Document { return Document{} }

// String returns a string scalar.
func String(s string) Document { return Document{kind: KindString, str: s} }

// Bool returns a boolean scalar.
func Bool(b bool) Document { return Document{kind: KindBool, boolean: b} }

// Number returns a numeric scalar.
func Number(n float64) Document { return Document{kind: KindNumber, number: n} }

// FromDate returns a full-date scalar.
func FromDate(d Date) Document { return Document{kind: KindDate, date: d} }

// FromPartialDate returns a partial-date scalar.
func FromPartialDate(p PartialDate) Document { return Document{kind: KindPartialDate, partial: p} }

// NewMapping builds a mapping holding fields in the given order.
// Returns ErrDuplicateKey if a key occurs more than once.
func NewMapping(fields ...Field) (Document, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Key]; ok {
			return Document{}, fmt.Errorf("%w: %q", ErrDuplicateKey, f.Key)
		}
		seen[f.Key] = struct{}{}
	}
	return Document{kind: KindMapping, fields: append([]Field{}, fields...)}, nil
}

// Map builds a mapping, panicking on duplicate keys.
// Use for literals whose keys are known to be unique.
func Map(fields ...Field) Document {
	d, err := NewMapping(fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// Seq builds a sequence holding items in the given order.
func Seq(items ...Document) Document {
	return Document{kind: KindSequence, items: append([]Document{}, items...)}
}

// Kind reports the variant held by d.
func (d Document) Kind() Kind { return d.kind }

// IsNull reports whether d is the null scalar.
func (d Document) IsNull() bool { return d.kind == KindNull }

// IsMapping reports whether d is a mapping.
func (d Document) IsMapping() bool { return d.kind == KindMapping }

// IsSequence reports whether d is a sequence.
func (d Document) IsSequence() bool { return d.kind == KindSequence }

// IsScalar reports whether d is neither a mapping nor a sequence.
func (d Document) IsScalar() bool { return d.kind != KindMapping && d.kind != KindSequence }

func (d Document) AsString() (string, bool) { return d.str, d.kind == KindString }

func (d Document) AsBool() (bool, bool) { return d.boolean, d.kind == KindBool }

func (d Document) AsNumber() (float64, bool) { return d.number, d.kind == KindNumber }

func (d Document) AsDate() (Date, bool) { return d.date, d.kind == KindDate }

func (d Document) AsPartialDate() (PartialDate, bool) { return d.partial, d.kind == KindPartialDate }

// Text renders a scalar as text. Null, mappings and sequences render as "".
func (d Document) Text() string {
	switch d.kind {
	case KindString:
		return d.str
	case KindBool:
		return strconv.FormatBool(d.boolean)
	case KindNumber:
		return strconv.FormatFloat(d.number, 'f', -1, 64)
	case KindDate:
		return d.date.String()
	case KindPartialDate:
		return d.partial.String()
	default:
		return ""
	}
}

// Len returns the number of fields of a mapping or items of a sequence.
func (d Document) Len() int {
	switch d.kind {
	case KindMapping:
		return len(d.fields)
	case KindSequence:
		return len(d.items)
	default:
		return 0
	}
}

// Fields returns a copy of the mapping's fields in order.
func (d Document) Fields() []Field {
	if d.kind != KindMapping {
		return nil
	}
	return append([]Field{}, d.fields...)
}

// Keys returns the mapping's keys in order.
func (d Document) Keys() []string {
	if d.kind != KindMapping {
		return nil
	}
	keys := make([]string, len(d.fields))
	for i, f := range d.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key in a mapping.
func (d Document) Get(key string) (Document, bool) {
	if d.kind != KindMapping {
		return Document{}, false
	}
	for _, f := range d.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Document{}, false
}

// Lookup walks nested mappings following path.
func (d Document) Lookup(path ...string) (Document, bool) {
	cur := d
	for _, key := range path {
		next, ok := cur.Get(key)
		if !ok {
			return Document{}, false
		}
		cur = next
	}
	return cur, true
}

// Items returns a copy of the sequence's items in order.
func (d Document) Items() []Document {
	if d.kind != KindSequence {
		return nil
	}
	return append([]Document{}, d.items...)
}

// Index returns the i-th item of a sequence.
func (d Document) Index(i int) (Document, bool) {
	if d.kind != KindSequence || i < 0 || i >= len(d.items) {
		return Document{}, false
	}
	return d.items[i], true
}

// With returns a copy of the mapping with key set to value. An existing key
// keeps its position; a new key is appended. Non-mappings are treated as empty.
func (d Document) With(key string, value Document) Document {
	fields := make([]Field, 0, len(d.fields)+1)
	replaced := false
	if d.kind == KindMapping {
		for _, f := range d.fields {
			if f.Key == key {
				f.Value = value
				replaced = true
			}
			fields = append(fields, f)
		}
	}
	if !replaced {
		fields = append(fields, Field{Key: key, Value: value})
	}
	return Document{kind: KindMapping, fields: fields}
}

// Without returns a copy of the mapping with key removed.
func (d Document) Without(key string) Document {
	if d.kind != KindMapping {
		return d
	}
	fields := make([]Field, 0, len(d.fields))
	for _, f := range d.fields {
		if f.Key != key {
			fields = append(fields, f)
		}
	}
	return Document{kind: KindMapping, fields: fields}
}

// Equal reports deep equality, including mapping order.
func (d Document) Equal(o Document) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case KindNull:
		return true
	case KindString:
		return d.str == o.str
	case KindBool:
		return d.boolean == o.boolean
	case KindNumber:
		return d.number == o.number
	case KindDate:
		return d.date == o.date
	case KindPartialDate:
		return d.partial == o.partial
	case KindMapping:
		if len(d.fields) != len(o.fields) {
			return false
		}
		for i := range d.fields {
			if d.fields[i].Key != o.fields[i].Key || !d.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(d.items) != len(o.items) {
			return false
		}
		for i := range d.items {
			if !d.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders d as compact JSON for logs and test failures.
func (d Document) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(b)
}

// Rewrite rebuilds d bottom-up: children are rewritten first, then fn is
// applied to the rebuilt node. fn sees every node, scalars included.
func (d Document) Rewrite(fn func(Document) (Document, error)) (Document, error) {
	switch d.kind {
	case KindMapping:
		fields := make([]Field, len(d.fields))
		for i, f := range d.fields {
			v, err := f.Value.Rewrite(fn)
			if err != nil {
				return Document{}, err
			}
			fields[i] = Field{Key: f.Key, Value: v}
		}
		return fn(Document{kind: KindMapping, fields: fields})
	case KindSequence:
		items := make([]Document, len(d.items))
		for i, item := range d.items {
			v, err := item.Rewrite(fn)
			if err != nil {
				return Document{}, err
			}
			items[i] = v
		}
		return fn(Document{kind: KindSequence, items: items})
	default:
		return fn(d)
	}
}
