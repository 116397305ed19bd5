// Package xmlcodec converts between XML text and document.Document.
//
// Decoding follows the attribute/text conventions the normalization steps
// expect:
//   - the result is a mapping holding the root element under its name
//   - attributes become "@name" keys, namespace prefixes included ("@xmlns:xsi")
//   - an element with only character data becomes a string; an empty element
//     becomes null
//   - character data next to attributes or child elements goes under "#text"
//   - repeated child elements become a sequence at the position of the first
//     occurrence
//
// Encoding is the inverse for the subset of shapes decoding produces, with
// mapping order preserved.
package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"idcheck/internal/document"
)

const (
	attrPrefix = "@"
	textKey    = "#text"
)

var (
	// ErrNoRoot is returned when the input holds no root element.
	ErrNoRoot = errors.New("xml: no root element")
	// ErrMultipleRoots is returned when the input holds more than one root element.
	ErrMultipleRoots = errors.New("xml: multiple root elements")
	// ErrMismatchedTag is returned when an end tag does not close the open element.
	ErrMismatchedTag = errors.New("xml: mismatched end tag")
)

type child struct {
	name   string
	values []document.Document
}

type frame struct {
	name     string
	attrs    []document.Field
	children []child
	index    map[string]int
	text     strings.Builder
}

func (f *frame) add(name string, v document.Document) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[name]; ok {
		f.children[i].values = append(f.children[i].values, v)
		return
	}
	f.index[name] = len(f.children)
	f.children = append(f.children, child{name: name, values: []document.Document{v}})
}

func (f *frame) build() (document.Document, error) {
	text := strings.TrimSpace(f.text.String())
	if len(f.attrs) == 0 && len(f.children) == 0 {
		if text == "" {
			return document.Null(), nil
		}
		return document.String(text), nil
	}

	fields := make([]document.Field, 0, len(f.attrs)+len(f.children)+1)
	fields = append(fields, f.attrs...)
	for _, c := range f.children {
		if len(c.values) == 1 {
			fields = append(fields, document.F(c.name, c.values[0]))
			continue
		}
		fields = append(fields, document.F(c.name, document.Seq(c.values...)))
	}
	if text != "" {
		fields = append(fields, document.F(textKey, document.String(text)))
	}
	doc, err := document.NewMapping(fields...)
	if err != nil {
		return document.Document{}, fmt.Errorf("xml: element <%s>: %w", f.name, err)
	}
	return doc, nil
}

// Unmarshal decodes data into a Document.
func Unmarshal(data []byte) (document.Document, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one XML document from r.
func Decode(r io.Reader) (document.Document, error) {
	dec := xml.NewDecoder(r)

	var (
		stack []*frame
		root  *document.Document
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return document.Document{}, fmt.Errorf("xml: decode: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return document.Document{}, ErrMultipleRoots
			}
			f := &frame{name: qualified(t.Name)}
			for _, a := range t.Attr {
				f.attrs = append(f.attrs, document.F(attrPrefix+qualified(a.Name), document.String(a.Value)))
			}
			stack = append(stack, f)

		case xml.EndElement:
			if len(stack) == 0 {
				return document.Document{}, fmt.Errorf("%w: </%s>", ErrMismatchedTag, qualified(t.Name))
			}
			top := stack[len(stack)-1]
			if name := qualified(t.Name); name != top.name {
				return document.Document{}, fmt.Errorf("%w: <%s> closed by </%s>", ErrMismatchedTag, top.name, name)
			}
			stack = stack[:len(stack)-1]

			v, err := top.build()
			if err != nil {
				return document.Document{}, err
			}
			if len(stack) == 0 {
				doc := document.Map(document.F(top.name, v))
				root = &doc
				continue
			}
			stack[len(stack)-1].add(top.name, v)

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if len(stack) > 0 {
		return document.Document{}, fmt.Errorf("xml: decode: unclosed element <%s>: %w", stack[len(stack)-1].name, io.ErrUnexpectedEOF)
	}
	if root == nil {
		return document.Document{}, ErrNoRoot
	}
	return *root, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
