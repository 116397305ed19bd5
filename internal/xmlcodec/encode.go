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

// ErrUnencodable is returned for Document shapes that have no XML form.
var ErrUnencodable = errors.New("xml: document cannot be encoded")

const (
	trueText  = "YES"
	falseText = "NO"
)

// Marshal encodes doc, which must be a mapping holding exactly one root
// element, as XML text preceded by the standard header.
func Marshal(doc document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes doc to w. Mapping order is preserved. Booleans are written as
// YES and NO, the vendor's literals, so decoding and normalizing an encoded
// document yields the same booleans.
func Encode(w io.Writer, doc document.Document) error {
	if !doc.IsMapping() || doc.Len() != 1 {
		return fmt.Errorf("%w: root must be a mapping with one element, got %s with %d entries", ErrUnencodable, doc.Kind(), doc.Len())
	}
	root := doc.Fields()[0]

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := writeElement(&buf, root.Key, root.Value); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeElement(buf *bytes.Buffer, name string, v document.Document) error {
	if err := checkName(name); err != nil {
		return err
	}

	switch v.Kind() {
	case document.KindSequence:
		for _, item := range v.Items() {
			if item.IsSequence() {
				return fmt.Errorf("%w: nested sequence under <%s>", ErrUnencodable, name)
			}
			if err := writeElement(buf, name, item); err != nil {
				return err
			}
		}
		return nil

	case document.KindNull:
		buf.WriteString("<" + name + "/>")
		return nil

	case document.KindMapping:
		return writeMapping(buf, name, v)

	default:
		buf.WriteString("<" + name + ">")
		escape(buf, scalarText(v))
		buf.WriteString("</" + name + ">")
		return nil
	}
}

func writeMapping(buf *bytes.Buffer, name string, m document.Document) error {
	var (
		children []document.Field
		text     *document.Document
	)
	buf.WriteString("<" + name)
	for _, f := range m.Fields() {
		switch {
		case strings.HasPrefix(f.Key, attrPrefix):
			attr := strings.TrimPrefix(f.Key, attrPrefix)
			if err := checkName(attr); err != nil {
				return err
			}
			if !f.Value.IsScalar() {
				return fmt.Errorf("%w: attribute %s of <%s> is a %s", ErrUnencodable, attr, name, f.Value.Kind())
			}
			buf.WriteString(" " + attr + `="`)
			escape(buf, scalarText(f.Value))
			buf.WriteString(`"`)
		case f.Key == textKey:
			if !f.Value.IsScalar() {
				return fmt.Errorf("%w: text of <%s> is a %s", ErrUnencodable, name, f.Value.Kind())
			}
			v := f.Value
			text = &v
		default:
			children = append(children, f)
		}
	}

	if len(children) == 0 && (text == nil || text.IsNull()) {
		buf.WriteString("/>")
		return nil
	}
	buf.WriteString(">")
	if text != nil {
		escape(buf, scalarText(*text))
	}
	for _, c := range children {
		if err := writeElement(buf, c.Key, c.Value); err != nil {
			return err
		}
	}
	buf.WriteString("</" + name + ">")
	return nil
}

func scalarText(v document.Document) string {
	if b, ok := v.AsBool(); ok {
		if b {
			return trueText
		}
		return falseText
	}
	return v.Text()
}

func escape(buf *bytes.Buffer, s string) {
	// EscapeText only fails when the writer does; bytes.Buffer never does.
	_ = xml.EscapeText(buf, []byte(s))
}

func checkName(name string) error {
	if name == "" || strings.HasPrefix(name, attrPrefix) || strings.HasPrefix(name, "#") ||
		strings.ContainsAny(name, " \t\r\n<>&\"'=/") {
		return fmt.Errorf("%w: invalid name %q", ErrUnencodable, name)
	}
	return nil
}
