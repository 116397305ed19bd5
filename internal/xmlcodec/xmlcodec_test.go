package xmlcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	d "idcheck/internal/document"
)

func TestDecodeConventions(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<BGC version="4.14" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <response>
    <errors/>
  </response>
  <product>
    <USOneTrace version="1">
      <order><SSN>123456789</SSN></order>
      <response>
        <records>
          <record><firstName>Ann</firstName></record>
          <record><firstName>Bo</firstName></record>
        </records>
        <note kind="x">hello</note>
      </response>
    </USOneTrace>
  </product>
</BGC>`

	doc, err := Unmarshal([]byte(src))
	require.NoError(t, err)

	want := d.Map(d.F("BGC", d.Map(
		d.F("@version", d.String("4.14")),
		d.F("@xmlns:xsi", d.String("http://www.w3.org/2001/XMLSchema-instance")),
		d.F("response", d.Map(d.F("errors", d.Null()))),
		d.F("product", d.Map(d.F("USOneTrace", d.Map(
			d.F("@version", d.String("1")),
			d.F("order", d.Map(d.F("SSN", d.String("123456789")))),
			d.F("response", d.Map(
				d.F("records", d.Map(d.F("record", d.Seq(
					d.Map(d.F("firstName", d.String("Ann"))),
					d.Map(d.F("firstName", d.String("Bo"))),
				)))),
				d.F("note", d.Map(d.F("@kind", d.String("x")), d.F("#text", d.String("hello")))),
			)),
		)))),
	)))
	assert.True(t, want.Equal(doc), "want %s\n got %s", want, doc)
}

func TestDecodeRepeatedElementsKeepFirstPosition(t *testing.T) {
	doc, err := Unmarshal([]byte(`<r><a>1</a><b>2</b><a>3</a></r>`))
	require.NoError(t, err)

	r, ok := doc.Get("r")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
	a, _ := r.Get("a")
	assert.Equal(t, 2, a.Len())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{name: "empty", src: ``, err: ErrNoRoot},
		{name: "only header", src: `<?xml version="1.0"?>`, err: ErrNoRoot},
		{name: "two roots", src: `<a/><b/>`, err: ErrMultipleRoots},
		{name: "mismatched", src: `<a><b></a></b>`, err: ErrMismatchedTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.src))
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Unmarshal([]byte(`<a><b>`))
	require.Error(t, err)
}

func TestEncodePreservesOrder(t *testing.T) {
	doc := d.Map(d.F("BGC", d.Map(
		d.F("@version", d.String("4.14")),
		d.F("login", d.Map(
			d.F("user", d.String("u&1")),
			d.F("password", d.String("p<w")),
		)),
		d.F("product", d.Map(d.F("flag", d.Bool(true)), d.F("empty", d.Null()))),
		d.F("item", d.Seq(d.String("a"), d.String("b"))),
	)))

	out, err := Marshal(doc)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text,
		`<BGC version="4.14"><login><user>u&amp;1</user><password>p&lt;w</password></login>`+
			`<product><flag>YES</flag><empty/></product><item>a</item><item>b</item></BGC>`)
	assert.Less(t, strings.Index(text, "<login>"), strings.Index(text, "<product>"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := d.Map(d.F("root", d.Map(
		d.F("@id", d.String("7")),
		d.F("name", d.String("x")),
		d.F("rows", d.Map(d.F("row", d.Seq(d.String("1"), d.String("2"))))),
		d.F("blank", d.Null()),
		d.F("#text", d.String("tail")),
	)))

	out, err := Marshal(doc)
	require.NoError(t, err)
	back, err := Unmarshal(out)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back), "want %s\n got %s", doc, back)
}

func TestEncodeRejectsUnencodableShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  d.Document
	}{
		{name: "scalar root", doc: d.String("x")},
		{name: "two roots", doc: d.Map(d.F("a", d.Null()), d.F("b", d.Null()))},
		{name: "nested sequence", doc: d.Map(d.F("a", d.Seq(d.Seq(d.String("x")))))},
		{name: "mapping attribute", doc: d.Map(d.F("a", d.Map(d.F("@x", d.Map()))))},
		{name: "bad name", doc: d.Map(d.F("a b", d.Null()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.doc)
			require.ErrorIs(t, err, ErrUnencodable)
		})
	}
}
