package pipeline

import "idcheck/internal/document"

type guaranteeList struct {
	fields map[string]struct{}
}

// GuaranteeList makes the named fields sequences wherever they occur. XML
// collapses a one-element list to the bare element; this restores the list.
// A null value becomes an empty sequence. Applying it twice is the same as
// applying it once.
func GuaranteeList(fields ...string) Step {
	return guaranteeList{fields: fieldSet(fields)}
}

func (guaranteeList) Name() string { return "guarantee_list" }

func (s guaranteeList) Apply(in document.Document) (document.Document, error) {
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			return mapFields(n, s.fields, asSequence)
		default:
			return n, nil
		}
	})
}

func asSequence(v document.Document) document.Document {
	switch v.Kind() {
	case document.KindSequence:
		return v
	case document.KindNull:
		return document.Seq()
	default:
		return document.Seq(v)
	}
}

type compressWrapperList struct {
	fields map[string]struct{}
}

// CompressWrapperList removes the singleton container element XML puts
// around list content (<errors><error/>...</errors>). For each named field:
//   - a single-key mapping whose value is a sequence is replaced by that sequence
//   - a one-element sequence holding a single-key mapping, the shape
//     GuaranteeList leaves behind, is replaced by the mapping's value as a
//     sequence
//
// Only one wrapper level is removed.
func CompressWrapperList(fields ...string) Step {
	return compressWrapperList{fields: fieldSet(fields)}
}

func (compressWrapperList) Name() string { return "compress_wrapper_list" }

func (s compressWrapperList) Apply(in document.Document) (document.Document, error) {
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			return mapFields(n, s.fields, unwrapList)
		default:
			return n, nil
		}
	})
}

func unwrapList(v document.Document) document.Document {
	switch v.Kind() {
	case document.KindMapping:
		if inner, ok := soleValue(v); ok && inner.IsSequence() {
			return inner
		}
	case document.KindSequence:
		if v.Len() != 1 {
			return v
		}
		only, _ := v.Index(0)
		if inner, ok := soleValue(only); ok {
			return asSequence(inner)
		}
	}
	return v
}

func soleValue(m document.Document) (document.Document, bool) {
	if !m.IsMapping() || m.Len() != 1 {
		return document.Document{}, false
	}
	return m.Fields()[0].Value, true
}
