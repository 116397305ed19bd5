package pipeline

import (
	"strings"

	"idcheck/internal/document"
)

const (
	// AttributeSigil prefixes keys the XML codec produces for attributes.
	AttributeSigil = "@"
	// TextKey holds the character data of an element that also has
	// attributes or children.
	TextKey = "#text"

	codecSigil  = "#"
	foldTextKey = "text"
)

type removeXMLNoise struct{}

// RemoveXMLNoise strips codec artifacts: attribute keys are dropped, an
// element reduced to its text folds into that text, and an element that only
// carried attributes becomes null. Text mixed with child elements is kept
// under "text" unless that key is already taken.
func RemoveXMLNoise() Step { return removeXMLNoise{} }

func (removeXMLNoise) Name() string { return "remove_xml_noise" }

func (removeXMLNoise) Apply(in document.Document) (document.Document, error) {
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			return stripNoise(n)
		default:
			return n, nil
		}
	})
}

func stripNoise(m document.Document) (document.Document, error) {
	var (
		kept    []document.Field
		text    document.Document
		hasText bool
		hasFold bool
	)
	for _, f := range m.Fields() {
		switch {
		case strings.HasPrefix(f.Key, AttributeSigil):
		case f.Key == TextKey:
			text, hasText = f.Value, true
		case strings.HasPrefix(f.Key, codecSigil):
		default:
			if f.Key == foldTextKey {
				hasFold = true
			}
			kept = append(kept, f)
		}
	}

	switch {
	case hasText && len(kept) == 0:
		return text, nil
	case hasText && !hasFold:
		kept = append(kept, document.F(foldTextKey, text))
	case len(kept) == 0 && m.Len() > 0:
		return document.Null(), nil
	}
	return document.NewMapping(kept...)
}
