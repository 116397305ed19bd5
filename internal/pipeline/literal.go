package pipeline

import "idcheck/internal/document"

type replaceLiteral struct {
	match       document.Document
	replacement document.Document
}

// ReplaceLiteral replaces every scalar equal to match with replacement.
// Mapping keys are never touched. A non-scalar match never matches.
func ReplaceLiteral(match, replacement document.Document) Step {
	return replaceLiteral{match: match, replacement: replacement}
}

// ReplaceString is ReplaceLiteral for a case-sensitive string sentinel,
// e.g. ReplaceString("YES", document.Bool(true)).
func ReplaceString(match string, replacement document.Document) Step {
	return ReplaceLiteral(document.String(match), replacement)
}

func (replaceLiteral) Name() string { return "replace_literal" }

func (s replaceLiteral) Apply(in document.Document) (document.Document, error) {
	if !s.match.IsScalar() {
		return in, nil
	}
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping, document.KindSequence:
			return n, nil
		default:
			if n.Equal(s.match) {
				return s.replacement, nil
			}
			return n, nil
		}
	})
}
