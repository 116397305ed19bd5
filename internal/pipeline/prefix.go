package pipeline

import (
	"strings"

	"idcheck/internal/document"
)

type expandPrefixedKeys struct {
	newPrefix string
	oldPrefix string
}

// ExpandPrefixedKeys nests keys starting with oldPrefix under a sub-mapping
// keyed newPrefix, with oldPrefix removed:
//
//	{street_name: "Main", street_number: "12", city: "X"}
//	→ {street: {name: "Main", number: "12"}, city: "X"}
//
// The sub-mapping takes the position of the first moved key. When newPrefix
// already holds a mapping the suffixes are merged into it; when it holds
// anything else, or a suffix would collide, the mapping is left unchanged.
func ExpandPrefixedKeys(newPrefix, oldPrefix string) Step {
	return expandPrefixedKeys{newPrefix: newPrefix, oldPrefix: oldPrefix}
}

func (expandPrefixedKeys) Name() string { return "expand_prefixed_keys" }

func (s expandPrefixedKeys) Apply(in document.Document) (document.Document, error) {
	if s.oldPrefix == "" {
		return in, nil
	}
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			return s.expand(n), nil
		default:
			return n, nil
		}
	})
}

func (s expandPrefixedKeys) expand(m document.Document) document.Document {
	existing, hasExisting := m.Get(s.newPrefix)
	if hasExisting && !existing.IsMapping() {
		return m
	}

	var (
		nested []document.Field
		out    []document.Field
		slot   = -1
	)
	if hasExisting {
		nested = existing.Fields()
	}
	for _, f := range m.Fields() {
		suffix, moved := strings.CutPrefix(f.Key, s.oldPrefix)
		switch {
		case f.Key == s.newPrefix:
			slot = len(out)
			out = append(out, document.Field{})
		case moved && suffix != "":
			if slot < 0 && !hasExisting {
				slot = len(out)
				out = append(out, document.Field{})
			}
			nested = append(nested, document.F(suffix, f.Value))
		default:
			out = append(out, f)
		}
	}
	if slot < 0 || len(nested) == existing.Len() {
		return m
	}

	sub, err := document.NewMapping(nested...)
	if err != nil {
		return m
	}
	out[slot] = document.F(s.newPrefix, sub)
	expanded, err := document.NewMapping(out...)
	if err != nil {
		return m
	}
	return expanded
}
