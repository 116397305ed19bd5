package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"idcheck/internal/document"
)

// ErrKeyCollision is returned when two keys of one mapping normalize to the
// same snake_case key.
var ErrKeyCollision = errors.New("key collision after case normalization")

type snakeCaseKeys struct{}

// SnakeCaseKeys renames every mapping key from camelCase or PascalCase to
// snake_case. Acronym runs stay together: "USOneValidate" becomes
// "us_one_validate" and "SSN" becomes "ssn".
func SnakeCaseKeys() Step { return snakeCaseKeys{} }

func (snakeCaseKeys) Name() string { return "snake_case_keys" }

func (snakeCaseKeys) Apply(in document.Document) (document.Document, error) {
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			return renameKeys(n)
		default:
			return n, nil
		}
	})
}

func renameKeys(m document.Document) (document.Document, error) {
	fields := m.Fields()
	from := make(map[string]string, len(fields))
	for i, f := range fields {
		key := ToSnakeCase(f.Key)
		if prev, ok := from[key]; ok {
			return document.Document{}, fmt.Errorf("%w: %q and %q both map to %q", ErrKeyCollision, prev, f.Key, key)
		}
		from[key] = f.Key
		fields[i].Key = key
	}
	return document.NewMapping(fields...)
}

// ToSnakeCase converts a camelCase, PascalCase or acronym-prefixed identifier
// to snake_case.
func ToSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
