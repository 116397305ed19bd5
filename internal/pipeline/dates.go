package pipeline

import (
	"time"

	"idcheck/internal/document"
)

const (
	dayKey   = "day"
	monthKey = "month"
	yearKey  = "year"
)

type parseFullDate struct{}

// ParseFullDate replaces {day, month, year} mappings with a date scalar.
// All three components must be present, numeric and form a calendar date;
// anything else is left unchanged for ParsePartialDate or the caller.
func ParseFullDate() Step { return parseFullDate{} }

func (parseFullDate) Name() string { return "parse_full_date" }

func (parseFullDate) Apply(in document.Document) (document.Document, error) {
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			parts, ok := dateParts(n)
			if !ok || len(parts) != 3 {
				return n, nil
			}
			day, okD := parts[dayKey].Int()
			month, okM := parts[monthKey].Int()
			year, okY := parts[yearKey].Int()
			if !okD || !okM || !okY {
				return n, nil
			}
			d, err := document.NewDate(year, time.Month(month), day)
			if err != nil {
				return n, nil
			}
			return document.FromDate(d), nil
		default:
			return n, nil
		}
	})
}

type parsePartialDate struct{}

// ParsePartialDate replaces {year} and {year, month} mappings with a partial
// date scalar whose unknown parts stay absent. Null components count as
// missing. Shapes without a year, or with a day, are left unchanged.
func ParsePartialDate() Step { return parsePartialDate{} }

func (parsePartialDate) Name() string { return "parse_partial_date" }

func (parsePartialDate) Apply(in document.Document) (document.Document, error) {
	return in.Rewrite(func(n document.Document) (document.Document, error) {
		switch n.Kind() {
		case document.KindMapping:
			parts, ok := dateParts(n)
			if !ok {
				return n, nil
			}
			yearDoc, hasYear := parts[yearKey]
			_, hasDay := parts[dayKey]
			if !hasYear || hasDay {
				return n, nil
			}
			year, ok := yearDoc.Int()
			if !ok {
				return n, nil
			}
			var (
				p   document.PartialDate
				err error
			)
			if monthDoc, hasMonth := parts[monthKey]; hasMonth {
				month, ok := monthDoc.Int()
				if !ok {
					return n, nil
				}
				p, err = document.YearMonth(year, time.Month(month))
			} else {
				p, err = document.YearOnly(year)
			}
			if err != nil {
				return n, nil
			}
			return document.FromPartialDate(p), nil
		default:
			return n, nil
		}
	})
}

// dateParts returns the non-null date components of m. It fails when m is
// empty or holds any key other than day, month and year.
func dateParts(m document.Document) (map[string]document.Document, bool) {
	if m.Len() == 0 {
		return nil, false
	}
	parts := make(map[string]document.Document, 3)
	for _, f := range m.Fields() {
		switch f.Key {
		case dayKey, monthKey, yearKey:
			if !f.Value.IsNull() {
				parts[f.Key] = f.Value
			}
		default:
			return nil, false
		}
	}
	return parts, len(parts) > 0
}
