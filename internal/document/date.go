package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate indicates date components that do not form a calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a full calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the components against the calendar (February 30 is rejected).
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 || year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// PartialDate is a date whose month may be unknown. The day is always unknown;
// a date with a known day is a Date.
type PartialDate struct {
	year     int
	month    time.Month
	hasMonth bool
}

// YearOnly returns a partial date carrying only the year.
func YearOnly(year int) (PartialDate, error) {
	if year < 1 || year > 9999 {
		return PartialDate{}, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}
	return PartialDate{year: year}, nil
}

// YearMonth returns a partial date carrying year and month.
func YearMonth(year int, month time.Month) (PartialDate, error) {
	p, err := YearOnly(year)
	if err != nil {
		return PartialDate{}, err
	}
	if month < time.January || month > time.December {
		return PartialDate{}, fmt.Errorf("%w: month %d", ErrInvalidDate, int(month))
	}
	p.month = month
	p.hasMonth = true
	return p, nil
}

func (p PartialDate) Year() int { return p.year }

// Month returns the month and whether it is known.
func (p PartialDate) Month() (time.Month, bool) { return p.month, p.hasMonth }

func (p PartialDate) String() string {
	if p.hasMonth {
		return fmt.Sprintf("%04d-%02d", p.year, int(p.month))
	}
	return fmt.Sprintf("%04d", p.year)
}

// Int reads a whole number from a numeric scalar or a string of digits.
func (d Document) Int() (int, bool) {
	switch d.kind {
	case KindNumber:
		n := int(d.number)
		if float64(n) != d.number {
			return 0, false
		}
		return n, true
	case KindString:
		s := strings.TrimSpace(d.str)
		if s == "" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
