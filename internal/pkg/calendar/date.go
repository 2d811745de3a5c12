package calendar

import (
	"errors"
	"strconv"
	"time"
)

const layout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid calendar date, expected YYYY-MM-DD")
	ErrInvalidRange = errors.New("end date must not be before start date")
)

// Date is a timezone-free calendar day. It is never converted through a
// time.Location, so "2025-03-05" stays 2025-03-05 on every host.
type Date struct {
	year  int
	month time.Month
	day   int
}

func New(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, ErrInvalidDate
	}
	return Date{year: year, month: month, day: day}, nil
}

func MustNew(year int, month time.Month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse reads the year, month and day components of a YYYY-MM-DD string
// directly instead of going through time.Parse.
func Parse(s string) (Date, error) {
	if len(s) != len(layout) || s[4] != '-' || s[7] != '-' {
		return Date{}, ErrInvalidDate
	}
	year, err := atoiDigits(s[0:4])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	month, err := atoiDigits(s[5:7])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	day, err := atoiDigits(s[8:10])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return New(year, time.Month(month), day)
}

func atoiDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidDate
		}
	}
	return strconv.Atoi(s)
}

// FromTime takes the calendar fields of t in t's own location.
func FromTime(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Today returns the current calendar day as observed in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(now.In(loc))
}

func (d Date) Year() int          { return d.year }
func (d Date) Month() time.Month  { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) IsZero() bool       { return d.year == 0 && d.month == 0 && d.day == 0 }
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d == o }

func (d Date) Compare(o Date) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (d Date) AddDays(n int) Date {
	return FromTime(time.Date(d.year, d.month, d.day+n, 0, 0, 0, 0, time.UTC))
}

// DaysUntil returns the number of days from d to o (negative when o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

// Time returns midnight UTC of the day, the representation used for DATE columns.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(layout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
