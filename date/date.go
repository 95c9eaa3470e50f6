// Package date provides the calendar arithmetic used by curves, schedules
// and the lattice: serial dates, tenor offsets and day-count fractions.
package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/pricer/errs"
)

// Layout is the on-disk date format used by every input file.
const Layout = "2006-01-02"

// epoch is serial day 0, chosen so serials match spreadsheet date numbers.
var epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date is a calendar day stored as a serial day number. Serials are
// directly comparable and subtract to a day count.
type Date int

// New returns the date for the given calendar day. Out-of-range days are
// normalised the way time.Date does it.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime truncates t to its calendar day.
func FromTime(t time.Time) Date {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Date((d.Unix() - epoch.Unix()) / 86400)
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", s, errs.ErrConfiguration)
	}
	return FromTime(t), nil
}

// Time converts d back to a UTC midnight timestamp.
func (d Date) Time() time.Time {
	return epoch.AddDate(0, 0, int(d))
}

// Serial returns the serial day number.
func (d Date) Serial() int { return int(d) }

func (d Date) String() string {
	return d.Time().Format(Layout)
}

// Sub returns the number of days from o to d.
func (d Date) Sub(o Date) int { return int(d - o) }

func (d Date) Before(o Date) bool { return d < o }
func (d Date) After(o Date) bool  { return d > o }

// AddDays shifts d by n calendar days.
func (d Date) AddDays(n int) Date { return d + Date(n) }

// AddMonths behaves like a spreadsheet EDATE: the day of month is kept and
// clamped to the last day of the target month.
func (d Date) AddMonths(n int) Date {
	t := d.Time()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return FromTime(time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC))
}

// AddTenor resolves a relative tenor such as "ON", "2D", "1W", "3M" or
// "10Y" against d.
func (d Date) AddTenor(tenor string) (Date, error) {
	t := strings.ToUpper(strings.TrimSpace(tenor))
	if t == "ON" || t == "O/N" {
		return d.AddDays(1), nil
	}
	if len(t) < 2 {
		return 0, fmt.Errorf("unsupported tenor %q: %w", tenor, errs.ErrConfiguration)
	}

	n, err := strconv.Atoi(t[:len(t)-1])
	if err != nil {
		return 0, fmt.Errorf("unsupported tenor %q: %w", tenor, errs.ErrConfiguration)
	}

	switch t[len(t)-1] {
	case 'D':
		return d.AddDays(n), nil
	case 'W':
		return d.AddDays(7 * n), nil
	case 'M':
		return d.AddMonths(n), nil
	case 'Y':
		return d.AddMonths(12 * n), nil
	default:
		return 0, fmt.Errorf("unsupported tenor unit in %q: %w", tenor, errs.ErrConfiguration)
	}
}
