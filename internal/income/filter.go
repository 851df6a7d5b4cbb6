package income

import (
	"fmt"
	"time"
)

// RangeKind names one of the five date-range variants.
type RangeKind string

const (
	RangeToday  RangeKind = "today"
	RangeWeek   RangeKind = "week"
	RangeMonth  RangeKind = "month"
	RangeYear   RangeKind = "year"
	RangeCustom RangeKind = "custom"
)

// Valid reports whether k names a known range variant.
func (k RangeKind) Valid() bool {
	switch k {
	case RangeToday, RangeWeek, RangeMonth, RangeYear, RangeCustom:
		return true
	}
	return false
}

// DateRange selects the reporting window. From/To apply to custom ranges
// only; either may be zero, leaving that side of the window open.
type DateRange struct {
	Kind RangeKind
	From time.Time
	To   time.Time
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// Window resolves the range to an inclusive [start, end] pair relative to
// now. A custom range with a zero From leaves the window open at the start
// (the zero time precedes every record date, sentinel dates included); a zero
// To closes it at the end of today.
func (r DateRange) Window(now time.Time) (start, end time.Time) {
	switch r.Kind {
	case RangeWeek:
		return startOfDay(now.AddDate(0, 0, -6)), endOfDay(now)
	case RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), endOfDay(now)
	case RangeYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), endOfDay(now)
	case RangeCustom:
		start = time.Time{}
		if !r.From.IsZero() {
			start = startOfDay(r.From)
		}
		end = endOfDay(now)
		if !r.To.IsZero() {
			end = endOfDay(r.To)
		}
		return start, end
	default: // today
		return startOfDay(now), endOfDay(now)
	}
}

// Label returns the human period label used by reports and exports.
func (r DateRange) Label() string {
	switch r.Kind {
	case RangeWeek:
		return "This Week"
	case RangeMonth:
		return "This Month"
	case RangeYear:
		return "This Year"
	case RangeCustom:
		from := "Beginning"
		if !r.From.IsZero() {
			from = r.From.Format("02 Jan 2006")
		}
		to := "Today"
		if !r.To.IsZero() {
			to = r.To.Format("02 Jan 2006")
		}
		return fmt.Sprintf("%s to %s", from, to)
	default:
		return "Today"
	}
}

// Filter is the conjunction of the date window and the optional source and
// payment-method equality predicates. Zero values mean "all".
type Filter struct {
	Range  DateRange
	Source Source
	Method PaymentMethod
}

// Apply returns the records passing every predicate, preserving input order.
// The window is resolved once per call from the injected now.
func Apply(records []Record, f Filter, now time.Time) []Record {
	start, end := f.Range.Window(now)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		if f.Source != "" && rec.Source != f.Source {
			continue
		}
		if f.Method != "" && rec.PaymentMethod != f.Method {
			continue
		}
		out = append(out, rec)
	}
	return out
}
