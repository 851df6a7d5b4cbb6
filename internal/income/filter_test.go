package income

import (
	"testing"
	"time"
)

func rec(id string, src Source, amount int64, date time.Time, method PaymentMethod) Record {
	return Record{ID: id, Source: src, Amount: amount, Date: date, PaymentMethod: method}
}

func TestWindowResolution(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	cases := []struct {
		kind      RangeKind
		wantStart time.Time
		wantEnd   time.Time
	}{
		{RangeToday, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC)},
		{RangeWeek, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC)},
		{RangeMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC)},
		{RangeYear, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC)},
	}
	for _, tc := range cases {
		start, end := DateRange{Kind: tc.kind}.Window(now)
		if !start.Equal(tc.wantStart) || !end.Equal(tc.wantEnd) {
			t.Fatalf("%s: got [%v, %v], want [%v, %v]", tc.kind, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestApplyDateWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	records := []Record{
		rec("today", SourcePOS, 100, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), PayCash),
		rec("yesterday", SourcePOS, 200, time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC), PayCash),
		rec("lastyear", SourcePOS, 300, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), PayCash),
	}

	got := Apply(records, Filter{Range: DateRange{Kind: RangeToday}}, now)
	if len(got) != 1 || got[0].ID != "today" {
		t.Fatalf("today filter: got %+v", got)
	}

	got = Apply(records, Filter{Range: DateRange{Kind: RangeYear}}, now)
	if len(got) != 2 {
		t.Fatalf("year filter: expected 2, got %d", len(got))
	}
}

func TestApplySourceAndMethodFilters(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	records := []Record{
		rec("a", SourcePOS, 100, date, PayCash),
		rec("b", SourceBooking, 200, date, PayUPI),
		rec("c", SourcePOS, 300, date, PayUPI),
	}

	got := Apply(records, Filter{Range: DateRange{Kind: RangeToday}, Source: SourcePOS}, now)
	if len(got) != 2 {
		t.Fatalf("source filter: expected 2, got %d", len(got))
	}

	got = Apply(records, Filter{Range: DateRange{Kind: RangeToday}, Source: SourcePOS, Method: PayUPI}, now)
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("conjunction filter: got %+v", got)
	}

	// Output preserves input order.
	got = Apply(records, Filter{Range: DateRange{Kind: RangeToday}}, now)
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("order not preserved: %+v", got)
	}
}

func TestApplyCustomRangeOnlyTo(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []Record{
		rec("sentinel", SourceService, 100, time.Time{}, ""),
		rec("old", SourcePOS, 200, time.Date(1969, 12, 1, 0, 0, 0, 0, time.UTC), PayCash),
		rec("inrange", SourcePOS, 300, time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), PayCash),
		rec("late", SourcePOS, 400, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), PayCash),
	}
	f := Filter{Range: DateRange{
		Kind: RangeCustom,
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}}

	got := Apply(records, f, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for _, r := range got {
		if r.ID == "late" {
			t.Fatalf("record after the window leaked through")
		}
	}
}

func TestApplyCustomRangeOnlyFrom(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []Record{
		rec("old", SourcePOS, 100, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PayCash),
		rec("new", SourcePOS, 200, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), PayCash),
	}
	f := Filter{Range: DateRange{
		Kind: RangeCustom,
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}}

	got := Apply(records, f, now)
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("expected only the newer record, got %+v", got)
	}
}

func TestRangeLabels(t *testing.T) {
	cases := map[string]DateRange{
		"Today":      {Kind: RangeToday},
		"This Week":  {Kind: RangeWeek},
		"This Month": {Kind: RangeMonth},
		"This Year":  {Kind: RangeYear},
		"01 Jan 2024 to 31 Jan 2024": {
			Kind: RangeCustom,
			From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		"Beginning to 31 Jan 2024": {
			Kind: RangeCustom,
			To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	for want, r := range cases {
		if got := r.Label(); got != want {
			t.Fatalf("label for %s: got %q, want %q", r.Kind, got, want)
		}
	}
}
