package income

import (
	"testing"
	"time"
)

func TestComputeTotalsAndBuckets(t *testing.T) {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	records := []Record{
		rec("a", SourcePOS, 1000, date, PayCash),
		rec("b", SourcePOS, 500, date, PayUPI),
		rec("c", SourceAppointment, 2000, date, PayCard),
		rec("d", SourceService, 300, date, "Cheque"), // unknown method
		rec("e", SourceBooking, 200, date, ""),
	}

	stats := Compute(records)
	if stats.Total != 4000 {
		t.Fatalf("expected total 4000, got %d", stats.Total)
	}
	if stats.TransactionCount != 5 {
		t.Fatalf("expected count 5, got %d", stats.TransactionCount)
	}
	if stats.AverageTransaction != 800 {
		t.Fatalf("expected average 800, got %d", stats.AverageTransaction)
	}

	// Source buckets partition the total.
	var sourceSum int64
	for _, src := range SourceOrder {
		sourceSum += stats.Sources[src].Amount
	}
	if sourceSum != stats.Total {
		t.Fatalf("source subtotals %d do not sum to total %d", sourceSum, stats.Total)
	}

	// Unknown/missing methods stay out of every method bucket.
	var methodSum int64
	for _, m := range PaymentMethods {
		methodSum += stats.Methods[m].Amount
	}
	if methodSum != 3500 {
		t.Fatalf("expected method buckets to hold 3500, got %d", methodSum)
	}
	if stats.Methods[PayCash].Count != 1 || stats.Methods[PayCash].Amount != 1000 {
		t.Fatalf("unexpected cash bucket %+v", stats.Methods[PayCash])
	}
}

func TestComputeAverageTruncates(t *testing.T) {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	stats := Compute([]Record{
		rec("a", SourcePOS, 999, date, PayCash),
		rec("b", SourcePOS, 0, date, PayCash),
	})
	// 999/2 truncates; the half cent is dropped, not rounded up.
	if stats.AverageTransaction != 499 {
		t.Fatalf("expected truncated average 499, got %d", stats.AverageTransaction)
	}
}

func TestComputeEmptyCollection(t *testing.T) {
	stats := Compute(nil)
	if stats.Total != 0 || stats.TransactionCount != 0 || stats.AverageTransaction != 0 {
		t.Fatalf("empty collection must zero everything, got %+v", stats)
	}
	// Buckets exist for every source and method even when empty.
	for _, src := range SourceOrder {
		if _, ok := stats.Sources[src]; !ok {
			t.Fatalf("missing bucket for %s", src)
		}
	}
	for _, m := range PaymentMethods {
		if _, ok := stats.Methods[m]; !ok {
			t.Fatalf("missing bucket for %s", m)
		}
	}
}
