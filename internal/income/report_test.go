package income

import (
	"testing"
	"time"
)

func TestBuildReportOverall(t *testing.T) {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	records := []Record{
		rec("a", SourcePOS, 1000, date, PayCash),
		rec("b", SourceBooking, 500, date, PayUPI),
	}
	stats := Compute(records)
	generated := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	report := BuildReport(SelectorOverall, records, stats, "Today", generated)
	if report.Total != 1500 || report.TransactionCount != 2 {
		t.Fatalf("unexpected totals %+v", report)
	}
	if report.Breakdown == nil || report.PaymentBreakdown == nil {
		t.Fatalf("overall report must carry both breakdowns")
	}
	if len(report.Records) != 2 {
		t.Fatalf("overall report must carry the full record list")
	}
	if report.PeriodLabel != "Today" || !report.GeneratedAt.Equal(generated) {
		t.Fatalf("label/timestamp not propagated: %+v", report)
	}
}

func TestBuildReportSingleSourceRederives(t *testing.T) {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	// Filtered with source=all; the booking report must still only count
	// bookings.
	records := []Record{
		rec("a", SourcePOS, 1000, date, PayCash),
		rec("b", SourceBooking, 500, date, PayUPI),
		rec("c", SourceBooking, 300, date, PayCash),
	}
	stats := Compute(records)

	report := BuildReport(Selector(SourceBooking), records, stats, "Today", date)
	if report.Total != 800 {
		t.Fatalf("expected booking total 800, got %d", report.Total)
	}
	if report.TransactionCount != 2 {
		t.Fatalf("expected 2 bookings, got %d", report.TransactionCount)
	}
	if report.AverageTransaction != 400 {
		t.Fatalf("expected average 400, got %d", report.AverageTransaction)
	}
	if report.Breakdown != nil || report.PaymentBreakdown != nil {
		t.Fatalf("single-source report must not carry breakdowns")
	}
	for _, r := range report.Records {
		if r.Source != SourceBooking {
			t.Fatalf("foreign record in single-source report: %+v", r)
		}
	}
}

func TestBuildReportEmpty(t *testing.T) {
	stats := Compute(nil)
	report := BuildReport(SelectorOverall, nil, stats, "Today", time.Now())
	if report.Total != 0 || report.TransactionCount != 0 || report.AverageTransaction != 0 {
		t.Fatalf("empty report must zero everything, got %+v", report)
	}
}
