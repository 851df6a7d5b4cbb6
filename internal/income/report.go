package income

import "time"

// BuildReport assembles a report from the already-filtered collection and its
// stats. An overall report attaches the full source and payment breakdowns.
// A single-source report re-derives its totals from the filtered set rather
// than reusing the global stats, so it reflects only that source even when
// the active source filter was "all".
func BuildReport(sel Selector, records []Record, stats Stats, periodLabel string, generatedAt time.Time) Report {
	report := Report{
		Selector:    sel,
		PeriodLabel: periodLabel,
		GeneratedAt: generatedAt,
	}

	if sel == SelectorOverall {
		report.Total = stats.Total
		report.TransactionCount = stats.TransactionCount
		report.AverageTransaction = stats.AverageTransaction
		report.Records = records
		report.Breakdown = stats.Sources
		report.PaymentBreakdown = stats.Methods
		return report
	}

	source := Source(sel)
	scoped := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.Source == source {
			scoped = append(scoped, rec)
		}
	}
	report.Records = scoped
	for _, rec := range scoped {
		report.Total += rec.Amount
	}
	report.TransactionCount = len(scoped)
	if report.TransactionCount > 0 {
		report.AverageTransaction = report.Total / int64(report.TransactionCount)
	}
	return report
}
