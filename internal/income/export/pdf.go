package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/tillstack/tillstack/internal/income"
)

const (
	pdfLineHeight   = 6.0
	pdfBottomMargin = 270.0 // A4 portrait, mm; past this the cursor starts a new page
	pdfMaxTxnLines  = 20
)

// pdfWriter tracks a vertical cursor and breaks pages past the bottom
// threshold.
type pdfWriter struct {
	doc *gofpdf.Fpdf
}

func (p *pdfWriter) line(text string) {
	if p.doc.GetY() > pdfBottomMargin {
		p.doc.AddPage()
	}
	p.doc.CellFormat(0, pdfLineHeight, text, "", 1, "L", false, 0, "")
}

func (p *pdfWriter) heading(text string) {
	p.doc.SetFont("Helvetica", "B", 12)
	p.line(text)
	p.doc.SetFont("Helvetica", "", 10)
}

// WritePDF serialises a report as a paginated PDF: title, summary block,
// source breakdown, payment breakdown (overall only) and the 20 most recent
// transactions.
func WritePDF(w io.Writer, report income.Report, businessName string) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.AddPage()
	p := &pdfWriter{doc: doc}

	doc.SetFont("Helvetica", "B", 16)
	p.line(fmt.Sprintf("%s - Income Report", businessName))
	doc.SetFont("Helvetica", "", 10)
	p.line(fmt.Sprintf("Scope: %s", report.Selector))
	p.line(fmt.Sprintf("Period: %s", report.PeriodLabel))
	p.line(fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("02 Jan 2006 15:04")))
	p.line("")

	p.heading("Summary")
	p.line(fmt.Sprintf("Total Income: %s", money(report.Total)))
	p.line(fmt.Sprintf("Transactions: %d", report.TransactionCount))
	p.line(fmt.Sprintf("Average Transaction: %s", money(report.AverageTransaction)))
	p.line("")

	if report.Breakdown != nil {
		p.heading("Income by Source")
		for _, src := range income.SourceOrder {
			bucket := report.Breakdown[src]
			p.line(fmt.Sprintf("%s: %s (%d transactions, %.2f%%)",
				src.Label(), money(bucket.Amount), bucket.Count,
				percent(bucket.Amount, report.Total)))
		}
		p.line("")
	}

	if report.PaymentBreakdown != nil {
		p.heading("Income by Payment Method")
		for _, method := range income.PaymentMethods {
			bucket := report.PaymentBreakdown[method]
			p.line(fmt.Sprintf("%s: %s (%d transactions)",
				method, money(bucket.Amount), bucket.Count))
		}
		p.line("")
	}

	p.heading("Recent Transactions")
	limit := len(report.Records)
	if limit > pdfMaxTxnLines {
		limit = pdfMaxTxnLines
	}
	for _, rec := range report.Records[:limit] {
		p.line(fmt.Sprintf("%s  %s  %s  %s  %s",
			rec.Date.Format("02 Jan 2006"),
			rec.Source.Label(),
			rec.Description,
			rec.Customer,
			money(rec.Amount)))
	}
	if len(report.Records) > limit {
		p.line(fmt.Sprintf("... and %d more", len(report.Records)-limit))
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}
