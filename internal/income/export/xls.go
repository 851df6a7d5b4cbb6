package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/tillstack/tillstack/internal/income"
)

// WriteXLS serialises a report as the HTML-table spreadsheet dialect Excel
// opens from an application/vnd.ms-excel attachment. Sections mirror the CSV
// exporter; only the framing differs.
func WriteXLS(w io.Writer, report income.Report, businessName string) error {
	var b strings.Builder
	b.WriteString(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel" xmlns="http://www.w3.org/TR/REC-html40">`)
	b.WriteString(`<head><meta charset="utf-8"><!--[if gte mso 9]><xml><x:ExcelWorkbook><x:ExcelWorksheets><x:ExcelWorksheet><x:Name>Income Report</x:Name><x:WorksheetOptions><x:DisplayGridlines/></x:WorksheetOptions></x:ExcelWorksheet></x:ExcelWorksheets></x:ExcelWorkbook></xml><![endif]--></head>`)
	b.WriteString("<body><table>")

	writeXLSRow(&b, "Business:", businessName)
	writeXLSRow(&b, "Report:", fmt.Sprintf("Income Report (%s)", report.Selector))
	writeXLSRow(&b, "Period:", report.PeriodLabel)
	writeXLSRow(&b, "Generated:", report.GeneratedAt.Format("02 Jan 2006 15:04"))
	writeXLSRow(&b, "Total:", money(report.Total))
	writeXLSRow(&b, "Transactions:", fmt.Sprintf("%d", report.TransactionCount))
	writeXLSRow(&b, "Average:", money(report.AverageTransaction))
	b.WriteString("<tr></tr>")

	if report.Breakdown != nil {
		writeXLSHeader(&b, "Source", "Amount", "Count", "Percentage")
		for _, src := range income.SourceOrder {
			bucket := report.Breakdown[src]
			writeXLSRow(&b,
				src.Label(),
				money(bucket.Amount),
				fmt.Sprintf("%d", bucket.Count),
				fmt.Sprintf("%.2f", percent(bucket.Amount, report.Total)),
			)
		}
		b.WriteString("<tr></tr>")
	}

	writeXLSHeader(&b, "Date", "Source", "Description", "Customer", "Amount", "Payment Method", "Staff")
	for _, rec := range report.Records {
		writeXLSRow(&b,
			rec.Date.Format("02 Jan 2006 15:04"),
			rec.Source.Label(),
			rec.Description,
			rec.Customer,
			money(rec.Amount),
			methodOrNA(rec.PaymentMethod),
			orNA(rec.Staff),
		)
	}

	b.WriteString("</table></body></html>")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeXLSRow(b *strings.Builder, cells ...string) {
	b.WriteString("<tr>")
	for _, cell := range cells {
		b.WriteString("<td>")
		b.WriteString(html.EscapeString(cell))
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
}

func writeXLSHeader(b *strings.Builder, cells ...string) {
	b.WriteString("<tr>")
	for _, cell := range cells {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(cell))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>")
}
