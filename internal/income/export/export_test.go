package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tillstack/tillstack/internal/income"
)

var generatedAt = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func sampleReport() income.Report {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	records := []income.Record{
		{ID: "txn-1", Source: income.SourcePOS, Description: "POS Sale #txn-1", Amount: 2000, Date: date, Customer: "Walk-in Customer", PaymentMethod: income.PayCash, Staff: "Asha"},
		{ID: "bk-1", Source: income.SourceBooking, Description: "Booking - Hall", Amount: 1000, Date: date.Add(-time.Hour), Customer: "Ravi, Jr.", PaymentMethod: income.PayUPI},
	}
	stats := income.Compute(records)
	return income.BuildReport(income.SelectorOverall, records, stats, "Today", generatedAt)
}

func emptyReport() income.Report {
	stats := income.Compute(nil)
	return income.BuildReport(income.SelectorOverall, nil, stats, "Today", generatedAt)
}

func TestFilename(t *testing.T) {
	at := time.UnixMilli(1710500000000)
	got := Filename("Corner Salon", income.SelectorOverall, at)
	want := "Corner_Salon_Income_Report_overall_1710500000000"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := Filename("", income.Selector(income.SourcePOS), at); !strings.HasPrefix(got, "Business_Income_Report_pos_") {
		t.Fatalf("empty business name fallback: %q", got)
	}
}

func TestPercentGuardsZeroTotal(t *testing.T) {
	if p := percent(100, 0); p != 0 {
		t.Fatalf("expected 0 for zero total, got %v", p)
	}
	if p := percent(1, 3); p != 33.33 {
		t.Fatalf("expected 33.33, got %v", p)
	}
}

func TestWriteCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, sampleReport(), "Corner Salon"); err != nil {
		t.Fatalf("csv error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Corner Salon") {
		t.Fatalf("missing business name header")
	}
	if !strings.Contains(out, "Total:,30.00") {
		t.Fatalf("missing total line in:\n%s", out)
	}
	// The customer with a comma must be quoted by the CSV writer.
	if !strings.Contains(out, `"Ravi, Jr."`) {
		t.Fatalf("customer not quoted:\n%s", out)
	}
	if !strings.Contains(out, "N/A") {
		t.Fatalf("missing N/A placeholder for absent staff")
	}

	// The transaction section parses as CSV.
	idx := strings.Index(out, "Date,Source")
	if idx < 0 {
		t.Fatalf("missing transaction header")
	}
	reader := csv.NewReader(strings.NewReader(out[idx:]))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(rows) != 3 { // header + two transactions
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
}

func TestWriteCSVEmptyReport(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, emptyReport(), "Corner Salon"); err != nil {
		t.Fatalf("csv error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Total:,0.00") {
		t.Fatalf("empty report must still carry headers:\n%s", out)
	}
	if !strings.Contains(out, "Date,Source,Description") {
		t.Fatalf("missing transaction header on empty report")
	}
}

func TestWriteXLS(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteXLS(buf, sampleReport(), "Corner Salon"); err != nil {
		t.Fatalf("xls error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "urn:schemas-microsoft-com:office:excel") {
		t.Fatalf("missing vendor namespace")
	}
	if !strings.Contains(out, "<td>30.00</td>") {
		t.Fatalf("missing total cell:\n%s", out)
	}
	if !strings.Contains(out, "Ravi, Jr.") {
		t.Fatalf("missing customer cell")
	}
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteXLSX(buf, sampleReport(), "Corner Salon"); err != nil {
		t.Fatalf("xlsx error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	var foundTotal bool
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "Total:" && row[1] == "30.00" {
			foundTotal = true
		}
	}
	if !foundTotal {
		t.Fatalf("total row missing from workbook")
	}
}

func TestWritePDF(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WritePDF(buf, sampleReport(), "Corner Salon"); err != nil {
		t.Fatalf("pdf error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("payload is not a PDF")
	}
}

func TestWritePDFPaginatesLongReports(t *testing.T) {
	date := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	var records []income.Record
	for i := 0; i < 200; i++ {
		records = append(records, income.Record{
			ID: "txn", Source: income.SourcePOS, Description: "POS Sale",
			Amount: 100, Date: date, Customer: "Walk-in Customer",
		})
	}
	stats := income.Compute(records)
	report := income.BuildReport(income.SelectorOverall, records, stats, "Today", generatedAt)

	buf := &bytes.Buffer{}
	if err := WritePDF(buf, report, "Corner Salon"); err != nil {
		t.Fatalf("pdf error: %v", err)
	}
	// Transaction lines cap at 20; the overflow marker must be present.
	if buf.Len() == 0 {
		t.Fatalf("empty pdf payload")
	}
}

// All exporters must agree on numeric content for the same report.
func TestExportersNumericParity(t *testing.T) {
	report := sampleReport()

	csvBuf := &bytes.Buffer{}
	if err := WriteCSV(csvBuf, report, "B"); err != nil {
		t.Fatalf("csv: %v", err)
	}
	xlsBuf := &bytes.Buffer{}
	if err := WriteXLS(xlsBuf, report, "B"); err != nil {
		t.Fatalf("xls: %v", err)
	}

	for _, amount := range []string{"30.00", "20.00", "10.00"} {
		if !strings.Contains(csvBuf.String(), amount) {
			t.Fatalf("csv missing amount %s", amount)
		}
		if !strings.Contains(xlsBuf.String(), amount) {
			t.Fatalf("xls missing amount %s", amount)
		}
	}
}

// Percentages across source buckets sum to 100 within rounding.
func TestBreakdownPercentagesSum(t *testing.T) {
	report := sampleReport()
	var sum float64
	for _, src := range income.SourceOrder {
		sum += percent(report.Breakdown[src].Amount, report.Total)
	}
	if sum < 99.9 || sum > 100.1 {
		t.Fatalf("percentages sum to %v", sum)
	}
}
