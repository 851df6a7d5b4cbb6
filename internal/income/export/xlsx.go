package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tillstack/tillstack/internal/income"
)

const xlsxSheet = "Income Report"

// WriteXLSX serialises a report as a native XLSX workbook. Numeric content
// matches the CSV and XLS exporters cell for cell.
func WriteXLSX(w io.Writer, report income.Report, businessName string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("export: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: delete default sheet: %w", err)
	}

	row := 1
	writeRow := func(cells ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return err
		}
		row++
		return nil
	}

	header := [][]interface{}{
		{"Business:", businessName},
		{"Report:", fmt.Sprintf("Income Report (%s)", report.Selector)},
		{"Period:", report.PeriodLabel},
		{"Generated:", report.GeneratedAt.Format("02 Jan 2006 15:04")},
		{"Total:", money(report.Total)},
		{"Transactions:", report.TransactionCount},
		{"Average:", money(report.AverageTransaction)},
		{},
	}
	for _, cells := range header {
		if err := writeRow(cells...); err != nil {
			return fmt.Errorf("export: xlsx header: %w", err)
		}
	}

	if report.Breakdown != nil {
		if err := writeRow("Source", "Amount", "Count", "Percentage"); err != nil {
			return err
		}
		for _, src := range income.SourceOrder {
			bucket := report.Breakdown[src]
			if err := writeRow(src.Label(), money(bucket.Amount), bucket.Count,
				percent(bucket.Amount, report.Total)); err != nil {
				return err
			}
		}
		if err := writeRow(); err != nil {
			return err
		}
	}

	if err := writeRow("Date", "Source", "Description", "Customer", "Amount", "Payment Method", "Staff"); err != nil {
		return err
	}
	for _, rec := range report.Records {
		if err := writeRow(
			rec.Date.Format("02 Jan 2006 15:04"),
			rec.Source.Label(),
			rec.Description,
			rec.Customer,
			money(rec.Amount),
			methodOrNA(rec.PaymentMethod),
			orNA(rec.Staff),
		); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}
