package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tillstack/tillstack/internal/income"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// csvStreamer writes CSV rows through a buffered writer, flushing
// periodically, and supports raw metadata lines above the tabular sections.
type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.flush()
	}
	return nil
}

func (s *csvStreamer) flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	s.pendingLines = 0
	return s.buf.Flush()
}

// WriteCSV serialises a report as CSV: metadata header lines, the source
// breakdown when present, then one row per transaction. An empty report
// still produces the header sections.
func WriteCSV(w io.Writer, report income.Report, businessName string) error {
	s := newCSVStreamer(w)

	comments := []string{
		fmt.Sprintf("Business:,%s", businessName),
		fmt.Sprintf("Report:,Income Report (%s)", report.Selector),
		fmt.Sprintf("Period:,%s", report.PeriodLabel),
		fmt.Sprintf("Generated:,%s", report.GeneratedAt.Format("02 Jan 2006 15:04")),
		fmt.Sprintf("Total:,%s", money(report.Total)),
		fmt.Sprintf("Transactions:,%d", report.TransactionCount),
		fmt.Sprintf("Average:,%s", money(report.AverageTransaction)),
		"",
	}
	for _, line := range comments {
		if err := s.writeComment(line); err != nil {
			return err
		}
	}

	if report.Breakdown != nil {
		if err := s.writeRow([]string{"Source", "Amount", "Count", "Percentage"}); err != nil {
			return err
		}
		for _, src := range income.SourceOrder {
			bucket := report.Breakdown[src]
			if err := s.writeRow([]string{
				src.Label(),
				money(bucket.Amount),
				fmt.Sprintf("%d", bucket.Count),
				fmt.Sprintf("%.2f", percent(bucket.Amount, report.Total)),
			}); err != nil {
				return err
			}
		}
		if err := s.flush(); err != nil {
			return err
		}
		if err := s.writeComment(""); err != nil {
			return err
		}
	}

	if err := s.writeRow([]string{"Date", "Source", "Description", "Customer", "Amount", "Payment Method", "Staff"}); err != nil {
		return err
	}
	for _, rec := range report.Records {
		if err := s.writeRow([]string{
			rec.Date.Format("02 Jan 2006 15:04"),
			rec.Source.Label(),
			rec.Description,
			rec.Customer,
			money(rec.Amount),
			methodOrNA(rec.PaymentMethod),
			orNA(rec.Staff),
		}); err != nil {
			return err
		}
	}
	return s.flush()
}
