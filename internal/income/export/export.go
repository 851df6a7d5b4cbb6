// Package export serialises income reports to CSV, spreadsheet and PDF
// payloads. Exporters never mutate the report; percentages are computed ad
// hoc and guarded against a zero total.
package export

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/tillstack/tillstack/internal/income"
)

// MIME types of the produced payloads.
const (
	MIMECSV  = "text/csv"
	MIMEXLS  = "application/vnd.ms-excel"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPDF  = "application/pdf"
)

var printer = message.NewPrinter(language.English)

// Filename composes the shared export filename (without extension):
// {businessName}_Income_Report_{selector}_{unixMillis}. Whitespace in the
// business name becomes underscores so the attachment header stays unquoted.
func Filename(businessName string, sel income.Selector, at time.Time) string {
	name := strings.Join(strings.Fields(businessName), "_")
	if name == "" {
		name = "Business"
	}
	return fmt.Sprintf("%s_Income_Report_%s_%d", name, sel, at.UnixMilli())
}

// money renders a minor-unit amount as a grouped major-unit figure with two
// fraction digits, e.g. 123456 -> "1,234.56".
func money(minor int64) string {
	return printer.Sprint(number.Decimal(float64(minor)/100,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// percent returns amount/total*100 rounded to two decimals, 0 when total is
// zero.
func percent(amount, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(amount)/float64(total)*10000) / 100
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func methodOrNA(m income.PaymentMethod) string {
	return orNA(string(m))
}
