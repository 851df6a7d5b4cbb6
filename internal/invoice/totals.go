package invoice

import "math"

// DefaultGSTRate is the combined GST rate applied to invoice subtotals,
// split evenly between CGST and SGST.
const DefaultGSTRate = 0.18

// Line is one invoice line item. Price is minor units.
type Line struct {
	Name  string
	Price int64
	Qty   int64
}

// Totals is the computed invoice footer. All values are minor units.
type Totals struct {
	Subtotal int64
	CGST     int64
	SGST     int64
	Grand    int64
}

// ComputeTotals sums the lines and splits GST evenly into CGST and SGST.
// Each half is rounded independently, matching the printed invoice.
func ComputeTotals(lines []Line, gstRate float64) Totals {
	if gstRate <= 0 {
		gstRate = DefaultGSTRate
	}
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Price * line.Qty
	}
	half := int64(math.Round(float64(subtotal) * gstRate / 2))
	return Totals{
		Subtotal: subtotal,
		CGST:     half,
		SGST:     half,
		Grand:    subtotal + 2*half,
	}
}
