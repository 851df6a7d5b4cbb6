// Package invoice holds the pure formatting helpers of the printable invoice:
// amount-in-words rendering and GST totals. Income totals stay tax-inclusive;
// the tax split exists only for invoice display.
package invoice

import "strings"

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// twoDigits renders 0-99.
func twoDigits(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	word := tensWords[n/10]
	if n%10 != 0 {
		word += " " + onesWords[n%10]
	}
	return word
}

// threeDigits renders 0-999.
func threeDigits(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, twoDigits(n))
	}
	return strings.Join(parts, " ")
}

// numberInWords renders a non-negative integer in the Indian numbering
// system (thousand, lakh, crore).
func numberInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	var parts []string
	if crore := n / 1_00_00_000; crore > 0 {
		parts = append(parts, numberInWords(crore)+" Crore")
		n %= 1_00_00_000
	}
	if lakh := n / 1_00_000; lakh > 0 {
		parts = append(parts, twoDigits(lakh)+" Lakh")
		n %= 1_00_000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, twoDigits(thousand)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, threeDigits(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders a minor-unit amount as rupees and paise in words,
// e.g. 12345045 -> "One Lakh Twenty Three Thousand Four Hundred Fifty Rupees
// and Forty Five Paise Only".
func AmountInWords(minor int64) string {
	if minor < 0 {
		minor = -minor
	}
	rupees := minor / 100
	paise := minor % 100

	var b strings.Builder
	b.WriteString(numberInWords(rupees))
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(twoDigits(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}
