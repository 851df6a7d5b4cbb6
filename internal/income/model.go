// Package income implements the income aggregation and reporting engine: it
// reads raw business records from the key-value store, normalises them into a
// single collection, filters by date/source/payment method, and derives the
// statistics and reports the dashboard and exporters consume.
package income

import "time"

// Source identifies one of the five income-producing subsystems.
type Source string

const (
	SourcePOS         Source = "pos"
	SourceAppointment Source = "appointment"
	SourceBooking     Source = "booking"
	SourceProduct     Source = "product"
	SourceService     Source = "service"
)

// SourceOrder is the fixed reader-emission order. It also drives breakdown
// ordering in reports and exports.
var SourceOrder = []Source{SourcePOS, SourceAppointment, SourceBooking, SourceProduct, SourceService}

// Valid reports whether s names a known source.
func (s Source) Valid() bool {
	switch s {
	case SourcePOS, SourceAppointment, SourceBooking, SourceProduct, SourceService:
		return true
	}
	return false
}

// Label returns the human-readable source name used in reports.
func (s Source) Label() string {
	switch s {
	case SourcePOS:
		return "POS Sales"
	case SourceAppointment:
		return "Appointments"
	case SourceBooking:
		return "Bookings"
	case SourceProduct:
		return "Products"
	case SourceService:
		return "Services"
	}
	return string(s)
}

// PaymentMethod is one of the four recognised settlement methods. Records may
// carry other values; those count toward totals but join no method bucket.
type PaymentMethod string

const (
	PayCash         PaymentMethod = "Cash"
	PayUPI          PaymentMethod = "UPI"
	PayCard         PaymentMethod = "Card"
	PayBankTransfer PaymentMethod = "Bank Transfer"
)

// PaymentMethods lists the recognised methods in display order.
var PaymentMethods = []PaymentMethod{PayCash, PayUPI, PayCard, PayBankTransfer}

// Known reports whether m is one of the four recognised methods.
func (m PaymentMethod) Known() bool {
	switch m {
	case PayCash, PayUPI, PayCard, PayBankTransfer:
		return true
	}
	return false
}

// Customer sentinels applied at normalisation time when the underlying record
// carries no name.
const (
	WalkInCustomer  = "Walk-in Customer"
	DefaultCustomer = "Customer"
)

// LineItem is a POS transaction line, passed through opaquely on POS records.
type LineItem struct {
	ProductID string `json:"productId,omitempty"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Qty       int64  `json:"qty"`
}

// Record is the unified income entity produced by the source readers. Amount
// is always integer minor currency units; unit conversion happens at each
// reader's boundary, never downstream.
type Record struct {
	ID            string        `json:"id"`
	Source        Source        `json:"source"`
	Description   string        `json:"description"`
	Amount        int64         `json:"amount"`
	Date          time.Time     `json:"date"`
	Customer      string        `json:"customer"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	Staff         string        `json:"staff,omitempty"`
	Items         []LineItem    `json:"items,omitempty"`
}

// Bucket is a subtotal-and-count pair for one breakdown group.
type Bucket struct {
	Amount int64 `json:"amount"`
	Count  int   `json:"count"`
}

// Stats holds the aggregates derived from a filtered record collection.
// AverageTransaction is Total/TransactionCount in integer minor units; the
// sub-cent remainder is truncated rather than rounded. Zero when there are
// no transactions.
type Stats struct {
	Total              int64                    `json:"total"`
	TransactionCount   int                      `json:"transactionCount"`
	AverageTransaction int64                    `json:"averageTransaction"`
	Sources            map[Source]Bucket        `json:"sources"`
	Methods            map[PaymentMethod]Bucket `json:"methods"`
}

// Selector scopes a report to all sources or a single one.
type Selector string

// SelectorOverall requests the full breakdown report.
const SelectorOverall Selector = "overall"

// Valid reports whether sel is "overall" or a known source.
func (sel Selector) Valid() bool {
	return sel == SelectorOverall || Source(sel).Valid()
}

// Report is the ephemeral export/render payload. It is built on demand from
// the current filter and stats state and discarded after serialisation.
// AverageTransaction truncates like its Stats counterpart.
type Report struct {
	Selector           Selector                 `json:"selector"`
	PeriodLabel        string                   `json:"periodLabel"`
	GeneratedAt        time.Time                `json:"generatedAt"`
	Total              int64                    `json:"total"`
	TransactionCount   int                      `json:"transactionCount"`
	AverageTransaction int64                    `json:"averageTransaction"`
	Records            []Record                 `json:"records"`
	Breakdown          map[Source]Bucket        `json:"breakdown,omitempty"`
	PaymentBreakdown   map[PaymentMethod]Bucket `json:"paymentBreakdown,omitempty"`
}
