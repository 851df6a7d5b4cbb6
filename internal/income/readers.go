package income

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// productIDPrefix marks POS line items that double as catalog product sales.
const productIDPrefix = "product-"

// parseDate accepts the timestamp shapes the store has been observed to hold.
// Malformed or empty values yield the zero time, which sorts last and falls
// outside every bounded date window.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// majorToMinor converts a major-unit float amount to integer minor units.
func majorToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type posTransaction struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	Date          string     `json:"date"`
	CustomerName  string     `json:"customerName"`
	PaymentMethod string     `json:"paymentMethod"`
	Staff         string     `json:"staff"`
	Items         []LineItem `json:"items"`
}

// readPOS extracts completed POS transactions. Amounts are already minor
// units in the store.
func readPOS(raw string, _ time.Time) ([]Record, error) {
	var txns []posTransaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		return nil, fmt.Errorf("pos transactions: %w", err)
	}
	var records []Record
	for _, t := range txns {
		if t.Status != "Completed" {
			continue
		}
		customer := t.CustomerName
		if customer == "" {
			customer = WalkInCustomer
		}
		records = append(records, Record{
			ID:            t.ID,
			Source:        SourcePOS,
			Description:   fmt.Sprintf("POS Sale #%s", t.ID),
			Amount:        t.Amount,
			Date:          parseDate(t.Date),
			Customer:      customer,
			PaymentMethod: PaymentMethod(t.PaymentMethod),
			Staff:         t.Staff,
			Items:         t.Items,
		})
	}
	return records, nil
}

// readProducts derives one record per catalog-product line item of each
// completed POS transaction. Line prices are already minor units.
func readProducts(raw string, _ time.Time) ([]Record, error) {
	var txns []posTransaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		return nil, fmt.Errorf("pos transactions: %w", err)
	}
	var records []Record
	for _, t := range txns {
		if t.Status != "Completed" {
			continue
		}
		customer := t.CustomerName
		if customer == "" {
			customer = WalkInCustomer
		}
		for _, item := range t.Items {
			if !strings.HasPrefix(item.ProductID, productIDPrefix) {
				continue
			}
			records = append(records, Record{
				ID:            fmt.Sprintf("%s-%s", t.ID, item.ProductID),
				Source:        SourceProduct,
				Description:   fmt.Sprintf("%s x%d", item.Name, item.Qty),
				Amount:        item.Price * item.Qty,
				Date:          parseDate(t.Date),
				Customer:      customer,
				PaymentMethod: PaymentMethod(t.PaymentMethod),
				Staff:         t.Staff,
			})
		}
	}
	return records, nil
}

type appointment struct {
	ID            string  `json:"id"`
	PaymentStatus string  `json:"paymentStatus"`
	BilledAmount  float64 `json:"billedAmount"`
	BilledAt      string  `json:"billedAt"`
	Date          string  `json:"date"`
	ServiceName   string  `json:"serviceName"`
	CustomerName  string  `json:"customerName"`
	StaffName     string  `json:"staffName"`
	PaymentMethod string  `json:"paymentMethod"`
}

// readAppointments extracts paid appointments, converting the major-unit
// billed amount to minor units.
func readAppointments(raw string, _ time.Time) ([]Record, error) {
	var appts []appointment
	if err := json.Unmarshal([]byte(raw), &appts); err != nil {
		return nil, fmt.Errorf("appointments: %w", err)
	}
	var records []Record
	for _, a := range appts {
		if a.PaymentStatus != "paid" || a.BilledAmount == 0 {
			continue
		}
		date := a.BilledAt
		if date == "" {
			date = a.Date
		}
		customer := a.CustomerName
		if customer == "" {
			customer = DefaultCustomer
		}
		desc := "Appointment"
		if a.ServiceName != "" {
			desc = fmt.Sprintf("Appointment - %s", a.ServiceName)
		}
		records = append(records, Record{
			ID:            a.ID,
			Source:        SourceAppointment,
			Description:   desc,
			Amount:        majorToMinor(a.BilledAmount),
			Date:          parseDate(date),
			Customer:      customer,
			PaymentMethod: PaymentMethod(a.PaymentMethod),
			Staff:         a.StaffName,
		})
	}
	return records, nil
}

type booking struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Amount        *float64 `json:"amount"`
	Date          string   `json:"date"`
	Service       string   `json:"service"`
	CustomerName  string   `json:"customerName"`
	PaymentMethod string   `json:"paymentMethod"`
	Staff         string   `json:"staff"`
}

// readBookings extracts confirmed and completed bookings. A booking without
// an amount still produces a zero-amount record.
func readBookings(raw string, _ time.Time) ([]Record, error) {
	var bookings []booking
	if err := json.Unmarshal([]byte(raw), &bookings); err != nil {
		return nil, fmt.Errorf("bookings: %w", err)
	}
	var records []Record
	for _, b := range bookings {
		if b.Status != "confirmed" && b.Status != "completed" {
			continue
		}
		var amount int64
		if b.Amount != nil {
			amount = majorToMinor(*b.Amount)
		}
		customer := b.CustomerName
		if customer == "" {
			customer = DefaultCustomer
		}
		desc := "Booking"
		if b.Service != "" {
			desc = fmt.Sprintf("Booking - %s", b.Service)
		}
		records = append(records, Record{
			ID:            b.ID,
			Source:        SourceBooking,
			Description:   desc,
			Amount:        amount,
			Date:          parseDate(b.Date),
			Customer:      customer,
			PaymentMethod: PaymentMethod(b.PaymentMethod),
			Staff:         b.Staff,
		})
	}
	return records, nil
}

type service struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	IsActive  *bool  `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// readServices extracts standalone services. Services are included unless
// explicitly deactivated; a service without a creation date is stamped with
// the current time.
func readServices(raw string, now time.Time) ([]Record, error) {
	var services []service
	if err := json.Unmarshal([]byte(raw), &services); err != nil {
		return nil, fmt.Errorf("services: %w", err)
	}
	var records []Record
	for _, s := range services {
		if s.IsActive != nil && !*s.IsActive {
			continue
		}
		date := parseDate(s.CreatedAt)
		if date.IsZero() {
			date = now
		}
		records = append(records, Record{
			ID:          s.ID,
			Source:      SourceService,
			Description: fmt.Sprintf("Service - %s", s.Name),
			Amount:      s.Price,
			Date:        date,
			Customer:    DefaultCustomer,
		})
	}
	return records, nil
}
