package income

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/tillstack/tillstack/internal/platform/kv"
)

// sourceReader pairs a source with its store key and extraction function.
// Readers run in the fixed SourceOrder; the normaliser's stable sort relies
// on that order for equal-timestamp ties.
type sourceReader struct {
	source Source
	key    func(workspaceID string) string
	read   func(raw string, now time.Time) ([]Record, error)
}

func fixedKey(key string) func(string) string {
	return func(string) string { return key }
}

var sourceReaders = []sourceReader{
	{SourcePOS, fixedKey(kv.KeyPOSTransactions), readPOS},
	{SourceAppointment, fixedKey(kv.KeyAppointments), readAppointments},
	{SourceBooking, kv.BookingsKey, readBookings},
	{SourceProduct, fixedKey(kv.KeyPOSTransactions), readProducts},
	{SourceService, fixedKey(kv.KeyServices), readServices},
}

// Loader reads all five sources from the store and produces the merged,
// newest-first record collection.
type Loader struct {
	store  kv.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader wires a Loader against a store.
func NewLoader(store kv.Store, logger *slog.Logger) *Loader {
	return &Loader{store: store, logger: logger, now: time.Now}
}

// WithNow overrides the loader clock for testing.
func (l *Loader) WithNow(fn func() time.Time) *Loader {
	if fn != nil {
		l.now = fn
	}
	return l
}

// Load runs every reader in order and merges the results. Each source is
// fault-isolated: a missing or malformed collection yields zero records for
// that source and never fails the load as a whole.
func (l *Loader) Load(ctx context.Context, workspaceID string) []Record {
	now := l.now()
	var merged []Record
	for _, reader := range sourceReaders {
		raw, err := l.store.Get(ctx, reader.key(workspaceID))
		if err != nil {
			if !errors.Is(err, kv.ErrNotFound) {
				l.logger.Warn("income: source read failed",
					slog.String("source", string(reader.source)),
					slog.Any("error", err))
			}
			continue
		}
		records, err := reader.read(raw, now)
		if err != nil {
			l.logger.Warn("income: source parse failed",
				slog.String("source", string(reader.source)),
				slog.Any("error", err))
			continue
		}
		merged = append(merged, records...)
	}
	sortByDateDesc(merged)
	return merged
}

// sortByDateDesc orders records newest first. The sort is stable so records
// with equal timestamps keep reader-emission order.
func sortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}
