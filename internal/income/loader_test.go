package income

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tillstack/tillstack/internal/platform/kv"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLoader(t *testing.T, seed map[string]string) *Loader {
	t.Helper()
	store := kv.NewMemoryStore()
	ctx := context.Background()
	for key, value := range seed {
		if err := store.Set(ctx, key, value); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	return NewLoader(store, testLogger()).WithNow(func() time.Time { return testNow })
}

func TestLoadMergesNewestFirst(t *testing.T) {
	loader := testLoader(t, map[string]string{
		kv.KeyPOSTransactions: `[{"id":"txn-1","status":"Completed","amount":100,"date":"2024-01-10T10:00:00Z"}]`,
		kv.KeyAppointments:    `[{"id":"apt-1","paymentStatus":"paid","billedAmount":2,"billedAt":"2024-01-12"}]`,
		kv.BookingsKey("ws1"): `[{"id":"bk-1","status":"confirmed","amount":3,"date":"2024-01-11"}]`,
	})

	records := loader.Load(context.Background(), "ws1")
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Date.After(records[i-1].Date) {
			t.Fatalf("records not sorted descending at %d", i)
		}
	}
	if records[0].ID != "apt-1" || records[1].ID != "bk-1" || records[2].ID != "txn-1" {
		t.Fatalf("unexpected order: %s %s %s", records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestLoadTieBreakPreservesReaderOrder(t *testing.T) {
	// Same timestamp everywhere; the stable sort must keep the fixed reader
	// order pos, appointment, booking, product, service.
	loader := testLoader(t, map[string]string{
		kv.KeyPOSTransactions: `[{"id":"txn-1","status":"Completed","amount":100,"date":"2024-01-10T10:00:00Z",
			"items":[{"productId":"product-1","name":"Oil","price":50,"qty":1}]}]`,
		kv.KeyAppointments:    `[{"id":"apt-1","paymentStatus":"paid","billedAmount":2,"billedAt":"2024-01-10T10:00:00Z"}]`,
		kv.BookingsKey("ws1"): `[{"id":"bk-1","status":"confirmed","amount":3,"date":"2024-01-10T10:00:00Z"}]`,
		kv.KeyServices:        `[{"id":"svc-1","name":"Cut","price":500,"createdAt":"2024-01-10T10:00:00Z"}]`,
	})

	records := loader.Load(context.Background(), "ws1")
	want := []Source{SourcePOS, SourceAppointment, SourceBooking, SourceProduct, SourceService}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, src := range want {
		if records[i].Source != src {
			t.Fatalf("position %d: expected %s, got %s", i, src, records[i].Source)
		}
	}
}

func TestLoadFaultIsolation(t *testing.T) {
	// Appointments are malformed; the other sources must still load.
	loader := testLoader(t, map[string]string{
		kv.KeyPOSTransactions: `[{"id":"txn-1","status":"Completed","amount":100,"date":"2024-01-10"}]`,
		kv.KeyAppointments:    `{broken`,
		kv.KeyServices:        `[{"id":"svc-1","name":"Cut","price":500,"createdAt":"2024-01-09"}]`,
	})

	records := loader.Load(context.Background(), "ws1")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Source == SourceAppointment {
			t.Fatalf("malformed source leaked a record: %+v", rec)
		}
	}
}

func TestLoadEmptyStore(t *testing.T) {
	loader := testLoader(t, nil)
	records := loader.Load(context.Background(), "ws1")
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d", len(records))
	}
}
