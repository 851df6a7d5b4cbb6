package income

// Compute reduces a filtered record collection to its aggregates. Records
// with an unrecognised payment method contribute to Total but to no method
// bucket. The average guards the empty collection, so it never divides by
// zero.
func Compute(records []Record) Stats {
	stats := Stats{
		Sources: make(map[Source]Bucket, len(SourceOrder)),
		Methods: make(map[PaymentMethod]Bucket, len(PaymentMethods)),
	}
	for _, src := range SourceOrder {
		stats.Sources[src] = Bucket{}
	}
	for _, m := range PaymentMethods {
		stats.Methods[m] = Bucket{}
	}

	for _, rec := range records {
		stats.Total += rec.Amount
		bucket := stats.Sources[rec.Source]
		bucket.Amount += rec.Amount
		bucket.Count++
		stats.Sources[rec.Source] = bucket

		if rec.PaymentMethod.Known() {
			mb := stats.Methods[rec.PaymentMethod]
			mb.Amount += rec.Amount
			mb.Count++
			stats.Methods[rec.PaymentMethod] = mb
		}
	}

	stats.TransactionCount = len(records)
	if stats.TransactionCount > 0 {
		stats.AverageTransaction = stats.Total / int64(stats.TransactionCount)
	}
	return stats
}
