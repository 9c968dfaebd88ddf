package duphash

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// portfolioRecords simulates a portfolio of producers x strategies where
// every hash is reported by `width` consecutive identities.
func portfolioRecords(hashes, producers, strategies, width int) []Record {
	n := producers * strategies
	records := make([]Record, 0, hashes*width)
	for h := 0; h < hashes; h++ {
		hash := fmt.Sprintf("%x", h)
		for k := 0; k < width; k++ {
			i := (h + k) % n
			records = append(records, Record{Hash: hash, Identity: Identity{Producer: i / strategies, Strategy: i % strategies}})
		}
	}
	return records
}

// BenchmarkAggregator_Add measures the streaming fold, 4 founders per group
func BenchmarkAggregator_Add(b *testing.B) {
	records := portfolioRecords(10000, 8, 4, 4)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		agg, _ := NewAggregator()
		for _, r := range records {
			_ = agg.Add(r)
		}
		agg.Finalize()
	}
}

// BenchmarkAggregator_WideGroups measures groups reported by the whole portfolio
func BenchmarkAggregator_WideGroups(b *testing.B) {
	records := portfolioRecords(1000, 8, 4, 32)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Aggregate(records)
	}
}

// BenchmarkAggregator_StrictUnbounded measures the cost of remembering every closed hash
func BenchmarkAggregator_StrictUnbounded(b *testing.B) {
	records := portfolioRecords(10000, 8, 4, 4)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Aggregate(records, WithStrictContiguity())
	}
}

// BenchmarkAggregator_StrictWindow measures the LRU-bounded strict mode
func BenchmarkAggregator_StrictWindow(b *testing.B) {
	records := portfolioRecords(10000, 8, 4, 4)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = Aggregate(records, WithStrictWindow(1024))
	}
}

// BenchmarkAggregateReader measures parsing plus aggregation
func BenchmarkAggregateReader(b *testing.B) {
	var sb strings.Builder
	for _, r := range portfolioRecords(10000, 8, 4, 4) {
		fmt.Fprintf(&sb, "%s %d %d\n", r.Hash, r.Identity.Producer, r.Identity.Strategy)
	}
	input := sb.String()
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		_, _ = AggregateReader(ctx, strings.NewReader(input), DefaultFormat())
	}
}
