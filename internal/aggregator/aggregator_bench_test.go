package aggregator

import (
	"fmt"
	"testing"

	"github.com/vburojevic/logstat/internal/domain"
)

func BenchmarkAggregatorIngest(b *testing.B) {
	records := make([]domain.LogRecord, 1024)
	for i := range records {
		records[i] = domain.LogRecord{
			IP:                 fmt.Sprintf("10.0.%d.%d", i/256, i%256),
			Method:             []string{"GET", "POST", "PUT"}[i%3],
			URL:                fmt.Sprintf("http://example.com/%d", i%64),
			Status:             []string{"200", "404", "503"}[i%3],
			ResponseTimeMicros: int64(i),
		}
	}

	a := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.Ingest(records[i%len(records)])
	}
}

func BenchmarkAggregatorFinalize(b *testing.B) {
	a := New()
	for i := 0; i < 10000; i++ {
		a.Ingest(domain.LogRecord{
			IP:                 fmt.Sprintf("10.0.%d.%d", i/256%256, i%256),
			Method:             "GET",
			URL:                fmt.Sprintf("/%d", i%512),
			Status:             "404",
			ResponseTimeMicros: int64(i % 997),
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Finalize()
	}
}
