package engine

import (
	"github.com/montanaflynn/stats"
)

// DefaultSummaryFields are the value fields Summarize looks for, in order.
func DefaultSummaryFields() []string {
	return []string{"count", "employee_count", "value", "total", "amount"}
}

// Summarize derives total/average/count/min/max from records. Each record
// contributes the first listed field holding a number; records with none are
// skipped. Returns nil when nothing contributed.
func Summarize(records []RawRecord, fields []string) *SummaryStats {
	values := make(stats.Float64Data, 0, len(records))
	for _, rec := range records {
		for _, key := range fields {
			if v, ok := rec.Float(key); ok {
				values = append(values, v)
				break
			}
		}
	}
	if len(values) == 0 {
		return nil
	}

	// stats only errors on empty input, which is ruled out above.
	total, _ := stats.Sum(values)
	mean, _ := stats.Mean(values)
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)

	return &SummaryStats{
		Total:   total,
		Average: mean,
		Count:   len(values),
		Min:     lo,
		Max:     hi,
	}
}
