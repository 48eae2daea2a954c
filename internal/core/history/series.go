package history

import (
	"github.com/RedEchidnaUK/inventree-order-history/internal/core/calendar"
	"github.com/shopspring/decimal"
)

// Point is one dense history entry: a bucket key and the quantity completed
// within that bucket.
type Point struct {
	Date     calendar.Key    `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PartHistory pairs a part descriptor with its dense, chronologically ordered
// history across the requested range.
type PartHistory struct {
	Part    Part    `json:"part"`
	History []Point `json:"history"`
}

// Complete produces one point per key in seq, in sequence order, zero-filling
// buckets absent from the sparse map. The input map is not mutated.
func Complete(buckets map[calendar.Key]decimal.Decimal, seq []calendar.Key) []Point {
	series := make([]Point, 0, len(seq))
	for _, key := range seq {
		quantity, ok := buckets[key]
		if !ok {
			quantity = decimal.Zero
		}
		series = append(series, Point{Date: key, Quantity: quantity})
	}
	return series
}

// Format converts an aggregate into the structured response shape: one record
// per part in first-seen order, each with a dense history. Parts with no
// records across the range never entered the aggregate and are omitted.
func Format(agg *Aggregate, seq []calendar.Key) []PartHistory {
	response := make([]PartHistory, 0, agg.Len())
	for _, id := range agg.PartIDs() {
		response = append(response, PartHistory{
			Part:    agg.Part(id),
			History: Complete(agg.Buckets(id), seq),
		})
	}
	return response
}
