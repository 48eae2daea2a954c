package history

import (
	"errors"
	"fmt"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/calendar"
	"github.com/shopspring/decimal"
)

// ErrMissingTimestamp marks a record without a completion timestamp.
// The record source is responsible for excluding these; one reaching the
// aggregator aborts the request.
var ErrMissingTimestamp = errors.New("record has no completion timestamp")

// Aggregate is the sparse per-part, per-bucket quantity sum for one request.
// It is built once by Fold and never shared across requests. Part order is
// the order of first appearance in the record stream.
type Aggregate struct {
	order  []int64
	parts  map[int64]Part
	totals map[int64]map[calendar.Key]decimal.Decimal
}

// Fold accumulates unordered raw records into a sparse aggregate keyed by the
// bucket containing each record's completion date. Duplicate records are
// summed, not deduplicated. The result is value-equal for any permutation of
// the input.
func Fold(records []RawRecord, period calendar.Period) (*Aggregate, error) {
	agg := &Aggregate{
		parts:  make(map[int64]Part),
		totals: make(map[int64]map[calendar.Key]decimal.Decimal),
	}

	for _, rec := range records {
		if rec.CompletedAt.IsZero() {
			return nil, fmt.Errorf("%w: part %d", ErrMissingTimestamp, rec.Part.ID)
		}

		key, err := calendar.KeyFor(rec.CompletedAt, period)
		if err != nil {
			return nil, err
		}

		buckets, seen := agg.totals[rec.Part.ID]
		if !seen {
			buckets = make(map[calendar.Key]decimal.Decimal)
			agg.totals[rec.Part.ID] = buckets
			agg.parts[rec.Part.ID] = rec.Part
			agg.order = append(agg.order, rec.Part.ID)
		}
		buckets[key] = buckets[key].Add(rec.Quantity)
	}

	return agg, nil
}

// PartIDs returns the aggregated part ids in order of first appearance.
func (a *Aggregate) PartIDs() []int64 {
	return a.order
}

// Part returns the descriptor for an aggregated part id.
// The id must have entered the aggregate via Fold; anything else is a
// data-flow invariant violation.
func (a *Aggregate) Part(id int64) Part {
	part, ok := a.parts[id]
	if !ok {
		panic(fmt.Sprintf("history: part %d missing from aggregate", id))
	}
	return part
}

// Buckets returns the sparse bucket totals for a part id.
// Callers must treat the map as read-only; it is shared between the
// structured-response and export paths.
func (a *Aggregate) Buckets(id int64) map[calendar.Key]decimal.Decimal {
	return a.totals[id]
}

// Len returns the number of parts in the aggregate.
func (a *Aggregate) Len() int {
	return len(a.order)
}
