package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part is the descriptor for the grouping entity of an order history query.
type Part struct {
	ID   int64  `json:"pk"`
	Name string `json:"name"`
	IPN  string `json:"IPN"`
}

// RawRecord is one completed order event as supplied by the record source.
// The source pre-filters records to non-null completion dates inside the
// requested range; a zero CompletedAt reaching the aggregator is an error.
type RawRecord struct {
	Part        Part
	Quantity    decimal.Decimal
	CompletedAt time.Time
}
