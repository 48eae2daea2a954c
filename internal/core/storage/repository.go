package storage

import (
	"context"
	"errors"
	"time"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/history"
	"github.com/shopspring/decimal"
)

// ErrDuplicate is returned when an order with the same id already exists.
var ErrDuplicate = errors.New("order already exists")

// OrderType selects which completed-order source a history query reads from.
type OrderType string

const (
	OrderTypeBuild    OrderType = "build"
	OrderTypePurchase OrderType = "purchase"
	OrderTypeSales    OrderType = "sales"
	OrderTypeReturn   OrderType = "return"
)

// OrderTypes lists every supported order type.
func OrderTypes() []OrderType {
	return []OrderType{OrderTypeBuild, OrderTypePurchase, OrderTypeSales, OrderTypeReturn}
}

// ParseOrderType maps a request parameter to an OrderType.
// Unknown values report ok=false; the history endpoint treats them leniently
// and returns an empty result rather than an error.
func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(s) {
	case OrderTypeBuild, OrderTypePurchase, OrderTypeSales, OrderTypeReturn:
		return OrderType(s), true
	default:
		return "", false
	}
}

// CompletedOrder is the write-side document for recording a completed order.
type CompletedOrder struct {
	ID          string
	OrderType   OrderType
	PartID      int64
	Quantity    decimal.Decimal
	CompletedAt time.Time
}

// OrderStore supplies completed-order records for aggregation and persists
// newly recorded orders.
type OrderStore interface {
	// CompletedOrders returns a finite, materialized record slice for one
	// order type, joined with part metadata and pre-filtered to records whose
	// completion date falls on the calendar days [start, end]; both boundary
	// days count in full, whatever the time of day on the stored timestamp.
	// partID = 0 means no part filter; otherwise records are restricted to
	// the part and its descendants.
	CompletedOrders(ctx context.Context, orderType OrderType, partID int64, start, end time.Time) ([]history.RawRecord, error)

	// SaveOrder persists a completed order. Returns ErrDuplicate when an
	// order with the same id already exists in the order type's table.
	SaveOrder(ctx context.Context, order *CompletedOrder) error

	// Ping reports backend connectivity for health checks.
	Ping(ctx context.Context) error
}
