package postgres

import (
	"fmt"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/storage"
)

// sourceTables maps each order type to its completed-order table.
var sourceTables = map[storage.OrderType]string{
	storage.OrderTypeBuild:    "build_orders",
	storage.OrderTypePurchase: "purchase_order_lines",
	storage.OrderTypeSales:    "sales_order_lines",
	storage.OrderTypeReturn:   "return_order_lines",
}

const (
	// queryCompletedOrdersTemplate selects completed orders for one source
	// table, joined with part metadata. Orders without a completion date are
	// excluded here so the aggregator never sees them. $1 = part filter
	// (0 disables it); descendants are resolved through parts.parent_id.
	// $2/$3 are midnight bounds: $3 is the midnight after the last day of the
	// range, so the upper comparison is exclusive and completions late on the
	// end date still match.
	queryCompletedOrdersTemplate = `
		SELECT p.id, p.name, p.ipn, o.quantity, o.completion_date
		FROM %s o
		JOIN parts p ON p.id = o.part_id
		WHERE o.completion_date IS NOT NULL
		  AND o.completion_date >= $2
		  AND o.completion_date < $3
		  AND ($1 = 0 OR o.part_id IN (
			WITH RECURSIVE part_tree AS (
				SELECT id FROM parts WHERE id = $1
				UNION ALL
				SELECT c.id FROM parts c JOIN part_tree t ON c.parent_id = t.id
			)
			SELECT id FROM part_tree
		  ))%s
		ORDER BY o.completion_date ASC
	`

	// Build orders only count once the build is complete with output produced.
	buildStatusPredicate = `
		  AND o.status = 'complete'
		  AND o.quantity > 0`

	// querySaveOrderTemplate inserts a completed order.
	// ON CONFLICT DO NOTHING leaves zero rows affected for duplicate ids.
	querySaveOrderTemplate = `
		INSERT INTO %s (id, part_id, quantity, completion_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
)

// completedOrdersQuery renders the fetch query for one order type.
func completedOrdersQuery(orderType storage.OrderType) string {
	extra := ""
	if orderType == storage.OrderTypeBuild {
		extra = buildStatusPredicate
	}
	return fmt.Sprintf(queryCompletedOrdersTemplate, sourceTables[orderType], extra)
}

// saveOrderQuery renders the insert query for one order type.
func saveOrderQuery(orderType storage.OrderType) string {
	return fmt.Sprintf(querySaveOrderTemplate, sourceTables[orderType])
}
