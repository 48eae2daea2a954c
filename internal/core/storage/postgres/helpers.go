package postgres

import (
	"database/sql"
	"fmt"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/history"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanOrderRow scans a completed-order row into a RawRecord.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
//
// completion_date is filtered to NOT NULL in SQL; a NULL slipping through
// scans to a zero timestamp, which the aggregator rejects loudly instead of
// silently dropping the record.
func scanOrderRow(row scanner) (history.RawRecord, error) {
	var (
		record    history.RawRecord
		completed sql.NullTime
	)

	err := row.Scan(
		&record.Part.ID,
		&record.Part.Name,
		&record.Part.IPN,
		&record.Quantity,
		&completed,
	)
	if err != nil {
		return history.RawRecord{}, fmt.Errorf("failed to scan order row: %w", err)
	}

	if completed.Valid {
		record.CompletedAt = completed.Time.UTC()
	}

	return record, nil
}
