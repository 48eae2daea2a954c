package history

import (
	"time"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/calendar"
)

// Request is the validated, immutable parameter set for one history query.
// It is threaded through the flow as a value; nothing is stored on the
// service between requests.
type Request struct {
	StartDate    time.Time
	EndDate      time.Time
	Period       calendar.Period
	OrderType    string // lenient: unknown types yield an empty result
	PartID       int64  // 0 = no part filter
	ExportFormat string // empty = structured response
}

// ExportFile is a rendered tabular export ready to be served as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result is the outcome of a history query: either a structured per-part
// response or an export file, depending on the requested output mode.
type Result struct {
	Parts  []PartHistory
	Export *ExportFile
}
