package history

import core "github.com/RedEchidnaUK/inventree-order-history/internal/core/history"

// Re-export core history types for package-level compatibility.
type Part = core.Part
type Point = core.Point
type PartHistory = core.PartHistory
type RawRecord = core.RawRecord
type Aggregate = core.Aggregate

var (
	Fold     = core.Fold
	Complete = core.Complete
	Format   = core.Format
)
