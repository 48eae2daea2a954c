package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/calendar"
	"github.com/RedEchidnaUK/inventree-order-history/internal/core/storage"
	"github.com/RedEchidnaUK/inventree-order-history/internal/history/export"
)

// Service implements the order history query flow: fetch completed orders,
// fold them into per-part buckets, and render the requested output mode.
type Service struct {
	store   storage.OrderStore
	exports *export.Registry
}

// NewService creates a new history service.
func NewService(store storage.OrderStore, exports *export.Registry) *Service {
	return &Service{
		store:   store,
		exports: exports,
	}
}

// History executes one history query end-to-end. The computation is
// request-scoped and synchronous: one store fetch, then pure in-memory
// folding; no state survives the call.
func (s *Service) History(ctx context.Context, req Request) (*Result, error) {
	// Range and period are validated before any aggregation work happens.
	seq, err := calendar.Sequence(req.StartDate, req.EndDate, req.Period)
	if err != nil {
		return nil, err
	}

	orderType, ok := storage.ParseOrderType(req.OrderType)
	if !ok {
		slog.Info("Unknown order type, returning empty history", "order_type", req.OrderType)
		return &Result{Parts: []PartHistory{}}, nil
	}

	records, err := s.store.CompletedOrders(ctx, orderType, req.PartID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("fetch %s orders: %w", orderType, err)
	}

	agg, err := Fold(records, req.Period)
	if err != nil {
		return nil, err
	}

	slog.Debug("Aggregated order history",
		"order_type", orderType,
		"records", len(records),
		"parts", agg.Len(),
		"buckets", len(seq))

	if req.ExportFormat != "" {
		data, contentType, err := s.exports.Encode(req.ExportFormat, export.Build(agg, seq))
		if err != nil {
			return nil, err
		}
		return &Result{Export: &ExportFile{
			Filename:    export.Filename(req.ExportFormat),
			ContentType: contentType,
			Data:        data,
		}}, nil
	}

	return &Result{Parts: Format(agg, seq)}, nil
}
