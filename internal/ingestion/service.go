package ingestion

import (
	"github.com/RedEchidnaUK/inventree-order-history/internal/core/storage"
	"github.com/gin-gonic/gin"
)

// Service handles the write path: recording completed orders into the store
// the history endpoint reads from.
type Service struct {
	store            storage.OrderStore
	maxBodySizeBytes int
}

func NewService(store storage.OrderStore, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/v1/orders", s.RecordOrderHandler)
}
