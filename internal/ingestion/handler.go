package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	httperr "github.com/RedEchidnaUK/inventree-order-history/internal/core/errors"
	"github.com/RedEchidnaUK/inventree-order-history/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgPersistFailed  = "Failed to persist order"
	msgDuplicateOrder = "Order already exists"
)

// orderDocument is the wire shape for recording a completed order.
type orderDocument struct {
	ID          string          `json:"id"`
	OrderType   string          `json:"order_type"`
	Part        int64           `json:"part"`
	Quantity    decimal.Decimal `json:"quantity"`
	CompletedAt *time.Time      `json:"completion_date"`
}

// ingestionError carries the structured HTTP error shape from a helper back
// to the orchestrator. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// RecordOrderHandler handles HTTP POST requests for recording completed orders.
func (s *Service) RecordOrderHandler(c *gin.Context) {
	order, payloadSize, err := s.parseOrder(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Received order",
		"order_id", order.ID,
		"order_type", order.OrderType,
		"part_id", order.PartID,
		"payload_size", payloadSize)

	if err := s.persistOrder(c.Request.Context(), order); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded", "id": order.ID})
}

// parseOrder reads the raw request body and binds it into a CompletedOrder.
// Returns the order and the raw payload size (used for structured logging
// upstream).
func (s *Service) parseOrder(c *gin.Context) (*storage.CompletedOrder, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidRequestError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var doc orderDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    msgInvalidJSON,
		}
	}

	order, verr := s.validateOrder(doc)
	if verr != nil {
		return nil, len(bodyBytes), verr
	}
	return order, len(bodyBytes), nil
}

// validateOrder checks the document fields and converts it into the storage
// shape. A missing id is generated server-side.
func (s *Service) validateOrder(doc orderDocument) (*storage.CompletedOrder, *ingestionError) {
	orderType, ok := storage.ParseOrderType(doc.OrderType)
	if !ok {
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    "Unknown order type",
			details:    map[string]interface{}{"order_type": doc.OrderType},
		}
	}

	if doc.Part <= 0 {
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpUnknownPartError,
			message:    "A valid part id is required",
		}
	}

	if doc.Quantity.IsNegative() {
		return nil, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    "Quantity must not be negative",
		}
	}

	order := &storage.CompletedOrder{
		ID:        doc.ID,
		OrderType: orderType,
		PartID:    doc.Part,
		Quantity:  doc.Quantity,
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if doc.CompletedAt != nil {
		order.CompletedAt = doc.CompletedAt.UTC()
	}

	return order, nil
}

// persistOrder saves the order to the backing store.
func (s *Service) persistOrder(ctx context.Context, order *storage.CompletedOrder) *ingestionError {
	if err := s.store.SaveOrder(ctx, order); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.Info("Duplicate order rejected", "order_id", order.ID, "order_type", order.OrderType)
			return &ingestionError{
				statusCode: http.StatusConflict,
				errorType:  httperr.HttpDuplicateOrderError,
				message:    msgDuplicateOrder,
			}
		}

		slog.Error("Failed to persist order", "error", err, "order_id", order.ID)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}

	return nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
