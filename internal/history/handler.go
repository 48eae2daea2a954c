package history

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/calendar"
	httperr "github.com/RedEchidnaUK/inventree-order-history/internal/core/errors"
	corehist "github.com/RedEchidnaUK/inventree-order-history/internal/core/history"
	"github.com/RedEchidnaUK/inventree-order-history/internal/history/export"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the history API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/v1/history", s.HandleHistory)
}

// HandleHistory handles GET /api/v1/history.
// Query parameters: start_date, end_date, period, order_type, part, export.
func (s *Service) HandleHistory(c *gin.Context) {
	var query struct {
		StartDate time.Time `form:"start_date" binding:"required" time_format:"2006-01-02" time_utc:"1"`
		EndDate   time.Time `form:"end_date" binding:"required" time_format:"2006-01-02" time_utc:"1"`
		Period    string    `form:"period"`
		OrderType string    `form:"order_type"`
		Part      int64     `form:"part"`
		Export    string    `form:"export"`
	}

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	period, err := calendar.ParsePeriod(query.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnsupportedPeriodError,
			Message:   "Unsupported period",
			Details:   err.Error(),
		})
		return
	}

	req := Request{
		StartDate:    query.StartDate,
		EndDate:      query.EndDate,
		Period:       period,
		OrderType:    query.OrderType,
		PartID:       query.Part,
		ExportFormat: query.Export,
	}

	result, err := s.History(c.Request.Context(), req)
	if err != nil {
		writeHistoryError(c, err)
		return
	}

	if result.Export != nil {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Export.Filename))
		c.Data(http.StatusOK, result.Export.ContentType, result.Export.Data)
		return
	}

	c.JSON(http.StatusOK, result.Parts)
}

// writeHistoryError maps service errors onto the HTTP error taxonomy.
func writeHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRangeError,
			Message:   "Invalid date range",
			Details:   err.Error(),
		})
	case errors.Is(err, calendar.ErrUnsupportedPeriod):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnsupportedPeriodError,
			Message:   "Unsupported period",
			Details:   err.Error(),
		})
	case errors.Is(err, export.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnsupportedExportError,
			Message:   "Unsupported export format",
			Details:   err.Error(),
		})
	case errors.Is(err, corehist.ErrMissingTimestamp):
		// Record source contract violation: the store must pre-filter
		// records without a completion date.
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Record without completion timestamp reached aggregation",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to generate order history",
			Details:   err.Error(),
		})
	}
}
