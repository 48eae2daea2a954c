package history

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httperr "github.com/RedEchidnaUK/inventree-order-history/internal/core/errors"
	"github.com/RedEchidnaUK/inventree-order-history/internal/history/export"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store *fakeOrderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(store, export.NewRegistry()).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var body httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestHandleHistory_StructuredResponse(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{records: scenarioRecords()})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&period=M&order_type=build")
	require.Equal(t, http.StatusOK, resp.Code)

	var body []struct {
		Part struct {
			PK   int64  `json:"pk"`
			Name string `json:"name"`
			IPN  string `json:"IPN"`
		} `json:"part"`
		History []struct {
			Date     string `json:"date"`
			Quantity string `json:"quantity"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.Equal(t, int64(1), body[0].Part.PK)
	require.Equal(t, "IPN-001", body[0].Part.IPN)
	require.Len(t, body[0].History, 3)
	require.Equal(t, "2024-01", body[0].History[0].Date)
	require.Equal(t, "5", body[0].History[0].Quantity)
	require.Equal(t, "0", body[0].History[2].Quantity)
}

func TestHandleHistory_DefaultPeriodIsMonthly(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{records: scenarioRecords()})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=build")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"2024-01"`)
	require.NotContains(t, resp.Body.String(), `"2024-01-15"`)
}

// Date params bind as UTC midnights regardless of the server's zone, and a
// completion late in the day on end_date still lands in the final bucket.
func TestHandleHistory_EndDateDayIsInclusive(t *testing.T) {
	store := &fakeOrderStore{records: []RawRecord{
		{
			Part:        Part{ID: 1, Name: "P1", IPN: "IPN-001"},
			Quantity:    decimal.NewFromInt(4),
			CompletedAt: time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC),
		},
	}}
	r := newTestRouter(store)

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=build")
	require.Equal(t, http.StatusOK, resp.Code)

	require.Len(t, store.starts, 1)
	require.Equal(t, time.UTC, store.starts[0].Location())
	require.Equal(t, time.UTC, store.ends[0].Location())
	require.True(t, store.starts[0].Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.True(t, store.ends[0].Equal(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)))

	var body []struct {
		History []struct {
			Date     string `json:"date"`
			Quantity string `json:"quantity"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 1)
	require.Equal(t, "2024-03", body[0].History[2].Date)
	require.Equal(t, "4", body[0].History[2].Quantity)
}

func TestHandleHistory_MissingDatesRejected(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{})

	resp := get(t, r, "/api/v1/history?order_type=build")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpInvalidRequestError, decodeError(t, resp).ErrorType)
}

func TestHandleHistory_InvalidRange(t *testing.T) {
	store := &fakeOrderStore{}
	r := newTestRouter(store)

	resp := get(t, r, "/api/v1/history?start_date=2024-03-31&end_date=2024-01-01&order_type=build")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpInvalidRangeError, decodeError(t, resp).ErrorType)
	require.Empty(t, store.calls)
}

func TestHandleHistory_UnsupportedPeriod(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&period=Q&order_type=build")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpUnsupportedPeriodError, decodeError(t, resp).ErrorType)
}

func TestHandleHistory_UnknownOrderTypeReturnsEmptyList(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=stocktake")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, "[]", resp.Body.String())
}

func TestHandleHistory_ExportDownload(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{records: scenarioRecords()})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=build&export=csv")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, `attachment; filename="order_history.csv"`, resp.Header().Get("Content-Disposition"))
	require.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, resp.Body.String(), "Part ID,Part Name,IPN,2024-01,2024-02,2024-03")
}

func TestHandleHistory_ExportEmptyRecordSetIsHeaderOnly(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=build&export=csv")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "Part ID,Part Name,IPN,2024-01,2024-02,2024-03\n", resp.Body.String())
}

func TestHandleHistory_UnsupportedExportFormat(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{records: scenarioRecords()})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=build&export=xlsx")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, httperr.HttpUnsupportedExportError, decodeError(t, resp).ErrorType)
}

func TestHandleHistory_StoreFailureReturns500(t *testing.T) {
	r := newTestRouter(&fakeOrderStore{err: fmt.Errorf("db down")})

	resp := get(t, r, "/api/v1/history?start_date=2024-01-01&end_date=2024-03-31&order_type=build")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Equal(t, httperr.HttpInternalError, decodeError(t, resp).ErrorType)
}
