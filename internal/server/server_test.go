package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) Ping(context.Context) error { return f.err }

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	return resp
}

func TestHealth_DatabaseReachable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("127.0.0.1:0", &fakeChecker{}, "release")

	resp := get(t, s, "/health")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"status": "healthy", "database": "connected"}`, resp.Body.String())
}

func TestHealth_DatabaseUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("127.0.0.1:0", &fakeChecker{err: errors.New("connection refused")}, "release")

	resp := get(t, s, "/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("127.0.0.1:0", &fakeChecker{}, "release")

	resp := get(t, s, "/health")
	require.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestRequestID_PreservedWhenProvided(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New("127.0.0.1:0", &fakeChecker{}, "release")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)

	require.Equal(t, "req-42", resp.Header().Get("X-Request-ID"))
}
