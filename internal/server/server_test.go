package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gr4yha7/pikolo-sub000/internal/config"
	"github.com/gr4yha7/pikolo-sub000/internal/models"
)

type fakeRunner struct {
	report models.RunReport
	err    error
}

func (f *fakeRunner) Run(ctx context.Context) (models.RunReport, error) {
	return f.report, f.err
}

func newTestServer(r Runner) *Server {
	return New(config.Config{}, r, zerolog.Nop())
}

func TestHandleResolve_Success(t *testing.T) {
	srv := newTestServer(&fakeRunner{report: models.RunReport{
		ID:       "run-1",
		Resolved: 3,
		Failed:   1,
		Errors:   []string{"0xabc: execution reverted"},
	}})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/api/resolve", nil)
		rec := httptest.NewRecorder()
		srv.handleResolve(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body struct {
			Success   bool     `json:"success"`
			RunID     string   `json:"run_id"`
			Resolved  int      `json:"resolved"`
			Failed    int      `json:"failed"`
			Errors    []string `json:"errors"`
			Timestamp string   `json:"timestamp"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "run-1", body.RunID)
		assert.Equal(t, 3, body.Resolved)
		assert.Equal(t, 1, body.Failed)
		assert.Len(t, body.Errors, 1)
		assert.NotEmpty(t, body.Timestamp)
	}
}

func TestHandleResolve_EmptyErrorsIsArray(t *testing.T) {
	srv := newTestServer(&fakeRunner{report: models.RunReport{ID: "run-2"}})

	req := httptest.NewRequest(http.MethodGet, "/api/resolve", nil)
	rec := httptest.NewRecorder()
	srv.handleResolve(rec, req)

	assert.Contains(t, rec.Body.String(), `"errors":[]`)
}

func TestHandleResolve_FatalErrorIs500(t *testing.T) {
	srv := newTestServer(&fakeRunner{err: errors.New("resolver credentials not configured")})

	req := httptest.NewRequest(http.MethodPost, "/api/resolve", nil)
	rec := httptest.NewRecorder()
	srv.handleResolve(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "not configured")
}

func TestHandleResolve_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodDelete, "/api/resolve", nil)
	rec := httptest.NewRecorder()
	srv.handleResolve(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeRunner{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
