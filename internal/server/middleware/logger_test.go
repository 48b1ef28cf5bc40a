package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerCompletionLine(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	var ctxHadLogger bool
	h := Logger(&logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxHadLogger = zerolog.Ctx(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.True(t, ctxHadLogger, "request context missing the scoped logger")

	var line struct {
		Message string `json:"message"`
		Method  string `json:"method"`
		Path    string `json:"path"`
		Status  int    `json:"status"`
		Bytes   int    `json:"bytes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request completed", line.Message)
	assert.Equal(t, http.MethodGet, line.Method)
	assert.Equal(t, "/api/v1/sessions/abc", line.Path)
	assert.Equal(t, http.StatusTeapot, line.Status)
	assert.Equal(t, len("short and stout"), line.Bytes)
}
