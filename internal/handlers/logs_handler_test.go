package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newLogsRouter(h *LogsHandler) *gin.Engine {
	router := gin.New()
	router.POST("/api/v1/logs", h.ReceiveFrontendLogs)
	return router
}

func TestLogsHandler_ForwardsEntries(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	h := &LogsHandler{log: zap.New(core)}

	body := `{"logs":[
		{"timestamp":"2025-10-01T10:00:00Z","level":"error","message":"contact submit failed","page":"/","context":{"status":500}},
		{"level":"info","message":"form opened","page":"/"}
	]}`
	w := httptest.NewRecorder()
	newLogsRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/logs", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"received":2}`, w.Body.String())

	entries := observed.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level, "browser errors are capped at warn")
	assert.Equal(t, "contact submit failed", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestLogsHandler_RejectsBadBatches(t *testing.T) {
	tests := map[string]string{
		"not json":      `logs`,
		"empty batch":   `{"logs":[]}`,
		"missing msg":   `{"logs":[{"level":"info"}]}`,
		"unknown level": `{"logs":[{"level":"fatal","message":"x"}]}`,
		"too many":      `{"logs":[` + strings.TrimSuffix(strings.Repeat(`{"message":"x"},`, 51), ",") + `]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			core, observed := observer.New(zapcore.DebugLevel)
			h := &LogsHandler{log: zap.New(core)}

			w := httptest.NewRecorder()
			newLogsRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/logs", strings.NewReader(body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, observed.Len())
		})
	}
}
