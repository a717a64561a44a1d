package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEntry is one browser-side log line, e.g. a failed contact submission
type LogEntry struct {
	Timestamp string                 `json:"timestamp" binding:"max=64"`
	Level     string                 `json:"level" binding:"omitempty,oneof=debug info warn error"`
	Message   string                 `json:"message" binding:"required,max=2000"`
	Page      string                 `json:"page" binding:"max=200"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

type LogBatchRequest struct {
	Logs []LogEntry `json:"logs" binding:"required,min=1,max=50,dive"`
}

// LogsHandler forwards frontend logs into the service log stream
type LogsHandler struct {
	log *zap.Logger
}

func NewLogsHandler() *LogsHandler {
	return &LogsHandler{}
}

func (h *LogsHandler) entryLogger() *zap.Logger {
	if h.log != nil {
		return h.log
	}
	return logger.With(zap.String("source", "frontend"))
}

// ReceiveFrontendLogs handles POST /api/v1/logs
func (h *LogsHandler) ReceiveFrontendLogs(c *gin.Context) {
	var req LogBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, MsgInvalidBody, ParseValidationErrors(err), err)
		return
	}

	log := h.entryLogger()
	for _, entry := range req.Logs {
		fields := []zap.Field{
			zap.String("client_ts", entry.Timestamp),
			zap.String("page", entry.Page),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(entry.Context) > 0 {
			fields = append(fields, zap.Any("context", entry.Context))
		}

		// Browser errors are not service errors, so they are capped at warn
		level := parseClientLevel(entry.Level)
		if level > zapcore.WarnLevel {
			level = zapcore.WarnLevel
		}
		if ce := log.Check(level, entry.Message); ce != nil {
			ce.Write(fields...)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "received": len(req.Logs)})
}

func parseClientLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
