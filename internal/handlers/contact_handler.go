package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/internal/services"
	apperrors "github.com/hh727w/portfolio-api/pkg/errors"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/hh727w/portfolio-api/pkg/metrics"
	"go.uber.org/zap"
)

// Intake error messages shown to the visitor
const (
	MsgInvalidBody = "Invalid request body"
	MsgSendFailed  = "Failed to send email. Please try again later."
	MsgUnexpected  = "Unexpected error. Please try again later."
)

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ContactSubmissions.WithLabelValues(services.OutcomeUnexpected).Inc()
			logger.Error("/api/contact panic",
				append(logger.TraceFields(c.Request.Context()), zap.Any("panic", r), zap.Stack("stack"))...)
			respondError(c, http.StatusInternalServerError, MsgUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	raw, err := models.ParseRawSubmission(c.Request.Body)
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues(services.OutcomeInvalidBody).Inc()
		respondError(c, http.StatusBadRequest, MsgInvalidBody, err)
		return
	}

	err = h.service.Submit(c.Request.Context(), raw)
	if err == nil {
		c.JSON(http.StatusOK, models.ContactResponse{OK: true})
		return
	}

	if ve, ok := apperrors.AsValidationError(err); ok {
		respondError(c, http.StatusBadRequest, ve.Message, err)
		return
	}

	if apperrors.Is(err, apperrors.ErrUnavailable) {
		respondError(c, http.StatusInternalServerError, MsgSendFailed, err)
		return
	}

	metrics.ContactSubmissions.WithLabelValues(services.OutcomeUnexpected).Inc()
	logger.Error("/api/contact error", append(logger.TraceFields(c.Request.Context()), zap.Error(err))...)
	respondError(c, http.StatusInternalServerError, MsgUnexpected, err)
}
