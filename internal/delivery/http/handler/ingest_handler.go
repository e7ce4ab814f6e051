package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecobin-telemetry/internal/ingestion"
	"ecobin-telemetry/internal/logger"
	"ecobin-telemetry/internal/middleware"
	"ecobin-telemetry/pkg/utils"
)

type IngestHandler struct {
	service *ingestion.Service
}

func NewIngestHandler(service *ingestion.Service) *IngestHandler {
	return &IngestHandler{service: service}
}

// Ingest handles POST /ingest?bin_code=<code>. Auth, role, bin_code
// presence and the per-bin rate limit have already been enforced by the
// route's middleware chain, in that order.
func (h *IngestHandler) Ingest(c *gin.Context) {
	requestID := middleware.GetRequestID(c)
	log := logger.WithRequestID(requestID)
	binCode := c.Query("bin_code")

	var payload ingestion.BinEventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), binCode, &payload)
	if err != nil {
		var vErr *ingestion.ValidationError
		if errors.As(err, &vErr) {
			utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "Validation failed", vErr.Details)
			return
		}

		log.Error("Failed to process ingest",
			zap.String("bin_code", binCode),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info("Ingested bin event",
		zap.String("bin_code", binCode),
		zap.String("event_id", result.EventID.String()),
		zap.Int("hv_count", result.Counts.HVCount),
		zap.Int("lv_count", result.Counts.LVCount),
		zap.Int("org_count", result.Counts.OrgCount),
	)

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"success":       true,
		"event_id":      result.EventID,
		"counts":        result.Counts,
		"timestamp_utc": result.TimestampUTC,
	})
}

// Stats handles GET /ingest/stats (operator only).
func (h *IngestHandler) Stats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"ok":    true,
		"stats": h.service.GetStats(),
	})
}
