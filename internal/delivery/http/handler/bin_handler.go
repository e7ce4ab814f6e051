package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainBin "ecobin-telemetry/internal/domain/bin"
	"ecobin-telemetry/internal/logger"
	"ecobin-telemetry/internal/middleware"
	usecaseBin "ecobin-telemetry/internal/usecase/bin"
	"ecobin-telemetry/pkg/utils"
)

type BinHandler struct {
	service *usecaseBin.Service
}

func NewBinHandler(service *usecaseBin.Service) *BinHandler {
	return &BinHandler{service: service}
}

// CreateBin handles POST /bins (operator only).
func (h *BinHandler) CreateBin(c *gin.Context) {
	var req usecaseBin.CreateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	binResp, err := h.service.CreateBin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domainBin.ErrBinAlreadyExists) {
			utils.ErrorResponse(c, http.StatusConflict, "Bin with this code already exists")
			return
		}
		logger.WithRequestID(middleware.GetRequestID(c)).Error("Create bin failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, gin.H{"ok": true, "bin": binResp})
}

// UpdateBin handles PATCH /bins/:id (operator only).
func (h *BinHandler) UpdateBin(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bin ID")
		return
	}

	var req usecaseBin.UpdateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	binResp, err := h.service.UpdateBin(c.Request.Context(), binID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domainBin.ErrNoUpdates):
			utils.ErrorResponse(c, http.StatusBadRequest, "At least one field must be provided")
		case errors.Is(err, domainBin.ErrBinNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "Bin not found")
		default:
			logger.WithRequestID(middleware.GetRequestID(c)).Error("Update bin failed", zap.Error(err))
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"ok": true, "bin": binResp})
}

// ListBins handles GET /bins. Hosts see their own bins; operators see
// all and may filter with ?owner_user_id=.
func (h *BinHandler) ListBins(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
		return
	}

	var ownerFilter *uuid.UUID
	if ownerStr := c.Query("owner_user_id"); ownerStr != "" {
		ownerID, err := uuid.Parse(ownerStr)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid owner_user_id")
			return
		}
		ownerFilter = &ownerID
	}

	bins, err := h.service.ListBins(c.Request.Context(), actor, ownerFilter)
	if err != nil {
		logger.WithRequestID(middleware.GetRequestID(c)).Error("List bins failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"ok": true, "bins": bins})
}

// ListEvents handles GET /bins/:id/events?limit=50.
func (h *BinHandler) ListEvents(c *gin.Context) {
	binID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid bin ID")
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	events, err := h.service.ListEvents(c.Request.Context(), binID, limit)
	if err != nil {
		logger.WithRequestID(middleware.GetRequestID(c)).Error("List bin events failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"ok": true, "events": events})
}
