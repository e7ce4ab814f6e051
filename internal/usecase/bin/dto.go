package bin

import (
	"time"

	"github.com/google/uuid"

	domainBin "ecobin-telemetry/internal/domain/bin"
)

type CreateBinRequest struct {
	BinCode     string     `json:"bin_code" binding:"required,min=1,max=100"`
	Location    string     `json:"location" binding:"required,min=1,max=100"`
	OwnerUserID *uuid.UUID `json:"owner_user_id" binding:"omitempty"`
}

// UpdateBinRequest updates a bin; at least one field must be set, which
// the service enforces since gin cannot express it in tags.
type UpdateBinRequest struct {
	Location    *string    `json:"location" binding:"omitempty,min=1,max=100"`
	OwnerUserID *uuid.UUID `json:"owner_user_id" binding:"omitempty"`
}

type BinResponse struct {
	ID          uuid.UUID  `json:"id"`
	BinCode     string     `json:"bin_code"`
	Location    string     `json:"location"`
	OwnerUserID *uuid.UUID `json:"owner_user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

type BinEventResponse struct {
	ID              uuid.UUID `json:"id"`
	BinID           uuid.UUID `json:"bin_id"`
	BinCode         string    `json:"bin_code"`
	Location        string    `json:"location"`
	TimestampUTC    time.Time `json:"timestamp_utc"`
	FillLevelPct    float64   `json:"fill_level_pct"`
	WeightKgTotal   float64   `json:"weight_kg_total"`
	WeightKgDelta   *float64  `json:"weight_kg_delta,omitempty"`
	BatteryPct      float64   `json:"battery_pct"`
	AIModelID       *string   `json:"ai_model_id"`
	AIConfidenceAvg *float64  `json:"ai_confidence_avg"`
	HVCount         int       `json:"hv_count"`
	LVCount         int       `json:"lv_count"`
	OrgCount        int       `json:"org_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func ToBinResponse(b *domainBin.Bin) *BinResponse {
	if b == nil {
		return nil
	}
	return &BinResponse{
		ID:          b.ID,
		BinCode:     b.BinCode,
		Location:    b.Location,
		OwnerUserID: b.OwnerUserID,
		CreatedAt:   b.CreatedAt,
	}
}

func ToBinEventResponse(e *domainBin.BinEvent) *BinEventResponse {
	if e == nil {
		return nil
	}
	return &BinEventResponse{
		ID:              e.ID,
		BinID:           e.BinID,
		BinCode:         e.BinCode,
		Location:        e.Location,
		TimestampUTC:    e.TimestampUTC,
		FillLevelPct:    e.FillLevelPct,
		WeightKgTotal:   e.WeightKgTotal,
		WeightKgDelta:   e.WeightKgDelta,
		BatteryPct:      e.BatteryPct,
		AIModelID:       e.AIModelID,
		AIConfidenceAvg: e.AIConfidenceAvg,
		HVCount:         e.HVCount,
		LVCount:         e.LVCount,
		OrgCount:        e.OrgCount,
		CreatedAt:       e.CreatedAt,
	}
}
