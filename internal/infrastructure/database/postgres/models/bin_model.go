package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ecobin-telemetry/internal/domain/bin"
)

// BinModel represents the database model for bins.
type BinModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BinCode     string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Location    string     `gorm:"type:varchar(100);not null"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"not null"`
}

func (BinModel) TableName() string {
	return "bins"
}

// BinEventModel represents the database model for bin events. Rows are
// insert-only; PayloadJSON is the verbatim accepted payload.
type BinEventModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BinID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	BinCode         string          `gorm:"type:varchar(100);not null"`
	Location        string          `gorm:"type:varchar(100);not null"`
	TimestampUTC    time.Time       `gorm:"column:timestamp_utc;not null"`
	FillLevelPct    float64         `gorm:"not null"`
	WeightKgTotal   float64         `gorm:"not null"`
	WeightKgDelta   *float64        `gorm:"type:numeric"`
	BatteryPct      float64         `gorm:"not null"`
	AIModelID       *string         `gorm:"column:ai_model_id;type:varchar(100)"`
	AIConfidenceAvg *float64        `gorm:"column:ai_confidence_avg;type:numeric"`
	HVCount         int             `gorm:"column:hv_count;not null;default:0"`
	LVCount         int             `gorm:"column:lv_count;not null;default:0"`
	OrgCount        int             `gorm:"column:org_count;not null;default:0"`
	PayloadJSON     json.RawMessage `gorm:"column:payload_json;type:jsonb"`
	CreatedAt       time.Time       `gorm:"not null;index"`
}

func (BinEventModel) TableName() string {
	return "bin_events"
}

func ToBinModel(b *bin.Bin) *BinModel {
	return &BinModel{
		ID:          b.ID,
		BinCode:     b.BinCode,
		Location:    b.Location,
		OwnerUserID: b.OwnerUserID,
		CreatedAt:   b.CreatedAt,
	}
}

func ToBinEntity(m *BinModel) *bin.Bin {
	if m == nil {
		return nil
	}
	return &bin.Bin{
		ID:          m.ID,
		BinCode:     m.BinCode,
		Location:    m.Location,
		OwnerUserID: m.OwnerUserID,
		CreatedAt:   m.CreatedAt,
	}
}

func ToBinEventEntity(m *BinEventModel) *bin.BinEvent {
	if m == nil {
		return nil
	}
	return &bin.BinEvent{
		ID:              m.ID,
		BinID:           m.BinID,
		BinCode:         m.BinCode,
		Location:        m.Location,
		TimestampUTC:    m.TimestampUTC,
		FillLevelPct:    m.FillLevelPct,
		WeightKgTotal:   m.WeightKgTotal,
		WeightKgDelta:   m.WeightKgDelta,
		BatteryPct:      m.BatteryPct,
		AIModelID:       m.AIModelID,
		AIConfidenceAvg: m.AIConfidenceAvg,
		HVCount:         m.HVCount,
		LVCount:         m.LVCount,
		OrgCount:        m.OrgCount,
		Payload:         m.PayloadJSON,
		CreatedAt:       m.CreatedAt,
	}
}
