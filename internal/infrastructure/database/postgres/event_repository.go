package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainBin "ecobin-telemetry/internal/domain/bin"
	"ecobin-telemetry/internal/infrastructure/database/postgres/models"
)

// EventRepository implements domainBin.EventRepository on postgres.
// Events are insert-only; nothing here updates or deletes rows.
type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) domainBin.EventRepository {
	return &EventRepository{db: db}
}

// Insert persists one event in a single row. Percentages are clamped to
// [0,100] and the total weight floored at zero before writing, on top of
// the validator having enforced the same ranges upstream; the store
// holds the invariant on its own.
func (r *EventRepository) Insert(ctx context.Context, event *domainBin.BinEvent) error {
	event.ID = uuid.New()
	event.CreatedAt = time.Now()

	dbModel := &models.BinEventModel{
		ID:              event.ID,
		BinID:           event.BinID,
		BinCode:         event.BinCode,
		Location:        event.Location,
		TimestampUTC:    event.TimestampUTC,
		FillLevelPct:    clampPct(event.FillLevelPct),
		WeightKgTotal:   floorAtZero(event.WeightKgTotal),
		WeightKgDelta:   event.WeightKgDelta,
		BatteryPct:      clampPct(event.BatteryPct),
		AIModelID:       event.AIModelID,
		AIConfidenceAvg: event.AIConfidenceAvg,
		HVCount:         event.HVCount,
		LVCount:         event.LVCount,
		OrgCount:        event.OrgCount,
		PayloadJSON:     event.Payload,
		CreatedAt:       event.CreatedAt,
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to insert bin event: %w", err)
	}

	event.ID = dbModel.ID
	event.CreatedAt = dbModel.CreatedAt
	event.FillLevelPct = dbModel.FillLevelPct
	event.WeightKgTotal = dbModel.WeightKgTotal
	event.BatteryPct = dbModel.BatteryPct

	return nil
}

func (r *EventRepository) ListByBin(ctx context.Context, binID uuid.UUID, limit int) ([]*domainBin.BinEvent, error) {
	var dbModels []models.BinEventModel
	err := r.db.DB.WithContext(ctx).
		Where("bin_id = ?", binID).
		Order("created_at DESC").
		Limit(limit).
		Find(&dbModels).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list bin events: %w", err)
	}

	events := make([]*domainBin.BinEvent, len(dbModels))
	for i := range dbModels {
		events[i] = models.ToBinEventEntity(&dbModels[i])
	}

	return events, nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func floorAtZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
