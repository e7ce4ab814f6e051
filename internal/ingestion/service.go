package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecobin-telemetry/internal/domain/bin"
)

// Service runs the ingest pipeline: validate, resolve the target bin,
// derive counts, persist one immutable event. Both the HTTP handler and
// the MQTT transport feed into it.
type Service struct {
	bins   bin.Repository
	events bin.EventRepository
	stats  *StatsTracker
	log    *zap.Logger
}

func NewService(bins bin.Repository, events bin.EventRepository, log *zap.Logger) *Service {
	return &Service{
		bins:   bins,
		events: events,
		stats:  NewStatsTracker(),
		log:    log,
	}
}

// Result is returned for an accepted event.
type Result struct {
	EventID      uuid.UUID
	Counts       Counts
	TimestampUTC string
}

// Ingest processes one telemetry payload routed by binCode. It returns a
// *ValidationError for payload violations; any other error is a store
// failure.
func (s *Service) Ingest(ctx context.Context, binCode string, payload *BinEventPayload) (*Result, error) {
	if err := ValidateBinEvent(payload); err != nil {
		s.stats.Update(func(st *Stats) {
			st.EventsRejected++
			st.ValidationFailures++
		})
		return nil, err
	}

	b, err := s.ResolveOrCreateBin(ctx, binCode, payload.Location)
	if err != nil {
		s.stats.Update(func(st *Stats) { st.EventsRejected++ })
		return nil, err
	}

	counts := CalculateCounts(&payload.Categories)

	// Already validated as RFC 3339.
	timestamp, err := time.Parse(time.RFC3339, payload.TimestampUTC)
	if err != nil {
		return nil, fmt.Errorf("unparseable timestamp after validation: %w", err)
	}

	audit, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize audit payload: %w", err)
	}

	event := &bin.BinEvent{
		BinID:         b.ID,
		BinCode:       b.BinCode,
		Location:      payload.Location,
		TimestampUTC:  timestamp,
		FillLevelPct:  *payload.Metrics.FillLevelPct,
		WeightKgTotal: *payload.Metrics.WeightKgTotal,
		WeightKgDelta: payload.Metrics.WeightKgDelta,
		BatteryPct:    *payload.Metrics.BatteryPct,
		HVCount:       counts.HVCount,
		LVCount:       counts.LVCount,
		OrgCount:      counts.OrgCount,
		Payload:       audit,
	}
	if payload.AI != nil {
		modelID := payload.AI.ModelID
		event.AIModelID = &modelID
		event.AIConfidenceAvg = payload.AI.ConfidenceAvg
	}

	if err := s.events.Insert(ctx, event); err != nil {
		s.stats.Update(func(st *Stats) { st.EventsRejected++ })
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	s.stats.Update(func(st *Stats) {
		st.EventsAccepted++
		st.LastAcceptedAt = time.Now()
	})

	return &Result{
		EventID:      event.ID,
		Counts:       counts,
		TimestampUTC: payload.TimestampUTC,
	}, nil
}

// ResolveOrCreateBin looks the bin up by code and creates it on a miss.
// Lookup-then-create is not atomic: when two first-time requests race,
// one insert loses on the unique bin_code constraint. That loss is
// expected, so it falls back to re-reading the now-existing row instead
// of failing the request.
func (s *Service) ResolveOrCreateBin(ctx context.Context, code, location string) (*bin.Bin, error) {
	existing, err := s.bins.GetByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, bin.ErrBinNotFound) {
		return nil, fmt.Errorf("failed to look up bin %q: %w", code, err)
	}

	created := &bin.Bin{BinCode: code, Location: location}
	err = s.bins.Create(ctx, created)
	if err == nil {
		s.stats.Update(func(st *Stats) { st.BinsCreated++ })
		return created, nil
	}
	if errors.Is(err, bin.ErrBinAlreadyExists) {
		s.log.Debug("lost bin creation race, re-reading",
			zap.String("bin_code", code),
		)
		winner, readErr := s.bins.GetByCode(ctx, code)
		if readErr != nil {
			return nil, fmt.Errorf("failed to re-read bin %q after creation race: %w", code, readErr)
		}
		return winner, nil
	}

	return nil, fmt.Errorf("failed to create bin %q: %w", code, err)
}

// GetStats returns a snapshot of ingest counters.
func (s *Service) GetStats() Stats {
	return s.stats.Snapshot()
}
