package bin

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainBin "ecobin-telemetry/internal/domain/bin"
	appErrors "ecobin-telemetry/pkg/errors"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// Service covers the management surface: explicit bin creation and
// assignment by operators, plus scoped listings for hosts.
type Service struct {
	bins   domainBin.Repository
	events domainBin.EventRepository
}

func NewService(bins domainBin.Repository, events domainBin.EventRepository) *Service {
	return &Service{bins: bins, events: events}
}

func (s *Service) CreateBin(ctx context.Context, req *CreateBinRequest) (*BinResponse, error) {
	b := &domainBin.Bin{
		BinCode:     req.BinCode,
		Location:    req.Location,
		OwnerUserID: req.OwnerUserID,
	}

	if err := s.bins.Create(ctx, b); err != nil {
		return nil, err
	}

	return ToBinResponse(b), nil
}

func (s *Service) UpdateBin(ctx context.Context, binID uuid.UUID, req *UpdateBinRequest) (*BinResponse, error) {
	if req.Location == nil && req.OwnerUserID == nil {
		return nil, domainBin.ErrNoUpdates
	}

	updated, err := s.bins.Update(ctx, binID, req.Location, req.OwnerUserID)
	if err != nil {
		return nil, err
	}

	return ToBinResponse(updated), nil
}

// ListBins scopes the listing by role: hosts only ever see their own
// bins, operators see everything and may filter by owner.
func (s *Service) ListBins(ctx context.Context, actor *domainBin.Actor, ownerFilter *uuid.UUID) ([]*BinResponse, error) {
	filter := &domainBin.Filter{}

	switch actor.Role {
	case domainBin.RoleHost:
		selfID, err := uuid.Parse(actor.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid host subject id: %w", err)
		}
		filter.OwnerUserID = &selfID
	case domainBin.RoleOperator:
		filter.OwnerUserID = ownerFilter
	default:
		return nil, appErrors.ErrInsufficientPermissions
	}

	bins, err := s.bins.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*BinResponse, len(bins))
	for i, b := range bins {
		responses[i] = ToBinResponse(b)
	}

	return responses, nil
}

func (s *Service) ListEvents(ctx context.Context, binID uuid.UUID, limit int) ([]*BinEventResponse, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := s.events.ListByBin(ctx, binID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*BinEventResponse, len(events))
	for i, e := range events {
		responses[i] = ToBinEventResponse(e)
	}

	return responses, nil
}
