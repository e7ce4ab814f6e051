package bin

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines bin persistence. Create must surface a unique
// violation on bin_code as ErrBinAlreadyExists so callers can recover
// from concurrent creation races.
type Repository interface {
	Create(ctx context.Context, b *Bin) error
	GetByID(ctx context.Context, binID uuid.UUID) (*Bin, error)
	GetByCode(ctx context.Context, code string) (*Bin, error)
	Update(ctx context.Context, binID uuid.UUID, location *string, ownerUserID *uuid.UUID) (*Bin, error)
	List(ctx context.Context, filter *Filter) ([]*Bin, error)
}

// EventRepository persists immutable bin events. Insert fills the
// store-assigned ID and CreatedAt on the passed event.
type EventRepository interface {
	Insert(ctx context.Context, event *BinEvent) error
	ListByBin(ctx context.Context, binID uuid.UUID, limit int) ([]*BinEvent, error)
}

// Filter narrows bin listings. A nil OwnerUserID means no owner filter.
type Filter struct {
	OwnerUserID *uuid.UUID
}
