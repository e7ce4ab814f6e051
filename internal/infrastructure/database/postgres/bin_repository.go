package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainBin "ecobin-telemetry/internal/domain/bin"
	"ecobin-telemetry/internal/infrastructure/database/postgres/models"
)

// BinRepository implements domainBin.Repository on postgres.
type BinRepository struct {
	db *DB
}

func NewBinRepository(db *DB) domainBin.Repository {
	return &BinRepository{db: db}
}

// Create inserts a new bin. A unique violation on bin_code is mapped to
// ErrBinAlreadyExists so the resolver can recover from creation races.
func (r *BinRepository) Create(ctx context.Context, b *domainBin.Bin) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()

	dbModel := models.ToBinModel(b)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainBin.ErrBinAlreadyExists
		}
		return fmt.Errorf("failed to create bin: %w", err)
	}

	b.ID = dbModel.ID
	b.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *BinRepository) GetByID(ctx context.Context, binID uuid.UUID) (*domainBin.Bin, error) {
	var dbModel models.BinModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", binID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainBin.ErrBinNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bin: %w", err)
	}

	return models.ToBinEntity(&dbModel), nil
}

func (r *BinRepository) GetByCode(ctx context.Context, code string) (*domainBin.Bin, error) {
	var dbModel models.BinModel
	err := r.db.DB.WithContext(ctx).
		Where("bin_code = ?", code).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainBin.ErrBinNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bin by code: %w", err)
	}

	return models.ToBinEntity(&dbModel), nil
}

func (r *BinRepository) Update(ctx context.Context, binID uuid.UUID, location *string, ownerUserID *uuid.UUID) (*domainBin.Bin, error) {
	updates := map[string]interface{}{}
	if location != nil {
		updates["location"] = *location
	}
	if ownerUserID != nil {
		updates["owner_user_id"] = *ownerUserID
	}
	if len(updates) == 0 {
		return nil, domainBin.ErrNoUpdates
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.BinModel{}).
		Where("id = ?", binID).
		Updates(updates)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update bin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainBin.ErrBinNotFound
	}

	return r.GetByID(ctx, binID)
}

func (r *BinRepository) List(ctx context.Context, filter *domainBin.Filter) ([]*domainBin.Bin, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.BinModel{}).
		Order("created_at DESC")

	if filter != nil && filter.OwnerUserID != nil {
		query = query.Where("owner_user_id = ?", *filter.OwnerUserID)
	}

	var dbModels []models.BinModel
	if err := query.Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list bins: %w", err)
	}

	bins := make([]*domainBin.Bin, len(dbModels))
	for i := range dbModels {
		bins[i] = models.ToBinEntity(&dbModels[i])
	}

	return bins, nil
}
