package place

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/placeshare-backend/internal/domain"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

type PlaceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, p *types.Place) (*types.Place, error)
	// GetByID returns (nil, nil) when no row matches.
	GetByID(ctx context.Context, tx *gorm.DB, placeID uuid.UUID) (*types.Place, error)
	// GetByIDWithCreator additionally resolves the Creator relation.
	GetByIDWithCreator(ctx context.Context, tx *gorm.DB, placeID uuid.UUID) (*types.Place, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Place, error)
	// ListByIDs returns places in the order of the given ids, skipping ids
	// with no matching row.
	ListByIDs(ctx context.Context, tx *gorm.DB, placeIDs []uuid.UUID) ([]*types.Place, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, placeID uuid.UUID, fields map[string]any) error
	DeleteByID(ctx context.Context, tx *gorm.DB, placeID uuid.UUID) error
	ListImageKeys(ctx context.Context, tx *gorm.DB) ([]string, error)
}

type placeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlaceRepo(db *gorm.DB, baseLog *logger.Logger) PlaceRepo {
	repoLog := baseLog.With("repo", "PlaceRepo")
	return &placeRepo{db: db, log: repoLog}
}

func (pr *placeRepo) Create(ctx context.Context, tx *gorm.DB, p *types.Place) (*types.Place, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (pr *placeRepo) GetByID(ctx context.Context, tx *gorm.DB, placeID uuid.UUID) (*types.Place, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Place
	err := transaction.WithContext(ctx).
		Where("id = ?", placeID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *placeRepo) GetByIDWithCreator(ctx context.Context, tx *gorm.DB, placeID uuid.UUID) (*types.Place, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Place
	err := transaction.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", placeID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *placeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Place, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Place
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *placeRepo) ListByIDs(ctx context.Context, tx *gorm.DB, placeIDs []uuid.UUID) ([]*types.Place, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Place
	if len(placeIDs) == 0 {
		return results, nil
	}

	var rows []*types.Place
	if err := transaction.WithContext(ctx).
		Where("id IN ?", placeIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*types.Place, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	for _, id := range placeIDs {
		if row, ok := byID[id]; ok {
			results = append(results, row)
		}
	}
	return results, nil
}

func (pr *placeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, placeID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Place{}).
		Where("id = ?", placeID).
		Updates(fields).Error
}

func (pr *placeRepo) DeleteByID(ctx context.Context, tx *gorm.DB, placeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", placeID).
		Delete(&types.Place{}).Error
}

func (pr *placeRepo) ListImageKeys(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var keys []string
	if err := transaction.WithContext(ctx).
		Model(&types.Place{}).
		Where("image_key <> ''").
		Pluck("image_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
