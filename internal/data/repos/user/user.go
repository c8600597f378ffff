package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/placeshare-backend/internal/domain"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	UpdateAvatarFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, imageKey, imageURL string) error

	// AppendPlace and RemovePlace maintain the user's ordered place
	// sequence. Both sides of the user/place link must be written in the
	// same transaction, so callers are expected to pass a non-nil tx.
	AppendPlace(ctx context.Context, tx *gorm.DB, userID, placeID uuid.UUID) error
	RemovePlace(ctx context.Context, tx *gorm.DB, userID, placeID uuid.UUID) error
	ListPlaceIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)

	ListImageKeys(ctx context.Context, tx *gorm.DB) ([]string, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(userEmails) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("email IN ?", userEmails).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("email = ?", userEmail).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateAvatarFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, imageKey, imageURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"image_key": imageKey,
			"image_url": imageURL,
		}).Error
}

func (ur *userRepo) AppendPlace(ctx context.Context, tx *gorm.DB, userID, placeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var next int
	if err := transaction.WithContext(ctx).
		Model(&types.PlaceRef{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(ordinal)+1, 0)").
		Scan(&next).Error; err != nil {
		return err
	}

	ref := types.PlaceRef{
		UserID:   userID,
		PlaceID:  placeID,
		Position: next,
	}
	return transaction.WithContext(ctx).Create(&ref).Error
}

func (ur *userRepo) RemovePlace(ctx context.Context, tx *gorm.DB, userID, placeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND place_id = ?", userID, placeID).
		Delete(&types.PlaceRef{}).Error
}

func (ur *userRepo) ListPlaceIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var refs []*types.PlaceRef
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ordinal ASC").
		Find(&refs).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.PlaceID)
	}
	return ids, nil
}

func (ur *userRepo) ListImageKeys(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var keys []string
	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("image_key <> ''").
		Pluck("image_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
