package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	types "github.com/yungbote/placeshare-backend/internal/domain"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

type UserService interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
	}

	result := users[0]
	ids, err := us.userRepo.ListPlaceIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list place ids: %w: %v", pkgerrors.ErrPersistence, err)
	}
	result.PlaceIDs = ids
	return result, nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w: %v", pkgerrors.ErrPersistence, err)
	}
	for _, u := range users {
		ids, err := us.userRepo.ListPlaceIDs(ctx, nil, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list place ids: %w: %v", pkgerrors.ErrPersistence, err)
		}
		u.PlaceIDs = ids
	}
	return users, nil
}
