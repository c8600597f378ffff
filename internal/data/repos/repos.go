package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/placeshare-backend/internal/data/repos/place"
	"github.com/yungbote/placeshare-backend/internal/data/repos/user"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PlaceRepo = place.PlaceRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewPlaceRepo(db *gorm.DB, baseLog *logger.Logger) PlaceRepo {
	return place.NewPlaceRepo(db, baseLog)
}
