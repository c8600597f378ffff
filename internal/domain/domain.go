package domain

import (
	"github.com/yungbote/placeshare-backend/internal/domain/place"
	"github.com/yungbote/placeshare-backend/internal/domain/user"
)

type User = user.User
type PlaceRef = user.PlaceRef

type Place = place.Place
type Coordinates = place.Coordinates
