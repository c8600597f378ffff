package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`
	ImageKey string    `gorm:"column:image_key" json:"-"`
	ImageURL string    `gorm:"column:image_url" json:"image_url"`

	// PlaceIDs is the user's forward ownership index, loaded from the
	// user_place rows in position order. Not a column.
	PlaceIDs []uuid.UUID `gorm:"-" json:"places,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

// PlaceRef is one entry of a user's ordered place sequence. The rows live in
// their own table, independent of the place rows they point at; the two are
// only ever mutated together inside a transaction.
type PlaceRef struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PlaceID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"place_id"`
	Position  int       `gorm:"not null;column:ordinal" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PlaceRef) TableName() string { return "user_place" }
