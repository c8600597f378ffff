package place

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/placeshare-backend/internal/domain/user"
)

type Coordinates struct {
	Lat float64 `gorm:"column:lat" json:"lat"`
	Lng float64 `gorm:"column:lng" json:"lng"`
}

type Place struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string      `gorm:"not null;column:title" json:"title"`
	Description string      `gorm:"not null;column:description" json:"description"`
	Address     string      `gorm:"not null;column:address" json:"address"`
	Location    Coordinates `gorm:"embedded" json:"location"`
	ImageKey    string      `gorm:"not null;column:image_key" json:"-"`
	ImageURL    string      `gorm:"column:image_url" json:"image_url"`

	// CreatorID is immutable after creation. Every place row must have a
	// matching user_place row for its creator, and vice versa.
	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index;column:creator_id" json:"creator_id"`
	Creator   *user.User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Place) TableName() string { return "place" }

// OwnedBy is the one ownership check used everywhere a mutation is gated.
// Both sides are uuid.UUID, so the comparison is canonical by construction.
func (p *Place) OwnedBy(actorUserID uuid.UUID) bool {
	if p == nil || actorUserID == uuid.Nil {
		return false
	}
	return p.CreatorID == actorUserID
}
