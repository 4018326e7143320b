// internal/models/item.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-date format used for item and notification dates.
const DateLayout = "2006-01-02"

type Item struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"user_id"`

	// Report details
	Type        string `bson:"type" json:"type" validate:"required,oneof=lost found"`
	Category    string `bson:"category" json:"category" validate:"required,max=50"`
	Name        string `bson:"item_name" json:"item_name" validate:"required,min=2,max=100"`
	Description string `bson:"description" json:"description" validate:"max=1000"`
	Location    string `bson:"location" json:"location" validate:"required,max=200"`
	Date        string `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	ContactInfo string `bson:"contact_info" json:"contact_info" validate:"max=200"`

	// Optional base64-encoded photo
	Image string `bson:"image,omitempty" json:"image,omitempty"`

	// Lifecycle
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Item types
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses. The only legal transition is active -> resolved, by the owner.
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
)

func (i *Item) IsActive() bool {
	return i.Status == ItemStatusActive
}

// OppositeType returns the report type this item can be matched against.
func (i *Item) OppositeType() string {
	if i.Type == ItemTypeLost {
		return ItemTypeFound
	}
	return ItemTypeLost
}

// ParseDate parses a calendar date in YYYY-MM-DD form. The second return is
// false for empty or malformed input so callers can degrade instead of failing.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
