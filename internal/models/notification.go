// internal/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`

	// Referenced item, when the notification is about a concrete report.
	// Location-level alerts carry no item reference.
	ItemID   *primitive.ObjectID `bson:"item_id,omitempty" json:"item_id,omitempty"`
	ItemName string              `bson:"item_name,omitempty" json:"item_name,omitempty"`
	Location string              `bson:"location,omitempty" json:"location,omitempty"`
	Date     string              `bson:"date,omitempty" json:"date,omitempty"`
	Image    string              `bson:"image,omitempty" json:"image,omitempty"`

	// Flagged account, set only for fraud_alert notifications.
	SubjectID *primitive.ObjectID `bson:"subject_id,omitempty" json:"subject_id,omitempty"`

	Kind    string `bson:"kind" json:"type"`
	Title   string `bson:"title" json:"title"`
	Message string `bson:"message" json:"message"`

	// Match metadata, set only for match_found notifications
	SimilarityScore int    `bson:"similarity_score,omitempty" json:"similarity_score,omitempty"`
	Confidence      string `bson:"confidence,omitempty" json:"confidence,omitempty"`

	ActionRequired bool `bson:"action_required" json:"action_required"`

	// Read state, mutated only by the recipient
	IsRead    bool       `bson:"is_read" json:"read_status"`
	IsViewed  bool       `bson:"is_viewed" json:"is_viewed"`
	ReadAt    *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

// Notification kinds
const (
	NotificationKindLostReport  = "lost_report"
	NotificationKindFoundReport = "found_report"
	NotificationKindMatchFound  = "match_found"
	NotificationKindLocation    = "location_risk"
	NotificationKindHotspot     = "location_hotspot"
	NotificationKindFraud       = "fraud_alert"
)

func (n *Notification) IsMatch() bool {
	return n.Kind == NotificationKindMatchFound
}
