package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification event kinds.
const (
	NotifConnectionRequest  = "connection_request"
	NotifConnectionAccepted = "connection_accepted"
	NotifPostLike           = "post_like"
	NotifPostComment        = "post_comment"
	NotifJoinRequest        = "community_join_request"
	NotifJoinApproved       = "community_join_approved"
	NotifAccountVerified    = "account_verified"
	NotifAccountBlocked     = "account_blocked"
)

// NotificationTTL is how long a notification is kept before the cleanup
// sweep removes it.
const NotificationTTL = 30 * 24 * time.Hour

// Notification is a per-user event record.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID  `bson:"recipient_id" json:"recipient_id"`
	SenderID    *primitive.ObjectID `bson:"sender_id,omitempty" json:"sender_id,omitempty"`
	Type        string              `bson:"type" json:"type"`
	Message     string              `bson:"message" json:"message"`
	Data        map[string]string   `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool                `bson:"read" json:"read"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time           `bson:"expires_at" json:"expires_at"`
}
