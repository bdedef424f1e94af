package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection edge states.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
)

// Connection is the single canonical edge between two users, keyed by the
// unordered pair. There is at most one document per pair; removal deletes it.
type Connection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey     string             `bson:"pair_key" json:"-"`
	RequesterID primitive.ObjectID `bson:"requester_id" json:"requester_id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}

// PairKey builds the canonical key for an unordered user pair.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if strings.Compare(ah, bh) > 0 {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// Other returns the opposite endpoint of the edge.
func (c *Connection) Other(userID primitive.ObjectID) primitive.ObjectID {
	if c.RequesterID == userID {
		return c.RecipientID
	}
	return c.RequesterID
}
