package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a direct message between two connected users.
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PairKey     string             `bson:"pair_key" json:"-"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Content     string             `bson:"content" json:"content"`
	Read        bool               `bson:"read" json:"read"`
	ReadAt      *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Conversation summarizes the exchange with one partner for the inbox list.
type Conversation struct {
	Partner     PublicUser `json:"partner"`
	LastMessage Message    `json:"last_message"`
	UnreadCount int        `json:"unread_count"`
}

// SendMessageRequest is the payload for POST /messages/send.
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,len=24,hexadecimal"`
	Content     string `json:"content" validate:"required,min=1,max=2000"`
}
