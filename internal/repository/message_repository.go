package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository handles database operations for direct messages.
type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		collection: db.Collection("messages"),
	}
}

// InsertMessage stores a new message.
func (r *MessageRepository) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.PairKey = models.PairKey(msg.SenderID, msg.RecipientID)
	msg.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %v", err)
	}
	msg.ID = result.InsertedID.(primitive.ObjectID)
	return msg, nil
}

// GetConversation returns the full exchange between two users, oldest first.
func (r *MessageRepository) GetConversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"pair_key": models.PairKey(a, b)}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// MarkConversationRead marks every unread message addressed to the reader
// in this conversation.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, reader, partner primitive.ObjectID) error {
	now := time.Now()
	_, err := r.collection.UpdateMany(ctx,
		bson.M{
			"pair_key":     models.PairKey(reader, partner),
			"recipient_id": reader,
			"read":         false,
		},
		bson.M{"$set": bson.M{"read": true, "read_at": now}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark conversation read: %v", err)
	}
	return nil
}

// GetMessagesForUser returns every message the user sent or received,
// newest first. The service folds these into per-partner conversations.
func (r *MessageRepository) GetMessagesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID},
			{"recipient_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}
