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

// ConnectionRepository stores one canonical edge per unordered user pair.
type ConnectionRepository struct {
	collection *mongo.Collection
}

func NewConnectionRepository(db *mongo.Database) *ConnectionRepository {
	return &ConnectionRepository{
		collection: db.Collection("connections"),
	}
}

// EnsureIndexes creates the unique index on pair_key. The one-edge-per-pair
// guarantee under concurrent inserts depends on it.
func (r *ConnectionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create connection index: %v", err)
	}
	return nil
}

// GetByPair returns the edge for the pair, or mongo.ErrNoDocuments.
func (r *ConnectionRepository) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	err := r.collection.FindOne(ctx, bson.M{"pair_key": models.PairKey(a, b)}).Decode(&conn)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetByID returns the edge by its document id.
func (r *ConnectionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conn)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// CreatePending inserts a fresh pending edge. The unique index on pair_key
// makes a concurrent double-insert fail rather than duplicate the edge.
func (r *ConnectionRepository) CreatePending(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error) {
	conn := &models.Connection{
		PairKey:     models.PairKey(requester, recipient),
		RequesterID: requester,
		RecipientID: recipient,
		Status:      models.ConnectionPending,
		CreatedAt:   time.Now(),
	}

	// The insert error is returned as-is so callers can recognize a
	// duplicate-key violation.
	result, err := r.collection.InsertOne(ctx, conn)
	if err != nil {
		return nil, err
	}
	conn.ID = result.InsertedID.(primitive.ObjectID)
	return conn, nil
}

// AcceptPending flips a pending edge to accepted. The status filter makes
// the transition a compare-and-set, so two racing accepts collapse to one.
func (r *ConnectionRepository) AcceptPending(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conn models.Connection
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.ConnectionPending},
		bson.M{"$set": bson.M{"status": models.ConnectionAccepted, "responded_at": now}},
		opts,
	).Decode(&conn)
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeletePending removes a pending edge (rejection).
func (r *ConnectionRepository) DeletePending(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "status": models.ConnectionPending})
	if err != nil {
		return fmt.Errorf("failed to delete connection request: %v", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteAccepted removes an accepted edge, returning the pair to none.
func (r *ConnectionRepository) DeleteAccepted(ctx context.Context, a, b primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"pair_key": models.PairKey(a, b),
		"status":   models.ConnectionAccepted,
	})
	if err != nil {
		return fmt.Errorf("failed to remove connection: %v", err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListAccepted returns every accepted edge touching the user.
func (r *ConnectionRepository) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"status": models.ConnectionAccepted,
		"$or": []bson.M{
			{"requester_id": userID},
			{"recipient_id": userID},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %v", err)
	}
	defer cursor.Close(ctx)

	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, fmt.Errorf("failed to decode connections: %v", err)
	}
	return conns, nil
}

// ListIncomingPending returns pending requests addressed to the user.
func (r *ConnectionRepository) ListIncomingPending(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{"recipient_id": userID, "status": models.ConnectionPending}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %v", err)
	}
	defer cursor.Close(ctx)

	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, fmt.Errorf("failed to decode pending requests: %v", err)
	}
	return conns, nil
}
