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

// CommunityRepository handles database operations for communities.
type CommunityRepository struct {
	collection *mongo.Collection
}

func NewCommunityRepository(db *mongo.Database) *CommunityRepository {
	return &CommunityRepository{
		collection: db.Collection("communities"),
	}
}

// CreateCommunity inserts a new community.
func (r *CommunityRepository) CreateCommunity(ctx context.Context, community *models.Community) (*models.Community, error) {
	community.CreatedAt = time.Now()
	community.UpdatedAt = time.Now()
	community.IsActive = true

	result, err := r.collection.InsertOne(ctx, community)
	if err != nil {
		return nil, fmt.Errorf("failed to insert community: %v", err)
	}
	community.ID = result.InsertedID.(primitive.ObjectID)
	return community, nil
}

// GetCommunityByID retrieves a community by its ID.
func (r *CommunityRepository) GetCommunityByID(ctx context.Context, id primitive.ObjectID) (*models.Community, error) {
	var community models.Community
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&community)
	if err != nil {
		return nil, err
	}
	return &community, nil
}

// ListCommunities returns a page of active communities the viewer is
// eligible for, newest first.
func (r *CommunityRepository) ListCommunities(ctx context.Context, profile models.Profile, page, limit int) ([]models.Community, int64, error) {
	filter := bson.M{
		"is_active": true,
		"$and": []bson.M{
			audienceClause("eligibility.departments", profile.Department),
			audienceClause("eligibility.courses", profile.Course),
			audienceClause("eligibility.batches", profile.Batch),
			audienceClause("eligibility.roles", profile.Role),
		},
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count communities: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communities: %v", err)
	}
	defer cursor.Close(ctx)

	var communities []models.Community
	if err := cursor.All(ctx, &communities); err != nil {
		return nil, 0, fmt.Errorf("failed to decode communities: %v", err)
	}
	return communities, total, nil
}

// AddMember adds the user unless they already belong. The membership filter
// makes the add-and-increment a single conditional write. Returns true when
// the member was added.
func (r *CommunityRepository) AddMember(ctx context.Context, communityID primitive.ObjectID, member models.CommunityMember) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": communityID, "members.user_id": bson.M{"$ne": member.UserID}},
		bson.M{
			"$push": bson.M{"members": member},
			"$inc":  bson.M{"member_count": 1},
			"$pull": bson.M{"join_requests": bson.M{"user_id": member.UserID}},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to add member: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveMember drops the user from the member list.
func (r *CommunityRepository) RemoveMember(ctx context.Context, communityID, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": communityID, "members.user_id": userID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user_id": userID}},
			"$inc":  bson.M{"member_count": -1},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %v", err)
	}
	if result.ModifiedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddJoinRequest queues a join request unless one is already pending.
// Returns true when the request was queued.
func (r *CommunityRepository) AddJoinRequest(ctx context.Context, communityID primitive.ObjectID, request models.JoinRequest) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                   communityID,
			"join_requests.user_id": bson.M{"$ne": request.UserID},
			"members.user_id":       bson.M{"$ne": request.UserID},
		},
		bson.M{"$push": bson.M{"join_requests": request}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to queue join request: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveJoinRequest drops a queued join request.
func (r *CommunityRepository) RemoveJoinRequest(ctx context.Context, communityID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$pull": bson.M{"join_requests": bson.M{"user_id": userID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove join request: %v", err)
	}
	return nil
}

// CountCommunities returns the number of active communities.
func (r *CommunityRepository) CountCommunities(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"is_active": true})
}
