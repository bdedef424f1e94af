package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository handles database operations for the feed.
type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("posts"),
	}
}

// CreatePost inserts a new post.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	post.IsActive = true

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert post")
		return nil, fmt.Errorf("failed to insert post: %v", err)
	}
	post.ID = result.InsertedID.(primitive.ObjectID)
	return post, nil
}

// GetPostByID retrieves a post by its ID.
func (r *PostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// audienceClause builds the Mongo-side mirror of the audience predicate: a
// dimension passes when it is absent, empty, carries the "All" sentinel, or
// contains the viewer's attribute.
func audienceClause(field, attr string) bson.M {
	allowed := []string{"All", "all"}
	if attr != "" {
		allowed = append(allowed, attr)
	}
	return bson.M{"$or": []bson.M{
		{field: bson.M{"$exists": false}},
		{field: bson.M{"$size": 0}},
		{field: bson.M{"$in": allowed}},
	}}
}

// FeedFilter restricts the feed query to posts the viewer may see.
func FeedFilter(profile models.Profile) bson.M {
	return bson.M{
		"is_active": true,
		"$or": []bson.M{
			{"expires_at": bson.M{"$exists": false}},
			{"expires_at": nil},
			{"expires_at": bson.M{"$gt": time.Now()}},
		},
		"$and": []bson.M{
			audienceClause("target_audience.departments", profile.Department),
			audienceClause("target_audience.courses", profile.Course),
			audienceClause("target_audience.batches", profile.Batch),
			audienceClause("target_audience.roles", profile.Role),
		},
	}
}

// GetFeed returns a page of visible posts for the viewer, newest first.
func (r *PostRepository) GetFeed(ctx context.Context, profile models.Profile, postType string, page, limit int) ([]models.Post, int64, error) {
	filter := FeedFilter(profile)
	if postType != "" {
		filter["post_type"] = postType
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feed: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %v", err)
	}
	return posts, total, nil
}

// AddLike records a like unless the user already liked the post. Returns
// true when the like was added.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to like post: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveLike withdraws a like.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %v", err)
	}
	return nil
}

// AddComment appends a comment to the post.
func (r *PostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
	)
	if err != nil {
		return fmt.Errorf("failed to add comment: %v", err)
	}
	return nil
}

// AddShare records that the user shared the post.
func (r *PostRepository) AddShare(ctx context.Context, postID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"shares": userID}},
	)
	if err != nil {
		return fmt.Errorf("failed to share post: %v", err)
	}
	return nil
}

// AddVote records a poll vote unless the user already voted. Returns true
// when the vote was counted.
func (r *PostRepository) AddVote(ctx context.Context, postID primitive.ObjectID, vote models.Vote) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "poll.votes.user_id": bson.M{"$ne": vote.UserID}},
		bson.M{"$push": bson.M{"poll.votes": vote}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to record vote: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// AddReport flags the post unless the reporter already reported it. Returns
// true when the report was recorded.
func (r *PostRepository) AddReport(ctx context.Context, postID primitive.ObjectID, report models.Report) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID, "reports.reporter_id": bson.M{"$ne": report.ReporterID}},
		bson.M{
			"$push": bson.M{"reports": report},
			"$set":  bson.M{"is_reported": true},
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to report post: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// SoftDelete deactivates the post without removing it.
func (r *PostRepository) SoftDelete(ctx context.Context, postID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate post: %v", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Approve clears the reported flag and reactivates the post.
func (r *PostRepository) Approve(ctx context.Context, postID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"is_reported": false, "is_active": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to approve post: %v", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListReported returns a page of posts flagged for moderation.
func (r *PostRepository) ListReported(ctx context.Context, page, limit int) ([]models.Post, int64, error) {
	filter := bson.M{"is_reported": true}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reported posts: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reported posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %v", err)
	}
	return posts, total, nil
}

// DeactivateExpiredStories soft-deletes stories past their TTL and returns
// how many were swept.
func (r *PostRepository) DeactivateExpiredStories(ctx context.Context) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{
			"post_type":  models.PostStory,
			"is_active":  true,
			"expires_at": bson.M{"$lte": time.Now()},
		},
		bson.M{"$set": bson.M{"is_active": false}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired stories: %v", err)
	}
	return result.ModifiedCount, nil
}

// CountByType groups active post counts per post type.
func (r *PostRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	types := []string{
		models.PostAnnouncement, models.PostOpportunity, models.PostEvent,
		models.PostPoll, models.PostStory, models.PostGeneral,
	}
	for _, postType := range types {
		n, err := r.collection.CountDocuments(ctx, bson.M{"post_type": postType, "is_active": true})
		if err != nil {
			return nil, fmt.Errorf("failed to count posts by type: %v", err)
		}
		counts[postType] = n
	}
	return counts, nil
}
