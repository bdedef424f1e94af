package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostService handles the feed: typed posts, visibility, engagement and
// moderation.
type PostService struct {
	repo          *repository.PostRepository
	notifications *NotificationService
}

func NewPostService(repo *repository.PostRepository, notifications *NotificationService) *PostService {
	return &PostService{
		repo:          repo,
		notifications: notifications,
	}
}

// ValidatePostDetails checks that exactly the detail block matching the
// post type is populated and well formed.
func ValidatePostDetails(req *models.CreatePostRequest) error {
	switch req.PostType {
	case models.PostOpportunity:
		if req.Opportunity == nil || req.Opportunity.Company == "" || req.Opportunity.Position == "" {
			return fmt.Errorf("%w: opportunity posts need company and position", ErrValidation)
		}
	case models.PostEvent:
		if req.Event == nil || req.Event.Venue == "" || req.Event.StartsAt.IsZero() {
			return fmt.Errorf("%w: event posts need venue and start time", ErrValidation)
		}
	case models.PostPoll:
		if req.Poll == nil || req.Poll.Question == "" || len(req.Poll.Options) < 2 {
			return fmt.Errorf("%w: poll posts need a question and at least two options", ErrValidation)
		}
	default:
		if req.Opportunity != nil || req.Event != nil || req.Poll != nil {
			return fmt.Errorf("%w: detail block does not match post type", ErrValidation)
		}
	}
	return nil
}

// CreatePost creates a typed post on behalf of the author.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error) {
	if !permissions.CanCreatePostType(author.Role, req.PostType) {
		return nil, fmt.Errorf("%w: role %s may not create %s posts", ErrForbidden, author.Role, req.PostType)
	}
	if err := ValidatePostDetails(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:       author.ID,
		PostType:       req.PostType,
		Content:        req.Content,
		MediaURLs:      req.MediaURLs,
		TargetAudience: req.TargetAudience,
		Opportunity:    req.Opportunity,
		Event:          req.Event,
	}

	if req.PostType == models.PostPoll {
		post.Poll = &models.PollDetails{
			Question: req.Poll.Question,
			Options:  req.Poll.Options,
		}
	}
	if req.PostType == models.PostStory {
		expiry := time.Now().Add(models.StoryTTL)
		post.ExpiresAt = &expiry
	}

	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"postID":   created.ID.Hex(),
		"postType": created.PostType,
		"authorID": author.ID.Hex(),
	}).Info("Post created")
	return created, nil
}

// GetFeed returns the page of posts visible to the viewer.
func (s *PostService) GetFeed(ctx context.Context, viewer *models.User, postType string, page, limit int) ([]models.Post, int64, error) {
	return s.repo.GetFeed(ctx, viewer.Profile(), postType, page, limit)
}

// checkPostVisibility applies the visibility rules: soft-deleted or expired
// posts are not found; an audience mismatch is forbidden. The author sees
// their own posts; admins see everything for moderation.
func checkPostVisibility(viewer *models.User, post *models.Post) error {
	if !post.IsActive {
		return fmt.Errorf("%w: post not found", ErrNotFound)
	}
	if post.ExpiresAt != nil && post.ExpiresAt.Before(time.Now()) {
		return fmt.Errorf("%w: post not found", ErrNotFound)
	}

	if viewer.Role == models.RoleAdmin || post.AuthorID == viewer.ID {
		return nil
	}
	if !permissions.MatchesAudience(post.TargetAudience, viewer.Profile()) {
		return fmt.Errorf("%w: post not targeted at you", ErrForbidden)
	}
	return nil
}

// GetVisiblePost loads a post on behalf of a viewer.
func (s *PostService) GetVisiblePost(ctx context.Context, viewer *models.User, postID primitive.ObjectID) (*models.Post, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("%w: post not found", ErrNotFound)
	}
	if err := checkPostVisibility(viewer, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike likes the post, or withdraws an existing like. Returns true
// when the post ends up liked.
func (s *PostService) ToggleLike(ctx context.Context, viewer *models.User, postID primitive.ObjectID) (bool, error) {
	if !permissions.CapabilitiesFor(viewer.Role).CanLike {
		return false, fmt.Errorf("%w: role %s may not like posts", ErrForbidden, viewer.Role)
	}

	post, err := s.GetVisiblePost(ctx, viewer, postID)
	if err != nil {
		return false, err
	}

	added, err := s.repo.AddLike(ctx, postID, viewer.ID)
	if err != nil {
		return false, err
	}
	if !added {
		// Already liked: treat as a toggle off.
		return false, s.repo.RemoveLike(ctx, postID, viewer.ID)
	}

	if post.AuthorID != viewer.ID {
		s.notifications.Notify(ctx, post.AuthorID, &viewer.ID, models.NotifPostLike,
			fmt.Sprintf("%s liked your post", viewer.Name),
			map[string]string{"post_id": postID.Hex()})
	}
	return true, nil
}

// AddComment appends a comment to a visible post.
func (s *PostService) AddComment(ctx context.Context, viewer *models.User, postID primitive.ObjectID, content string) (*models.Comment, error) {
	if !permissions.CapabilitiesFor(viewer.Role).CanComment {
		return nil, fmt.Errorf("%w: role %s may not comment", ErrForbidden, viewer.Role)
	}

	post, err := s.GetVisiblePost(ctx, viewer, postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		AuthorID:  viewer.ID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	if post.AuthorID != viewer.ID {
		s.notifications.Notify(ctx, post.AuthorID, &viewer.ID, models.NotifPostComment,
			fmt.Sprintf("%s commented on your post", viewer.Name),
			map[string]string{"post_id": postID.Hex()})
	}
	return &comment, nil
}

// SharePost records a share of a visible post.
func (s *PostService) SharePost(ctx context.Context, viewer *models.User, postID primitive.ObjectID) error {
	if _, err := s.GetVisiblePost(ctx, viewer, postID); err != nil {
		return err
	}
	return s.repo.AddShare(ctx, postID, viewer.ID)
}

// Vote records a poll choice. A second vote from the same user is a
// conflict.
func (s *PostService) Vote(ctx context.Context, viewer *models.User, postID primitive.ObjectID, option int) error {
	post, err := s.GetVisiblePost(ctx, viewer, postID)
	if err != nil {
		return err
	}
	if post.PostType != models.PostPoll || post.Poll == nil {
		return fmt.Errorf("%w: post is not a poll", ErrValidation)
	}
	if option < 0 || option >= len(post.Poll.Options) {
		return fmt.Errorf("%w: option out of range", ErrValidation)
	}

	counted, err := s.repo.AddVote(ctx, postID, models.Vote{
		UserID:  viewer.ID,
		Option:  option,
		VotedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !counted {
		return fmt.Errorf("%w: already voted", ErrConflict)
	}
	return nil
}

// ReportPost flags a post for moderation, once per reporter.
func (s *PostService) ReportPost(ctx context.Context, viewer *models.User, postID primitive.ObjectID, reason string) error {
	if _, err := s.GetVisiblePost(ctx, viewer, postID); err != nil {
		return err
	}

	recorded, err := s.repo.AddReport(ctx, postID, models.Report{
		ReporterID: viewer.ID,
		Reason:     reason,
		ReportedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !recorded {
		return fmt.Errorf("%w: already reported", ErrConflict)
	}
	return nil
}

// DeletePost soft-deletes a post. Only the author or a platform admin may.
func (s *PostService) DeletePost(ctx context.Context, caller *models.User, postID primitive.ObjectID) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("%w: post not found", ErrNotFound)
	}
	if post.AuthorID != caller.ID && caller.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only the author or an admin may delete a post", ErrForbidden)
	}

	if err := s.repo.SoftDelete(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: post not found", ErrNotFound)
		}
		return err
	}

	logrus.WithFields(logrus.Fields{
		"postID":   postID.Hex(),
		"callerID": caller.ID.Hex(),
	}).Info("Post soft-deleted")
	return nil
}

// ApprovePost clears the reported flag after admin review.
func (s *PostService) ApprovePost(ctx context.Context, postID primitive.ObjectID) error {
	if err := s.repo.Approve(ctx, postID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: post not found", ErrNotFound)
		}
		return err
	}
	return nil
}

// GetReportedPosts returns the moderation queue.
func (s *PostService) GetReportedPosts(ctx context.Context, page, limit int) ([]models.Post, int64, error) {
	return s.repo.ListReported(ctx, page, limit)
}

// SweepExpiredStories deactivates stories past their TTL.
func (s *PostService) SweepExpiredStories(ctx context.Context) error {
	swept, err := s.repo.DeactivateExpiredStories(ctx)
	if err != nil {
		return err
	}
	if swept > 0 {
		logrus.Infof("Deactivated %d expired stories", swept)
	}
	return nil
}
