package services

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/repository"
	"github.com/campuslink/campuslink/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminService handles the verification workflow and platform statistics.
type AdminService struct {
	userRepo      *repository.UserRepository
	postRepo      *repository.PostRepository
	communityRepo *repository.CommunityRepository
	notifications *NotificationService
	mailer        *email.Sender
}

func NewAdminService(userRepo *repository.UserRepository, postRepo *repository.PostRepository, communityRepo *repository.CommunityRepository, notifications *NotificationService, mailer *email.Sender) *AdminService {
	return &AdminService{
		userRepo:      userRepo,
		postRepo:      postRepo,
		communityRepo: communityRepo,
		notifications: notifications,
		mailer:        mailer,
	}
}

// ListUsers returns a page of users, optionally filtered by verification
// status.
func (s *AdminService) ListUsers(ctx context.Context, status string, page, limit int) ([]models.User, int64, error) {
	return s.userRepo.ListByStatus(ctx, status, page, limit)
}

// VerifyUser moves a pending account to verified and tells the user.
func (s *AdminService) VerifyUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if user.VerificationStatus != models.StatusPending {
		return nil, fmt.Errorf("%w: user is not pending verification", ErrConflict)
	}

	updated, err := s.userRepo.UpdateUserFields(ctx, userID, map[string]interface{}{
		"verification_status": models.StatusVerified,
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, userID, nil, models.NotifAccountVerified,
		"Your account has been verified. Welcome aboard!", nil)
	s.sendDecisionEmail(user.Email, "Account verified",
		fmt.Sprintf("Hi %s,\n\nYour account has been verified. You now have full access to the platform.", user.Name))

	logrus.WithField("userID", userID.Hex()).Info("User verified")
	return updated, nil
}

// BlockUser blocks an account. The block takes effect on the user's next
// request.
func (s *AdminService) BlockUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if user.VerificationStatus == models.StatusBlocked {
		return nil, fmt.Errorf("%w: user is already blocked", ErrConflict)
	}
	if user.Role == models.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot block an admin", ErrForbidden)
	}

	updated, err := s.userRepo.UpdateUserFields(ctx, userID, map[string]interface{}{
		"verification_status": models.StatusBlocked,
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, userID, nil, models.NotifAccountBlocked,
		"Your account has been blocked by an administrator.", nil)
	s.sendDecisionEmail(user.Email, "Account blocked",
		fmt.Sprintf("Hi %s,\n\nYour account has been blocked. Contact the administration for details.", user.Name))

	logrus.WithField("userID", userID.Hex()).Info("User blocked")
	return updated, nil
}

// UnblockUser restores a blocked account to verified.
func (s *AdminService) UnblockUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if user.VerificationStatus != models.StatusBlocked {
		return nil, fmt.Errorf("%w: user is not blocked", ErrConflict)
	}

	return s.userRepo.UpdateUserFields(ctx, userID, map[string]interface{}{
		"verification_status": models.StatusVerified,
	})
}

// sendDecisionEmail delivers a verification decision. Delivery is
// fire-and-forget: a failure is logged and never surfaces to the admin.
func (s *AdminService) sendDecisionEmail(to, subject, body string) {
	if s.mailer == nil {
		return
	}
	go func() {
		if err := s.mailer.Send(to, subject, body); err != nil {
			logrus.WithError(err).Warnf("Failed to send decision email to %s", to)
		}
	}()
}

// Stats summarizes platform activity for the admin dashboard.
type Stats struct {
	UsersByStatus map[string]int64 `json:"users_by_status"`
	PostsByType   map[string]int64 `json:"posts_by_type"`
	Communities   int64            `json:"communities"`
}

// GetStats collects the dashboard counters.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	usersByStatus, err := s.userRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	postsByType, err := s.postRepo.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	communities, err := s.communityRepo.CountCommunities(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		UsersByStatus: usersByStatus,
		PostsByType:   postsByType,
		Communities:   communities,
	}, nil
}
