package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommunityService handles community creation, membership and the join
// approval queue.
type CommunityService struct {
	repo          *repository.CommunityRepository
	notifications *NotificationService
}

func NewCommunityService(repo *repository.CommunityRepository, notifications *NotificationService) *CommunityService {
	return &CommunityService{
		repo:          repo,
		notifications: notifications,
	}
}

// CreateCommunity creates a community with the caller as creator, first
// moderator and first member.
func (s *CommunityService) CreateCommunity(ctx context.Context, creator *models.User, req *models.CreateCommunityRequest) (*models.Community, error) {
	if !permissions.CapabilitiesFor(creator.Role).CanCreateCommunities {
		return nil, fmt.Errorf("%w: role %s may not create communities", ErrForbidden, creator.Role)
	}

	community := &models.Community{
		Name:             req.Name,
		Description:      req.Description,
		CoverURL:         req.CoverURL,
		CreatorID:        creator.ID,
		Moderators:       []primitive.ObjectID{creator.ID},
		Members: []models.CommunityMember{{
			UserID:   creator.ID,
			Role:     models.MemberRoleModerator,
			JoinedAt: time.Now(),
		}},
		MemberCount:      1,
		Eligibility:      req.Eligibility,
		RequiresApproval: req.RequiresApproval,
	}

	created, err := s.repo.CreateCommunity(ctx, community)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"communityID": created.ID.Hex(),
		"creatorID":   creator.ID.Hex(),
	}).Info("Community created")
	return created, nil
}

// ListCommunities returns the page of communities the viewer is eligible
// for.
func (s *CommunityService) ListCommunities(ctx context.Context, viewer *models.User, page, limit int) ([]models.Community, int64, error) {
	return s.repo.ListCommunities(ctx, viewer.Profile(), page, limit)
}

// checkCommunityAccess applies the eligibility rule for viewing a
// community. Members keep access regardless of eligibility drift; admins
// see everything for moderation.
func checkCommunityAccess(viewer *models.User, community *models.Community) error {
	if !community.IsActive {
		return fmt.Errorf("%w: community not found", ErrNotFound)
	}

	if viewer.Role == models.RoleAdmin || community.HasMember(viewer.ID) {
		return nil
	}
	if !permissions.MatchesAudience(community.Eligibility, viewer.Profile()) {
		return fmt.Errorf("%w: you are not eligible for this community", ErrForbidden)
	}
	return nil
}

// GetCommunity loads a community on behalf of a viewer.
func (s *CommunityService) GetCommunity(ctx context.Context, viewer *models.User, id primitive.ObjectID) (*models.Community, error) {
	community, err := s.repo.GetCommunityByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: community not found", ErrNotFound)
	}
	if err := checkCommunityAccess(viewer, community); err != nil {
		return nil, err
	}
	return community, nil
}

// JoinCommunity adds the caller as a member, or queues a join request when
// the community requires approval.
func (s *CommunityService) JoinCommunity(ctx context.Context, user *models.User, communityID primitive.ObjectID) (pending bool, err error) {
	community, err := s.repo.GetCommunityByID(ctx, communityID)
	if err != nil || !community.IsActive {
		return false, fmt.Errorf("%w: community not found", ErrNotFound)
	}
	if !permissions.MatchesAudience(community.Eligibility, user.Profile()) {
		return false, fmt.Errorf("%w: you are not eligible for this community", ErrForbidden)
	}
	if community.HasMember(user.ID) {
		return false, fmt.Errorf("%w: already a member", ErrConflict)
	}

	if community.RequiresApproval {
		queued, err := s.repo.AddJoinRequest(ctx, communityID, models.JoinRequest{
			UserID:      user.ID,
			RequestedAt: time.Now(),
		})
		if err != nil {
			return false, err
		}
		if !queued {
			return false, fmt.Errorf("%w: join request already pending", ErrConflict)
		}

		for _, moderator := range community.Moderators {
			s.notifications.Notify(ctx, moderator, &user.ID, models.NotifJoinRequest,
				fmt.Sprintf("%s requested to join %s", user.Name, community.Name),
				map[string]string{"community_id": communityID.Hex()})
		}
		return true, nil
	}

	added, err := s.repo.AddMember(ctx, communityID, models.CommunityMember{
		UserID:   user.ID,
		Role:     models.MemberRoleMember,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return false, err
	}
	if !added {
		return false, fmt.Errorf("%w: already a member", ErrConflict)
	}
	return false, nil
}

// RespondToJoinRequest lets a community moderator approve or reject a
// queued join request.
func (s *CommunityService) RespondToJoinRequest(ctx context.Context, moderator *models.User, communityID, applicantID primitive.ObjectID, approve bool) error {
	community, err := s.repo.GetCommunityByID(ctx, communityID)
	if err != nil || !community.IsActive {
		return fmt.Errorf("%w: community not found", ErrNotFound)
	}
	if !community.HasModerator(moderator.ID) && moderator.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only moderators may respond to join requests", ErrForbidden)
	}
	if !community.HasJoinRequest(applicantID) {
		return fmt.Errorf("%w: join request not found", ErrNotFound)
	}

	if !approve {
		return s.repo.RemoveJoinRequest(ctx, communityID, applicantID)
	}

	added, err := s.repo.AddMember(ctx, communityID, models.CommunityMember{
		UserID:   applicantID,
		Role:     models.MemberRoleMember,
		JoinedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("%w: applicant is already a member", ErrConflict)
	}

	s.notifications.Notify(ctx, applicantID, &moderator.ID, models.NotifJoinApproved,
		fmt.Sprintf("Your request to join %s was approved", community.Name),
		map[string]string{"community_id": communityID.Hex()})
	return nil
}

// LeaveCommunity removes the caller from the member list. The creator
// cannot leave their own community.
func (s *CommunityService) LeaveCommunity(ctx context.Context, user *models.User, communityID primitive.ObjectID) error {
	community, err := s.repo.GetCommunityByID(ctx, communityID)
	if err != nil || !community.IsActive {
		return fmt.Errorf("%w: community not found", ErrNotFound)
	}
	if community.CreatorID == user.ID {
		return fmt.Errorf("%w: the creator cannot leave their community", ErrValidation)
	}

	if err := s.repo.RemoveMember(ctx, communityID, user.ID); err != nil {
		return fmt.Errorf("%w: not a member", ErrNotFound)
	}
	return nil
}
