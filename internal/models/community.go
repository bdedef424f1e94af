package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Per-member roles inside a community.
const (
	MemberRoleMember    = "member"
	MemberRoleModerator = "moderator"
)

// Community is a themed group users join subject to eligibility rules.
type Community struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name             string               `bson:"name" json:"name"`
	Description      string               `bson:"description,omitempty" json:"description,omitempty"`
	CoverURL         string               `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	CreatorID        primitive.ObjectID   `bson:"creator_id" json:"creator_id"`
	Moderators       []primitive.ObjectID `bson:"moderators" json:"moderators"`
	Members          []CommunityMember    `bson:"members" json:"members"`
	MemberCount      int                  `bson:"member_count" json:"member_count"`
	Eligibility      Audience             `bson:"eligibility,omitempty" json:"eligibility,omitempty"`
	RequiresApproval bool                 `bson:"requires_approval" json:"requires_approval"`
	JoinRequests     []JoinRequest        `bson:"join_requests,omitempty" json:"join_requests,omitempty"`
	IsActive         bool                 `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}

// CommunityMember records a membership with its join time and role.
type CommunityMember struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// JoinRequest is a pending entry in the approval queue.
type JoinRequest struct {
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
}

// HasMember reports whether the user belongs to the community.
func (c *Community) HasMember(userID primitive.ObjectID) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// HasModerator reports whether the user moderates the community.
func (c *Community) HasModerator(userID primitive.ObjectID) bool {
	for _, m := range c.Moderators {
		if m == userID {
			return true
		}
	}
	return false
}

// HasJoinRequest reports whether the user already queued a join request.
func (c *Community) HasJoinRequest(userID primitive.ObjectID) bool {
	for _, r := range c.JoinRequests {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// CreateCommunityRequest is the payload for POST /communities.
type CreateCommunityRequest struct {
	Name             string   `json:"name" validate:"required,min=3,max=100"`
	Description      string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	CoverURL         string   `json:"cover_url,omitempty" validate:"omitempty,url"`
	Eligibility      Audience `json:"eligibility,omitempty"`
	RequiresApproval bool     `json:"requires_approval"`
}
