package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types. The type governs which detail block may be populated.
const (
	PostAnnouncement = "announcement"
	PostOpportunity  = "opportunity"
	PostEvent        = "event"
	PostPoll         = "poll"
	PostStory        = "story"
	PostGeneral      = "general"
)

// StoryTTL is how long a story stays visible.
const StoryTTL = 24 * time.Hour

// Post is a feed item authored by a user.
type Post struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID       primitive.ObjectID `bson:"author_id" json:"author_id"`
	PostType       string             `bson:"post_type" json:"post_type"`
	Content        string             `bson:"content" json:"content"`
	MediaURLs      []string           `bson:"media_urls,omitempty" json:"media_urls,omitempty"`
	TargetAudience Audience           `bson:"target_audience,omitempty" json:"target_audience,omitempty"`

	Opportunity *OpportunityDetails `bson:"opportunity,omitempty" json:"opportunity,omitempty"`
	Event       *EventDetails       `bson:"event,omitempty" json:"event,omitempty"`
	Poll        *PollDetails        `bson:"poll,omitempty" json:"poll,omitempty"`

	Likes    []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments []Comment            `bson:"comments,omitempty" json:"comments,omitempty"`
	Shares   []primitive.ObjectID `bson:"shares,omitempty" json:"shares,omitempty"`
	Reports  []Report             `bson:"reports,omitempty" json:"reports,omitempty"`

	IsActive   bool       `bson:"is_active" json:"is_active"`
	IsReported bool       `bson:"is_reported" json:"is_reported"`
	ExpiresAt  *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// OpportunityDetails describes a job or internship opening.
type OpportunityDetails struct {
	Company   string     `bson:"company" json:"company"`
	Position  string     `bson:"position" json:"position"`
	ApplyLink string     `bson:"apply_link,omitempty" json:"apply_link,omitempty"`
	Deadline  *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
}

// EventDetails describes a campus event.
type EventDetails struct {
	Venue    string    `bson:"venue" json:"venue"`
	StartsAt time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
}

// PollDetails holds the question, options and recorded votes of a poll post.
type PollDetails struct {
	Question string   `bson:"question" json:"question"`
	Options  []string `bson:"options" json:"options"`
	Votes    []Vote   `bson:"votes,omitempty" json:"votes,omitempty"`
}

// Vote is a single user's choice on a poll.
type Vote struct {
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Option  int                `bson:"option" json:"option"`
	VotedAt time.Time          `bson:"voted_at" json:"voted_at"`
}

// Comment is an inline reply on a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"id" json:"id"`
	AuthorID  primitive.ObjectID `bson:"author_id" json:"author_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Report is a moderation flag raised by a viewer.
type Report struct {
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`
	ReportedAt time.Time          `bson:"reported_at" json:"reported_at"`
}

// CreatePostRequest is the payload for POST /posts.
type CreatePostRequest struct {
	PostType       string   `json:"post_type" validate:"required,oneof=announcement opportunity event poll story general"`
	Content        string   `json:"content" validate:"required,min=1,max=5000"`
	MediaURLs      []string `json:"media_urls,omitempty" validate:"omitempty,dive,url"`
	TargetAudience Audience `json:"target_audience,omitempty"`

	Opportunity *OpportunityDetails `json:"opportunity,omitempty"`
	Event       *EventDetails       `json:"event,omitempty"`
	Poll        *PollDetails        `json:"poll,omitempty"`
}

// CommentRequest is the payload for POST /posts/{id}/comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// VoteRequest is the payload for POST /posts/{id}/vote.
type VoteRequest struct {
	Option int `json:"option" validate:"min=0"`
}

// ReportRequest is the payload for POST /posts/{id}/report.
type ReportRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}
