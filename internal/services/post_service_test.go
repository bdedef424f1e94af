package services

import (
	"testing"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidatePostDetails(t *testing.T) {
	starts := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name    string
		req     models.CreatePostRequest
		wantErr bool
	}{
		{
			name: "general post without details",
			req:  models.CreatePostRequest{PostType: models.PostGeneral, Content: "hello"},
		},
		{
			name: "story without details",
			req:  models.CreatePostRequest{PostType: models.PostStory, Content: "campus life"},
		},
		{
			name: "opportunity with company and position",
			req: models.CreatePostRequest{
				PostType:    models.PostOpportunity,
				Opportunity: &models.OpportunityDetails{Company: "Acme", Position: "Intern"},
			},
		},
		{
			name:    "opportunity missing details",
			req:     models.CreatePostRequest{PostType: models.PostOpportunity},
			wantErr: true,
		},
		{
			name: "opportunity missing position",
			req: models.CreatePostRequest{
				PostType:    models.PostOpportunity,
				Opportunity: &models.OpportunityDetails{Company: "Acme"},
			},
			wantErr: true,
		},
		{
			name: "event with venue and start time",
			req: models.CreatePostRequest{
				PostType: models.PostEvent,
				Event:    &models.EventDetails{Venue: "Main Hall", StartsAt: starts},
			},
		},
		{
			name: "event missing start time",
			req: models.CreatePostRequest{
				PostType: models.PostEvent,
				Event:    &models.EventDetails{Venue: "Main Hall"},
			},
			wantErr: true,
		},
		{
			name: "poll with two options",
			req: models.CreatePostRequest{
				PostType: models.PostPoll,
				Poll:     &models.PollDetails{Question: "Best lab slot?", Options: []string{"Morning", "Evening"}},
			},
		},
		{
			name: "poll with one option",
			req: models.CreatePostRequest{
				PostType: models.PostPoll,
				Poll:     &models.PollDetails{Question: "Best lab slot?", Options: []string{"Morning"}},
			},
			wantErr: true,
		},
		{
			name: "general post with stray poll block",
			req: models.CreatePostRequest{
				PostType: models.PostGeneral,
				Poll:     &models.PollDetails{Question: "?", Options: []string{"a", "b"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostDetails(&tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckPostVisibility(t *testing.T) {
	author := testUser(models.RoleStudent)
	expired := time.Now().Add(-time.Hour)

	studentsOnly := models.Audience{Roles: []string{models.RoleStudent}}

	tests := []struct {
		name    string
		viewer  *models.User
		post    models.Post
		wantErr error
	}{
		{
			name:   "matching audience sees the post",
			viewer: testUser(models.RoleStudent),
			post:   models.Post{AuthorID: author.ID, IsActive: true, TargetAudience: studentsOnly},
		},
		{
			name:    "teacher outside the audience is forbidden",
			viewer:  testUser(models.RoleTeacher),
			post:    models.Post{AuthorID: author.ID, IsActive: true, TargetAudience: studentsOnly},
			wantErr: ErrForbidden,
		},
		{
			name:    "principal outside the audience is forbidden",
			viewer:  testUser(models.RolePrincipal),
			post:    models.Post{AuthorID: author.ID, IsActive: true, TargetAudience: studentsOnly},
			wantErr: ErrForbidden,
		},
		{
			name:   "admin sees any audience",
			viewer: testUser(models.RoleAdmin),
			post:   models.Post{AuthorID: author.ID, IsActive: true, TargetAudience: studentsOnly},
		},
		{
			name:   "author sees own post outside the audience",
			viewer: author,
			post:   models.Post{AuthorID: author.ID, IsActive: true, TargetAudience: models.Audience{Roles: []string{models.RoleAlumni}}},
		},
		{
			name:    "soft-deleted post is not found",
			viewer:  testUser(models.RoleStudent),
			post:    models.Post{AuthorID: author.ID, IsActive: false},
			wantErr: ErrNotFound,
		},
		{
			name:    "expired story is not found even for the author",
			viewer:  author,
			post:    models.Post{AuthorID: author.ID, IsActive: true, PostType: models.PostStory, ExpiresAt: &expired},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPostVisibility(tt.viewer, &tt.post)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
