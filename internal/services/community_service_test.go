package services

import (
	"testing"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCheckCommunityAccess(t *testing.T) {
	member := testUser(models.RoleTeacher)
	studentsOnly := models.Community{
		IsActive:    true,
		Eligibility: models.Audience{Roles: []string{models.RoleStudent}},
		Members: []models.CommunityMember{{
			UserID:   member.ID,
			Role:     models.MemberRoleMember,
			JoinedAt: time.Now(),
		}},
	}

	tests := []struct {
		name      string
		viewer    *models.User
		community models.Community
		wantErr   error
	}{
		{
			name:      "eligible non-member sees the community",
			viewer:    testUser(models.RoleStudent),
			community: studentsOnly,
		},
		{
			name:      "ineligible teacher non-member is forbidden",
			viewer:    testUser(models.RoleTeacher),
			community: studentsOnly,
			wantErr:   ErrForbidden,
		},
		{
			name:      "member keeps access despite eligibility mismatch",
			viewer:    member,
			community: studentsOnly,
		},
		{
			name:      "admin sees any community",
			viewer:    testUser(models.RoleAdmin),
			community: studentsOnly,
		},
		{
			name:      "inactive community is not found",
			viewer:    testUser(models.RoleStudent),
			community: models.Community{IsActive: false},
			wantErr:   ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkCommunityAccess(tt.viewer, &tt.community)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
