package permissions

import (
	"testing"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCapabilitiesForIsPure(t *testing.T) {
	first := CapabilitiesFor(models.RoleTeacher)
	second := CapabilitiesFor(models.RoleTeacher)
	assert.Equal(t, first, second)
}

func TestAdminHasNoSocialCapabilities(t *testing.T) {
	caps := CapabilitiesFor(models.RoleAdmin)
	assert.False(t, caps.CanCreatePosts)
	assert.False(t, caps.CanComment)
	assert.False(t, caps.CanLike)
	assert.True(t, caps.CanModerate)
	assert.True(t, caps.CanVerifyUsers)
}

func TestUnknownRoleGetsZeroCapabilities(t *testing.T) {
	assert.Equal(t, Capabilities{}, CapabilitiesFor("janitor"))
	assert.Equal(t, Capabilities{}, CapabilitiesFor(""))
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role        string
		canPost     bool
		canAnnounce bool
		canMessage  bool
	}{
		{models.RoleStudent, true, false, true},
		{models.RoleAlumni, true, false, true},
		{models.RoleTeacher, true, true, true},
		{models.RolePrincipal, true, true, true},
		{models.RoleAdmin, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			caps := CapabilitiesFor(tt.role)
			assert.Equal(t, tt.canPost, caps.CanCreatePosts)
			assert.Equal(t, tt.canAnnounce, caps.CanCreateAnnouncements)
			assert.Equal(t, tt.canMessage, caps.CanMessage)
		})
	}
}

func TestCanCreatePostType(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		postType string
		want     bool
	}{
		{"student general", models.RoleStudent, models.PostGeneral, true},
		{"student story", models.RoleStudent, models.PostStory, true},
		{"student announcement", models.RoleStudent, models.PostAnnouncement, false},
		{"student opportunity", models.RoleStudent, models.PostOpportunity, false},
		{"alumni opportunity", models.RoleAlumni, models.PostOpportunity, true},
		{"teacher announcement", models.RoleTeacher, models.PostAnnouncement, true},
		{"teacher event", models.RoleTeacher, models.PostEvent, true},
		{"principal poll", models.RolePrincipal, models.PostPoll, true},
		{"admin general", models.RoleAdmin, models.PostGeneral, false},
		{"admin announcement", models.RoleAdmin, models.PostAnnouncement, false},
		{"unknown type", models.RoleTeacher, "rant", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanCreatePostType(tt.role, tt.postType))
		})
	}
}
