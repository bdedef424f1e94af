package permissions

import "github.com/campuslink/campuslink/internal/models"

// Capabilities is the fixed set of actions a role may perform. The lookup is
// a pure function of the role string; nothing here is stored per user.
type Capabilities struct {
	CanCreatePosts         bool `json:"can_create_posts"`
	CanCreateAnnouncements bool `json:"can_create_announcements"`
	CanCreateOpportunities bool `json:"can_create_opportunities"`
	CanCreateEvents        bool `json:"can_create_events"`
	CanCreatePolls         bool `json:"can_create_polls"`
	CanCreateStories       bool `json:"can_create_stories"`
	CanComment             bool `json:"can_comment"`
	CanLike                bool `json:"can_like"`
	CanMessage             bool `json:"can_message"`
	CanCreateCommunities   bool `json:"can_create_communities"`
	CanModerate            bool `json:"can_moderate"`
	CanVerifyUsers         bool `json:"can_verify_users"`
}

// roleTable maps each role to its capability set. Admins act only through
// moderation endpoints; their social-interaction flags stay false.
var roleTable = map[string]Capabilities{
	models.RoleStudent: {
		CanCreatePosts:   true,
		CanCreatePolls:   true,
		CanCreateStories: true,
		CanComment:       true,
		CanLike:          true,
		CanMessage:       true,
	},
	models.RoleAlumni: {
		CanCreatePosts:         true,
		CanCreateOpportunities: true,
		CanCreatePolls:         true,
		CanCreateStories:       true,
		CanComment:             true,
		CanLike:                true,
		CanMessage:             true,
	},
	models.RoleTeacher: {
		CanCreatePosts:         true,
		CanCreateAnnouncements: true,
		CanCreateOpportunities: true,
		CanCreateEvents:        true,
		CanCreatePolls:         true,
		CanComment:             true,
		CanLike:                true,
		CanMessage:             true,
		CanCreateCommunities:   true,
		CanModerate:            true,
	},
	models.RolePrincipal: {
		CanCreatePosts:         true,
		CanCreateAnnouncements: true,
		CanCreateOpportunities: true,
		CanCreateEvents:        true,
		CanCreatePolls:         true,
		CanComment:             true,
		CanLike:                true,
		CanMessage:             true,
		CanCreateCommunities:   true,
		CanModerate:            true,
	},
	models.RoleAdmin: {
		CanModerate:    true,
		CanVerifyUsers: true,
	},
}

// CapabilitiesFor returns the capability set for a role. Unknown roles get
// the zero set.
func CapabilitiesFor(role string) Capabilities {
	return roleTable[role]
}

// CanCreatePostType checks both the general posting capability and the
// per-type gate for the given role.
func CanCreatePostType(role, postType string) bool {
	caps := CapabilitiesFor(role)
	if !caps.CanCreatePosts {
		return false
	}
	switch postType {
	case models.PostAnnouncement:
		return caps.CanCreateAnnouncements
	case models.PostOpportunity:
		return caps.CanCreateOpportunities
	case models.PostEvent:
		return caps.CanCreateEvents
	case models.PostPoll:
		return caps.CanCreatePolls
	case models.PostStory:
		return caps.CanCreateStories
	case models.PostGeneral:
		return true
	default:
		return false
	}
}
