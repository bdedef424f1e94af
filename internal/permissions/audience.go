package permissions

import (
	"strings"

	"github.com/campuslink/campuslink/internal/models"
)

// MatchesAudience decides whether a user profile passes an audience
// descriptor. Each dimension that is non-empty and does not carry the "All"
// sentinel must contain the profile's value; a profile missing an attribute
// on a restricted dimension is rejected. Empty or sentinel dimensions never
// reject.
func MatchesAudience(aud models.Audience, profile models.Profile) bool {
	return dimensionAllows(aud.Departments, profile.Department) &&
		dimensionAllows(aud.Courses, profile.Course) &&
		dimensionAllows(aud.Batches, profile.Batch) &&
		dimensionAllows(aud.Roles, profile.Role)
}

func dimensionAllows(values []string, attr string) bool {
	if len(values) == 0 {
		return true
	}
	restricted := false
	for _, v := range values {
		if strings.EqualFold(v, "all") {
			return true
		}
		restricted = true
		if attr != "" && v == attr {
			return true
		}
	}
	// Restricted dimension and the attribute never matched (or was missing).
	return !restricted
}
