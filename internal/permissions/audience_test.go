package permissions

import (
	"testing"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMatchesAudience(t *testing.T) {
	csStudent := models.Profile{Department: "CS", Course: "B.Tech", Batch: "2024", Role: "student"}
	mechStudent := models.Profile{Department: "Mechanical", Course: "B.Tech", Batch: "2024", Role: "student"}

	tests := []struct {
		name    string
		aud     models.Audience
		profile models.Profile
		want    bool
	}{
		{"empty descriptor accepts everyone", models.Audience{}, csStudent, true},
		{
			"all sentinel accepts everyone",
			models.Audience{Departments: []string{"All"}, Roles: []string{"all"}},
			mechStudent,
			true,
		},
		{
			"matching department and role",
			models.Audience{Departments: []string{"CS"}, Roles: []string{"student"}},
			csStudent,
			true,
		},
		{
			"wrong department rejected",
			models.Audience{Departments: []string{"CS"}, Roles: []string{"student"}},
			mechStudent,
			false,
		},
		{
			"one failing dimension rejects despite others passing",
			models.Audience{Departments: []string{"CS", "Mechanical"}, Batches: []string{"2020"}},
			csStudent,
			false,
		},
		{
			"sentinel mixed with values still unrestricted",
			models.Audience{Departments: []string{"ECE", "All"}},
			csStudent,
			true,
		},
		{
			"missing profile attribute on restricted dimension rejects",
			models.Audience{Departments: []string{"CS"}},
			models.Profile{Role: "teacher"},
			false,
		},
		{
			"missing profile attribute on unrestricted dimension passes",
			models.Audience{Roles: []string{"teacher"}},
			models.Profile{Role: "teacher"},
			true,
		},
		{
			"batch restriction",
			models.Audience{Batches: []string{"2024", "2025"}},
			csStudent,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesAudience(tt.aud, tt.profile))
		})
	}
}

func TestMatchesAudienceCaseSensitiveValues(t *testing.T) {
	// Only the sentinel compares case-insensitively; attribute values do not.
	aud := models.Audience{Departments: []string{"cs"}}
	profile := models.Profile{Department: "CS"}
	assert.False(t, MatchesAudience(aud, profile))
}
