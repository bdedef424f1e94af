package models

// Audience restricts who may view a post or join a community. An empty
// dimension, or one carrying the "All" sentinel, places no restriction on
// that dimension.
type Audience struct {
	Departments []string `bson:"departments,omitempty" json:"departments,omitempty"`
	Courses     []string `bson:"courses,omitempty" json:"courses,omitempty"`
	Batches     []string `bson:"batches,omitempty" json:"batches,omitempty"`
	Roles       []string `bson:"roles,omitempty" json:"roles,omitempty"`
}
