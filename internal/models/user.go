package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.
const (
	RoleStudent   = "student"
	RoleAlumni    = "alumni"
	RoleTeacher   = "teacher"
	RolePrincipal = "principal"
	RoleAdmin     = "admin"
)

// Verification lifecycle stages.
const (
	StatusPending  = "pending_verification"
	StatusVerified = "verified"
	StatusBlocked  = "blocked"
)

// User represents an account on the platform.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	HashedPassword     string             `bson:"hashed_password" json:"-"`
	CollegeID          string             `bson:"college_id" json:"college_id"`
	Role               string             `bson:"role" json:"role"`
	VerificationStatus string             `bson:"verification_status" json:"verification_status"`
	Department         string             `bson:"department,omitempty" json:"department,omitempty"`
	Course             string             `bson:"course,omitempty" json:"course,omitempty"`
	Batch              string             `bson:"batch,omitempty" json:"batch,omitempty"`
	Bio                string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL          string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	ProfileViews       []ProfileView      `bson:"profile_views,omitempty" json:"profile_views,omitempty"`
	LastActiveAt       time.Time          `bson:"last_active_at,omitempty" json:"last_active_at,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProfileView records a single visit to a user's profile.
type ProfileView struct {
	ViewerID primitive.ObjectID `bson:"viewer_id" json:"viewer_id"`
	ViewedAt time.Time          `bson:"viewed_at" json:"viewed_at"`
}

// PublicUser is the safe projection returned to other users.
type PublicUser struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       string             `json:"role"`
	Department string             `json:"department,omitempty"`
	Course     string             `json:"course,omitempty"`
	Batch      string             `json:"batch,omitempty"`
	AvatarURL  string             `json:"avatar_url,omitempty"`
}

// Public converts a full user document into its public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Course:     u.Course,
		Batch:      u.Batch,
		AvatarURL:  u.AvatarURL,
	}
}

// Profile exposes the attributes the audience filter matches against.
func (u *User) Profile() Profile {
	return Profile{
		Department: u.Department,
		Course:     u.Course,
		Batch:      u.Batch,
		Role:       u.Role,
	}
}

// Profile is the attribute tuple an audience descriptor is evaluated against.
type Profile struct {
	Department string
	Course     string
	Batch      string
	Role       string
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	CollegeID  string `json:"college_id" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=student alumni teacher principal"`
	Department string `json:"department" validate:"required_if=Role student,required_if=Role alumni"`
	Course     string `json:"course" validate:"required_if=Role student,required_if=Role alumni"`
	Batch      string `json:"batch" validate:"required_if=Role student,required_if=Role alumni"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the payload for PATCH /users/{id}.
type UpdateUserRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Department string `json:"department,omitempty"`
	Course     string `json:"course,omitempty"`
	Batch      string `json:"batch,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}
