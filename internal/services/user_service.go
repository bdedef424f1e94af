package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService encapsulates the business logic for user accounts.
type UserService struct {
	repo       *repository.UserRepository
	adminEmail string
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository, adminEmail string) *UserService {
	return &UserService{
		repo:       repo,
		adminEmail: adminEmail,
	}
}

// RegisterUser creates a new account. Everyone starts pending verification
// except the configured admin address, which bootstraps the admin account.
func (s *UserService) RegisterUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	logrus.WithField("email", req.Email).Info("Registering new user")

	existing, _ := s.repo.GetUserByEmail(ctx, req.Email)
	if existing != nil {
		logrus.WithField("email", req.Email).Warn("Email already in use")
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:               req.Name,
		Email:              req.Email,
		HashedPassword:     string(hashedPwd),
		CollegeID:          req.CollegeID,
		Role:               req.Role,
		VerificationStatus: models.StatusPending,
		Department:         req.Department,
		Course:             req.Course,
		Batch:              req.Batch,
	}

	if s.adminEmail != "" && strings.EqualFold(req.Email, s.adminEmail) {
		user.Role = models.RoleAdmin
		user.VerificationStatus = models.StatusVerified
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": created.ID.Hex(),
		"role":   created.Role,
	}).Info("User registered successfully")
	return created, nil
}

// AuthenticateUser verifies credentials and returns the user when valid.
// Blocked accounts never get past this point.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	if user.VerificationStatus == models.StatusBlocked {
		logrus.WithField("email", email).Warn("Blocked account attempted login")
		return nil, fmt.Errorf("%w: account blocked", ErrForbidden)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", ErrValidation)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return user, nil
}

// GetProfile fetches a profile on behalf of a viewer. Visits by someone
// else land in the owner's profile-view log; only the owner sees that log.
func (s *UserService) GetProfile(ctx context.Context, requestedID string, viewerID primitive.ObjectID) (*models.User, error) {
	user, err := s.GetUser(ctx, requestedID)
	if err != nil {
		return nil, err
	}

	if user.ID != viewerID {
		if err := s.repo.AddProfileView(ctx, user.ID, viewerID); err != nil {
			logrus.WithError(err).Warn("Failed to record profile view")
		}
		user.ProfileViews = nil
	}
	return user, nil
}

// UpdateUser applies a partial update to the caller's own profile.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.Department != "" {
		fields["department"] = req.Department
	}
	if req.Course != "" {
		fields["course"] = req.Course
	}
	if req.Batch != "" {
		fields["batch"] = req.Batch
	}
	if req.AvatarURL != "" {
		fields["avatar_url"] = req.AvatarURL
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	user, err := s.repo.UpdateUserFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	logrus.WithField("userID", id.Hex()).Info("User updated successfully")
	return user, nil
}

// SearchUsers finds verified users by name or email.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.PublicUser, error) {
	if strings.TrimSpace(query) == "" {
		return []models.PublicUser{}, nil
	}

	users, err := s.repo.SearchUsers(ctx, query, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}

	results := make([]models.PublicUser, 0, len(users))
	for i := range users {
		results = append(results, users[i].Public())
	}
	return results, nil
}

// UpdateLastActive bumps the user's last-active timestamp.
func (s *UserService) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.UpdateLastActive(ctx, id)
}
