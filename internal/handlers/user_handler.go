package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/campuslink/campuslink/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

// currentUser loads the authenticated user's document, writing the error
// response itself when that fails.
func currentUser(w http.ResponseWriter, r *http.Request, svc *services.UserService) (*models.User, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	user, err := svc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return user, true
}

// GetProfileHandler handles GET /users/{id}. Visits by other users are
// recorded in the owner's profile-view log.
func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Service)
	if !ok {
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), mux.Vars(r)["id"], viewer.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfileHandler handles PATCH /users/{id}; users may only update
// their own profile.
func (h *UserHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestedID := mux.Vars(r)["id"]
	if requestedID != claims.UserID {
		logger.Log.Warnf("User %s attempted to update profile %s", claims.UserID, requestedID)
		writeMessage(w, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req models.UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	userID, err := primitive.ObjectIDFromHex(requestedID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	updated, err := h.Service.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s updated their profile", claims.UserID)
	writeJSON(w, http.StatusOK, updated)
}

// SearchUsersHandler handles GET /users?query=.
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.Service.SearchUsers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
