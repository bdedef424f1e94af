package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler manages the admin verification and moderation endpoints.
// All routes behind it sit under RequireRole("admin").
type AdminHandler struct {
	Service *services.AdminService
	Posts   *services.PostService
	Users   *services.UserService
}

func NewAdminHandler(service *services.AdminService, posts *services.PostService, users *services.UserService) *AdminHandler {
	return &AdminHandler{Service: service, Posts: posts, Users: users}
}

func userIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListUsersHandler handles GET /admin/users?status=.
func (h *AdminHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	users, total, err := h.Service.ListUsers(r.Context(), r.URL.Query().Get("status"), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeList(w, users, page, limit, total)
}

// VerifyUserHandler handles POST /admin/users/{id}/verify.
func (h *AdminHandler) VerifyUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.Service.VerifyUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("Admin verified user %s", userID.Hex())
	writeJSON(w, http.StatusOK, user)
}

// BlockUserHandler handles POST /admin/users/{id}/block.
func (h *AdminHandler) BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.Service.BlockUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("Admin blocked user %s", userID.Hex())
	writeJSON(w, http.StatusOK, user)
}

// UnblockUserHandler handles POST /admin/users/{id}/unblock.
func (h *AdminHandler) UnblockUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.Service.UnblockUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("Admin unblocked user %s", userID.Hex())
	writeJSON(w, http.StatusOK, user)
}

// ListReportedPostsHandler handles GET /admin/reports.
func (h *AdminHandler) ListReportedPostsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	posts, total, err := h.Posts.GetReportedPosts(r.Context(), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeList(w, posts, page, limit, total)
}

// ApprovePostHandler handles POST /admin/posts/{id}/approve, clearing
// the reported flag after review.
func (h *AdminHandler) ApprovePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.Posts.ApprovePost(r.Context(), postID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post approved")
}

// RemovePostHandler handles DELETE /admin/posts/{id}.
func (h *AdminHandler) RemovePostHandler(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.Posts.DeletePost(r.Context(), admin, postID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post removed")
}

// StatsHandler handles GET /admin/stats.
func (h *AdminHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
