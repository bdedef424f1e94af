package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler manages the feed endpoints.
type PostHandler struct {
	Service *services.PostService
	Users   *services.UserService
}

func NewPostHandler(service *services.PostService, users *services.UserService) *PostHandler {
	return &PostHandler{Service: service, Users: users}
}

func postIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid post ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreatePostHandler handles POST /posts.
func (h *PostHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	author, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.Service.CreatePost(r.Context(), author, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s created a %s post", author.ID.Hex(), post.PostType)
	writeJSON(w, http.StatusCreated, post)
}

// GetFeedHandler handles GET /posts.
func (h *PostHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	page, limit := parsePage(r)
	posts, total, err := h.Service.GetFeed(r.Context(), viewer, r.URL.Query().Get("type"), page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeList(w, posts, page, limit, total)
}

// GetPostHandler handles GET /posts/{id}.
func (h *PostHandler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	post, err := h.Service.GetVisiblePost(r.Context(), viewer, postID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// LikeHandler handles POST /posts/{id}/like as a toggle.
func (h *PostHandler) LikeHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	liked, err := h.Service.ToggleLike(r.Context(), viewer, postID)
	if err != nil {
		respondError(w, err)
		return
	}
	if liked {
		writeMessage(w, http.StatusOK, "Post liked")
		return
	}
	writeMessage(w, http.StatusOK, "Like removed")
}

// CommentHandler handles POST /posts/{id}/comment.
func (h *PostHandler) CommentHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.Service.AddComment(r.Context(), viewer, postID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// GetCommentsHandler handles GET /posts/{id}/comments.
func (h *PostHandler) GetCommentsHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	post, err := h.Service.GetVisiblePost(r.Context(), viewer, postID)
	if err != nil {
		respondError(w, err)
		return
	}
	comments := post.Comments
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// ShareHandler handles POST /posts/{id}/share.
func (h *PostHandler) ShareHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.Service.SharePost(r.Context(), viewer, postID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post shared")
}

// VoteHandler handles POST /posts/{id}/vote.
func (h *PostHandler) VoteHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.Service.Vote(r.Context(), viewer, postID, req.Option); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Vote recorded")
}

// ReportHandler handles POST /posts/{id}/report.
func (h *PostHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	var req models.ReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.Service.ReportPost(r.Context(), viewer, postID, req.Reason); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post reported")
}

// DeletePostHandler handles DELETE /posts/{id} (soft delete).
func (h *PostHandler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	postID, ok := postIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeletePost(r.Context(), caller, postID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Post deleted")
}
