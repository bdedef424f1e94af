package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommunityHandler manages community endpoints.
type CommunityHandler struct {
	Service *services.CommunityService
	Users   *services.UserService
}

func NewCommunityHandler(service *services.CommunityService, users *services.UserService) *CommunityHandler {
	return &CommunityHandler{Service: service, Users: users}
}

func communityIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid community ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// CreateCommunityHandler handles POST /communities.
func (h *CommunityHandler) CreateCommunityHandler(w http.ResponseWriter, r *http.Request) {
	creator, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var req models.CreateCommunityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	community, err := h.Service.CreateCommunity(r.Context(), creator, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s created community %s", creator.ID.Hex(), community.ID.Hex())
	writeJSON(w, http.StatusCreated, community)
}

// ListCommunitiesHandler handles GET /communities; only communities the
// viewer is eligible for are listed.
func (h *CommunityHandler) ListCommunitiesHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	page, limit := parsePage(r)
	communities, total, err := h.Service.ListCommunities(r.Context(), viewer, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if communities == nil {
		communities = []models.Community{}
	}
	writeList(w, communities, page, limit, total)
}

// GetCommunityHandler handles GET /communities/{id}.
func (h *CommunityHandler) GetCommunityHandler(w http.ResponseWriter, r *http.Request) {
	viewer, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	communityID, ok := communityIDFromRequest(w, r)
	if !ok {
		return
	}

	community, err := h.Service.GetCommunity(r.Context(), viewer, communityID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, community)
}

// JoinCommunityHandler handles POST /communities/{id}/join.
func (h *CommunityHandler) JoinCommunityHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	communityID, ok := communityIDFromRequest(w, r)
	if !ok {
		return
	}

	pending, err := h.Service.JoinCommunity(r.Context(), user, communityID)
	if err != nil {
		respondError(w, err)
		return
	}
	if pending {
		writeMessage(w, http.StatusOK, "Join request submitted for approval")
		return
	}
	writeMessage(w, http.StatusOK, "Joined community")
}

// RespondToJoinRequestHandler handles POST /communities/{id}/requests/{userId}.
func (h *CommunityHandler) RespondToJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	moderator, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	communityID, ok := communityIDFromRequest(w, r)
	if !ok {
		return
	}

	applicantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var body struct {
		Approve bool `json:"approve"`
	}
	if !decodeAndValidate(w, r, &body) {
		return
	}

	if err := h.Service.RespondToJoinRequest(r.Context(), moderator, communityID, applicantID, body.Approve); err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("Moderator %s responded to join request from %s in community %s (approved: %v)",
		moderator.ID.Hex(), applicantID.Hex(), communityID.Hex(), body.Approve)
	if body.Approve {
		writeMessage(w, http.StatusOK, "Join request approved")
		return
	}
	writeMessage(w, http.StatusOK, "Join request rejected")
}

// LeaveCommunityHandler handles POST /communities/{id}/leave.
func (h *CommunityHandler) LeaveCommunityHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}
	communityID, ok := communityIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.Service.LeaveCommunity(r.Context(), user, communityID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Left community")
}
