package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConnectionHandler manages HTTP endpoints for the connection lifecycle.
type ConnectionHandler struct {
	Service *services.ConnectionService
	Users   *services.UserService
}

func NewConnectionHandler(service *services.ConnectionService, users *services.UserService) *ConnectionHandler {
	return &ConnectionHandler{Service: service, Users: users}
}

// RequestConnectionHandler handles POST /connections/request/{userId}.
func (h *ConnectionHandler) RequestConnectionHandler(w http.ResponseWriter, r *http.Request) {
	sender, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	conn, err := h.Service.RequestConnection(r.Context(), sender, recipientID)
	if err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a connection request to %s", sender.ID.Hex(), recipientID.Hex())
	message := "Connection request sent"
	if conn.Status == "accepted" {
		message = "Connection accepted"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    message,
		"connection": conn,
	})
}

// RespondHandler handles POST /connections/respond/{id}.
func (h *ConnectionHandler) RespondHandler(w http.ResponseWriter, r *http.Request) {
	responder, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if !decodeAndValidate(w, r, &body) {
		return
	}

	if err := h.Service.RespondToRequest(r.Context(), requestID, responder, body.Accept); err != nil {
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s responded to connection request %s (accepted: %v)", responder.ID.Hex(), requestID.Hex(), body.Accept)
	if body.Accept {
		writeMessage(w, http.StatusOK, "Connection accepted")
		return
	}
	writeMessage(w, http.StatusOK, "Connection request rejected")
}

// RemoveConnectionHandler handles DELETE /connections/{userId}.
func (h *ConnectionHandler) RemoveConnectionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.Service.RemoveConnection(r.Context(), user.ID, partnerID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Connection removed")
}

// GetConnectionsHandler handles GET /connections.
func (h *ConnectionHandler) GetConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	connections, err := h.Service.GetConnections(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, connections)
}

// GetPendingRequestsHandler handles GET /connections/requests.
func (h *ConnectionHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	requests, err := h.Service.GetPendingRequests(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
