package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler manages the REST side of direct messaging.
type MessageHandler struct {
	Service *services.MessageService
	Users   *services.UserService
}

func NewMessageHandler(service *services.MessageService, users *services.UserService) *MessageHandler {
	return &MessageHandler{Service: service, Users: users}
}

// SendMessageHandler handles POST /messages.
func (h *MessageHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	sender, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid recipient ID")
		return
	}

	msg, err := h.Service.SendMessage(r.Context(), sender, recipientID, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// GetConversationHandler handles GET /messages/{userId}. Fetching a
// conversation marks its incoming messages as read.
func (h *MessageHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(mux.Vars(r)["userId"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	messages, err := h.Service.GetConversation(r.Context(), user, partnerID)
	if err != nil {
		respondError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// ListConversationsHandler handles GET /messages.
func (h *MessageHandler) ListConversationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Users)
	if !ok {
		return
	}

	conversations, err := h.Service.ListConversations(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	writeJSON(w, http.StatusOK, conversations)
}
