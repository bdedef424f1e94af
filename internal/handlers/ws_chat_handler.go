package handlers

import (
	"net/http"
	"sync"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	jwtutil "github.com/campuslink/campuslink/pkg/jwt"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WSMessage is the frame exchanged over the chat socket.
type WSMessage struct {
	Type        string `json:"type"` // "text", "typing", "status", "error"
	RecipientID string `json:"recipient_id,omitempty"`
	SenderID    string `json:"sender_id,omitempty"`
	Content     string `json:"content,omitempty"`
	Typing      bool   `json:"typing,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// ChatHandler manages the realtime messaging socket.
type ChatHandler struct {
	Messages  *services.MessageService
	Users     *services.UserService
	JWTSecret string

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewChatHandler(messages *services.MessageService, users *services.UserService, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		Messages:  messages,
		Users:     users,
		JWTSecret: jwtSecret,
		clients:   make(map[string]*websocket.Conn),
	}
}

func (h *ChatHandler) broadcastStatus(userID, status string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.clients {
		_ = conn.WriteJSON(WSMessage{Type: "status", SenderID: userID, Content: status})
	}
}

// sendTo delivers a frame to a connected user, if online.
func (h *ChatHandler) sendTo(userID string, frame interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.clients[userID]; ok {
		_ = conn.WriteJSON(frame)
	}
}

// ChatWebSocketHandler handles GET /ws/chat?token=. Browsers cannot set
// an Authorization header on a websocket, so the token rides the query
// string.
func (h *ChatHandler) ChatWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	sender, err := h.Users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// The socket skips the HTTP middleware chain, so the verification gate
	// is applied here. A block takes effect even with a still-live token.
	switch sender.VerificationStatus {
	case models.StatusBlocked:
		logger.Log.Warnf("Blocked user %s attempted websocket access", claims.UserID)
		http.Error(w, "Account blocked", http.StatusUnauthorized)
		return
	case models.StatusVerified:
		// allowed
	default:
		http.Error(w, "Account pending verification", http.StatusForbidden)
		return
	}
	userID := sender.ID.Hex()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("WebSocket upgrade failed for %s: %v", userID, err)
		return
	}

	logger.Log.Infof("WebSocket connected: %s", userID)
	h.mu.Lock()
	h.clients[userID] = conn
	h.mu.Unlock()
	h.broadcastStatus(userID, "online")

	defer func() {
		h.mu.Lock()
		delete(h.clients, userID)
		h.mu.Unlock()
		h.broadcastStatus(userID, "offline")
		conn.Close()
		logger.Log.Infof("WebSocket disconnected: %s", userID)
	}()

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "typing":
			// Typing indicators obey the same connection gate as messages.
			recipientID, err := primitive.ObjectIDFromHex(msg.RecipientID)
			if err != nil {
				continue
			}
			connected, err := h.Messages.Connected(r.Context(), sender.ID, recipientID)
			if err != nil || !connected {
				continue
			}
			h.sendTo(msg.RecipientID, WSMessage{Type: "typing", SenderID: userID, Typing: msg.Typing})

		case "", "text":
			recipientID, err := primitive.ObjectIDFromHex(msg.RecipientID)
			if err != nil {
				_ = conn.WriteJSON(WSMessage{Type: "error", Content: "Invalid recipient ID"})
				continue
			}

			saved, err := h.Messages.SendMessage(r.Context(), sender, recipientID, msg.Content)
			if err != nil {
				_ = conn.WriteJSON(WSMessage{Type: "error", Content: err.Error()})
				continue
			}

			frame := WSMessage{
				Type:        "text",
				SenderID:    userID,
				RecipientID: msg.RecipientID,
				Content:     saved.Content,
				CreatedAt:   saved.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			h.sendTo(msg.RecipientID, frame)
			_ = conn.WriteJSON(frame)
		}
	}
}
