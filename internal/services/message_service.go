package services

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// messageStore is the slice of the message repository this service depends
// on.
type messageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetConversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, reader, partner primitive.ObjectID) error
	GetMessagesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
}

// MessageService handles direct messaging. Every send and read is gated on
// an accepted connection between the two users.
type MessageService struct {
	repo        messageStore
	userRepo    userStore
	connections *ConnectionService
}

func NewMessageService(repo messageStore, userRepo userStore, connections *ConnectionService) *MessageService {
	return &MessageService{
		repo:        repo,
		userRepo:    userRepo,
		connections: connections,
	}
}

// SendMessage stores a message after the connection gate passes. Only
// verified senders get this far; the check is repeated here because the
// websocket path carries its own authentication.
func (s *MessageService) SendMessage(ctx context.Context, sender *models.User, recipientID primitive.ObjectID, content string) (*models.Message, error) {
	if sender.VerificationStatus != models.StatusVerified {
		return nil, fmt.Errorf("%w: account is not verified", ErrForbidden)
	}
	if !permissions.CapabilitiesFor(sender.Role).CanMessage {
		return nil, fmt.Errorf("%w: role %s may not send messages", ErrForbidden, sender.Role)
	}
	if sender.ID == recipientID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	if _, err := s.userRepo.GetUserByID(ctx, recipientID); err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	connected, err := s.connections.Connected(ctx, sender.ID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check connection: %v", err)
	}
	if !connected {
		return nil, fmt.Errorf("%w: you can only message your connections", ErrForbidden)
	}

	msg, err := s.repo.InsertMessage(ctx, &models.Message{
		SenderID:    sender.ID,
		RecipientID: recipientID,
		Content:     content,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"senderID":    sender.ID.Hex(),
		"recipientID": recipientID.Hex(),
	}).Info("Message sent")
	return msg, nil
}

// Connected reports whether the user holds an accepted edge with the
// partner. The realtime socket gates presence frames on it.
func (s *MessageService) Connected(ctx context.Context, userID, partnerID primitive.ObjectID) (bool, error) {
	return s.connections.Connected(ctx, userID, partnerID)
}

// GetConversation returns the exchange with a partner and marks the
// incoming half read. The connection gate applies to reads too.
func (s *MessageService) GetConversation(ctx context.Context, user *models.User, partnerID primitive.ObjectID) ([]models.Message, error) {
	connected, err := s.connections.Connected(ctx, user.ID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check connection: %v", err)
	}
	if !connected {
		return nil, fmt.Errorf("%w: you can only read conversations with your connections", ErrForbidden)
	}

	messages, err := s.repo.GetConversation(ctx, user.ID, partnerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkConversationRead(ctx, user.ID, partnerID); err != nil {
		logrus.WithError(err).Warn("Failed to mark conversation read")
	}
	return messages, nil
}

// ListConversations folds the user's messages into one summary per partner
// with the latest message and an unread count. Partners whose connection
// has since been removed are left out, matching the read gate.
func (s *MessageService) ListConversations(ctx context.Context, user *models.User) ([]models.Conversation, error) {
	messages, err := s.repo.GetMessagesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return []models.Conversation{}, nil
	}

	partners, err := s.connections.acceptedPartners(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check connections: %v", err)
	}

	// Messages arrive newest first, so the first one seen per partner is
	// the latest in that conversation.
	latest := make(map[primitive.ObjectID]models.Message)
	unread := make(map[primitive.ObjectID]int)
	order := make([]primitive.ObjectID, 0)

	for _, msg := range messages {
		partner := msg.SenderID
		if partner == user.ID {
			partner = msg.RecipientID
		}
		if _, connected := partners[partner]; !connected {
			continue
		}
		if _, seen := latest[partner]; !seen {
			latest[partner] = msg
			order = append(order, partner)
		}
		if msg.RecipientID == user.ID && !msg.Read {
			unread[partner]++
		}
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversation partners: %v", err)
	}
	profiles := make(map[primitive.ObjectID]models.PublicUser, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Public()
	}

	conversations := make([]models.Conversation, 0, len(order))
	for _, partnerID := range order {
		conversations = append(conversations, models.Conversation{
			Partner:     profiles[partnerID],
			LastMessage: latest[partnerID],
			UnreadCount: unread[partnerID],
		})
	}
	return conversations, nil
}
