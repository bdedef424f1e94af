package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// connectionStore is the slice of the connection repository this service
// depends on.
type connectionStore interface {
	GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	CreatePending(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error)
	AcceptPending(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	DeletePending(ctx context.Context, id primitive.ObjectID) error
	DeleteAccepted(ctx context.Context, a, b primitive.ObjectID) error
	ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	ListIncomingPending(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
}

// userStore is the slice of the user repository the connection and message
// services depend on.
type userStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// notifier delivers user notifications.
type notifier interface {
	Notify(ctx context.Context, recipient primitive.ObjectID, sender *primitive.ObjectID, notifType, message string, data map[string]string)
}

// ConnectionService handles the connection lifecycle between two users.
type ConnectionService struct {
	connRepo      connectionStore
	userRepo      userStore
	notifications notifier
}

func NewConnectionService(connRepo connectionStore, userRepo userStore, notifications notifier) *ConnectionService {
	return &ConnectionService{
		connRepo:      connRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// RequestConnection creates a pending edge towards the recipient. When the
// recipient already has a pending request towards the sender, the two
// requests collapse into an accepted connection instead of leaving two
// pending edges.
func (s *ConnectionService) RequestConnection(ctx context.Context, sender *models.User, recipientID primitive.ObjectID) (*models.Connection, error) {
	if sender.ID == recipientID {
		return nil, fmt.Errorf("%w: cannot connect with yourself", ErrValidation)
	}

	if _, err := s.userRepo.GetUserByID(ctx, recipientID); err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	existing, err := s.connRepo.GetByPair(ctx, sender.ID, recipientID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to look up connection: %v", err)
	}

	if existing != nil {
		switch {
		case existing.Status == models.ConnectionAccepted:
			return nil, fmt.Errorf("%w: already connected", ErrConflict)
		case existing.RequesterID == sender.ID:
			return nil, fmt.Errorf("%w: request already pending", ErrConflict)
		default:
			// Mutual request: the recipient already asked us, so both
			// sides transition straight to accepted.
			accepted, err := s.connRepo.AcceptPending(ctx, existing.ID)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					return nil, fmt.Errorf("%w: request no longer pending", ErrConflict)
				}
				return nil, fmt.Errorf("failed to accept connection: %v", err)
			}

			logrus.WithFields(logrus.Fields{
				"userID":  sender.ID.Hex(),
				"partner": recipientID.Hex(),
			}).Info("Mutual connection requests collapsed to accepted")
			s.notifications.Notify(ctx, recipientID, &sender.ID, models.NotifConnectionAccepted,
				fmt.Sprintf("%s accepted your connection request", sender.Name), nil)
			return accepted, nil
		}
	}

	conn, err := s.connRepo.CreatePending(ctx, sender.ID, recipientID)
	if err != nil {
		// A concurrent request for the same pair hits the unique index.
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: request already pending", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create connection request: %v", err)
	}

	s.notifications.Notify(ctx, recipientID, &sender.ID, models.NotifConnectionRequest,
		fmt.Sprintf("%s sent you a connection request", sender.Name),
		map[string]string{"request_id": conn.ID.Hex()})
	return conn, nil
}

// RespondToRequest accepts or rejects a pending request addressed to the
// caller. Rejection deletes the edge, returning the pair to none.
func (s *ConnectionService) RespondToRequest(ctx context.Context, requestID primitive.ObjectID, responder *models.User, accept bool) error {
	request, err := s.connRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("%w: request not found", ErrNotFound)
	}
	if request.RecipientID != responder.ID {
		return fmt.Errorf("%w: only the recipient can respond", ErrForbidden)
	}
	if request.Status != models.ConnectionPending {
		return fmt.Errorf("%w: request already responded to", ErrConflict)
	}

	if !accept {
		if err := s.connRepo.DeletePending(ctx, requestID); err != nil {
			return fmt.Errorf("%w: request no longer pending", ErrConflict)
		}
		return nil
	}

	if _, err := s.connRepo.AcceptPending(ctx, requestID); err != nil {
		return fmt.Errorf("%w: request no longer pending", ErrConflict)
	}

	s.notifications.Notify(ctx, request.RequesterID, &responder.ID, models.NotifConnectionAccepted,
		fmt.Sprintf("%s accepted your connection request", responder.Name), nil)
	return nil
}

// RemoveConnection deletes an accepted edge. The pair goes back to none,
// never to pending.
func (s *ConnectionService) RemoveConnection(ctx context.Context, userID, partnerID primitive.ObjectID) error {
	if err := s.connRepo.DeleteAccepted(ctx, userID, partnerID); err != nil {
		return fmt.Errorf("%w: connection not found", ErrNotFound)
	}
	return nil
}

// GetConnections returns the public profiles of everyone connected with
// the user.
func (s *ConnectionService) GetConnections(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	edges, err := s.connRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return []models.PublicUser{}, nil
	}

	partnerIDs := make([]primitive.ObjectID, 0, len(edges))
	for i := range edges {
		partnerIDs = append(partnerIDs, edges[i].Other(userID))
	}

	partners, err := s.userRepo.GetUsersByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch connections: %v", err)
	}

	results := make([]models.PublicUser, 0, len(partners))
	for i := range partners {
		results = append(results, partners[i].Public())
	}
	return results, nil
}

// GetPendingRequests returns incoming requests for the user.
func (s *ConnectionService) GetPendingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return s.connRepo.ListIncomingPending(ctx, userID)
}

// acceptedPartners returns the set of users the given user holds an
// accepted edge with.
func (s *ConnectionService) acceptedPartners(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	edges, err := s.connRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	partners := make(map[primitive.ObjectID]struct{}, len(edges))
	for i := range edges {
		partners[edges[i].Other(userID)] = struct{}{}
	}
	return partners, nil
}

// Connected reports whether an accepted edge exists between the two users.
// The messaging gate relies on this.
func (s *ConnectionService) Connected(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	conn, err := s.connRepo.GetByPair(ctx, a, b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return conn.Status == models.ConnectionAccepted, nil
}
