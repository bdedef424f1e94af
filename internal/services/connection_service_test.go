package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeConnectionStore struct {
	getByPair           func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	getByID             func(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	createPending       func(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error)
	acceptPending       func(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	deletePending       func(ctx context.Context, id primitive.ObjectID) error
	deleteAccepted      func(ctx context.Context, a, b primitive.ObjectID) error
	listAccepted        func(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
	listIncomingPending func(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error)
}

func (f *fakeConnectionStore) GetByPair(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	return f.getByPair(ctx, a, b)
}

func (f *fakeConnectionStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	return f.getByID(ctx, id)
}

func (f *fakeConnectionStore) CreatePending(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error) {
	return f.createPending(ctx, requester, recipient)
}

func (f *fakeConnectionStore) AcceptPending(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	return f.acceptPending(ctx, id)
}

func (f *fakeConnectionStore) DeletePending(ctx context.Context, id primitive.ObjectID) error {
	return f.deletePending(ctx, id)
}

func (f *fakeConnectionStore) DeleteAccepted(ctx context.Context, a, b primitive.ObjectID) error {
	return f.deleteAccepted(ctx, a, b)
}

func (f *fakeConnectionStore) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return f.listAccepted(ctx, userID)
}

func (f *fakeConnectionStore) ListIncomingPending(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
	return f.listIncomingPending(ctx, userID)
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var users []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			users = append(users, *u)
		}
	}
	return users, nil
}

type fakeNotifier struct {
	types []string
}

func (f *fakeNotifier) Notify(ctx context.Context, recipient primitive.ObjectID, sender *primitive.ObjectID, notifType, message string, data map[string]string) {
	f.types = append(f.types, notifType)
}

func testUser(role string) *models.User {
	return &models.User{
		ID:                 primitive.NewObjectID(),
		Name:               "Test User",
		Role:               role,
		VerificationStatus: models.StatusVerified,
	}
}

func TestRequestConnectionMutualCollapse(t *testing.T) {
	sender := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	// The recipient already asked the sender; the edge is pending towards
	// the sender.
	incoming := &models.Connection{
		ID:          primitive.NewObjectID(),
		PairKey:     models.PairKey(sender.ID, recipient.ID),
		RequesterID: recipient.ID,
		RecipientID: sender.ID,
		Status:      models.ConnectionPending,
		CreatedAt:   time.Now(),
	}

	created := false
	store := &fakeConnectionStore{
		getByPair: func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
			return incoming, nil
		},
		acceptPending: func(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
			assert.Equal(t, incoming.ID, id)
			accepted := *incoming
			accepted.Status = models.ConnectionAccepted
			return &accepted, nil
		},
		createPending: func(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error) {
			created = true
			return nil, nil
		},
	}
	notifications := &fakeNotifier{}
	svc := NewConnectionService(store, &fakeUserStore{users: map[primitive.ObjectID]*models.User{recipient.ID: recipient}}, notifications)

	conn, err := svc.RequestConnection(context.Background(), sender, recipient.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, conn.Status)
	assert.False(t, created, "no second pending edge may be inserted")
	assert.Equal(t, []string{models.NotifConnectionAccepted}, notifications.types)
}

func TestRequestConnectionOwnPendingConflicts(t *testing.T) {
	sender := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	outgoing := &models.Connection{
		ID:          primitive.NewObjectID(),
		RequesterID: sender.ID,
		RecipientID: recipient.ID,
		Status:      models.ConnectionPending,
	}
	store := &fakeConnectionStore{
		getByPair: func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
			return outgoing, nil
		},
	}
	svc := NewConnectionService(store, &fakeUserStore{users: map[primitive.ObjectID]*models.User{recipient.ID: recipient}}, &fakeNotifier{})

	_, err := svc.RequestConnection(context.Background(), sender, recipient.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRequestConnectionAlreadyAccepted(t *testing.T) {
	sender := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	store := &fakeConnectionStore{
		getByPair: func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
			return &models.Connection{
				RequesterID: recipient.ID,
				RecipientID: sender.ID,
				Status:      models.ConnectionAccepted,
			}, nil
		},
	}
	svc := NewConnectionService(store, &fakeUserStore{users: map[primitive.ObjectID]*models.User{recipient.ID: recipient}}, &fakeNotifier{})

	_, err := svc.RequestConnection(context.Background(), sender, recipient.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRequestConnectionSelf(t *testing.T) {
	sender := testUser(models.RoleStudent)
	svc := NewConnectionService(&fakeConnectionStore{}, &fakeUserStore{}, &fakeNotifier{})

	_, err := svc.RequestConnection(context.Background(), sender, sender.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRequestConnectionDuplicateKeyMapsToConflict(t *testing.T) {
	sender := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	store := &fakeConnectionStore{
		getByPair: func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
			return nil, mongo.ErrNoDocuments
		},
		createPending: func(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error) {
			return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		},
	}
	svc := NewConnectionService(store, &fakeUserStore{users: map[primitive.ObjectID]*models.User{recipient.ID: recipient}}, &fakeNotifier{})

	_, err := svc.RequestConnection(context.Background(), sender, recipient.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRequestConnectionStoreFailureIsNotConflict(t *testing.T) {
	sender := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	store := &fakeConnectionStore{
		getByPair: func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
			return nil, mongo.ErrNoDocuments
		},
		createPending: func(ctx context.Context, requester, recipient primitive.ObjectID) (*models.Connection, error) {
			return nil, errors.New("connection reset by peer")
		},
	}
	svc := NewConnectionService(store, &fakeUserStore{users: map[primitive.ObjectID]*models.User{recipient.ID: recipient}}, &fakeNotifier{})

	_, err := svc.RequestConnection(context.Background(), sender, recipient.ID)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestRespondToRequestRejectDeletesEdge(t *testing.T) {
	requester := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	request := &models.Connection{
		ID:          primitive.NewObjectID(),
		RequesterID: requester.ID,
		RecipientID: recipient.ID,
		Status:      models.ConnectionPending,
	}

	deleted := false
	store := &fakeConnectionStore{
		getByID: func(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
			return request, nil
		},
		deletePending: func(ctx context.Context, id primitive.ObjectID) error {
			assert.Equal(t, request.ID, id)
			deleted = true
			return nil
		},
	}
	notifications := &fakeNotifier{}
	svc := NewConnectionService(store, &fakeUserStore{}, notifications)

	err := svc.RespondToRequest(context.Background(), request.ID, recipient, false)
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, notifications.types)
}

func TestRespondToRequestOnlyRecipient(t *testing.T) {
	requester := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)
	bystander := testUser(models.RoleStudent)

	request := &models.Connection{
		ID:          primitive.NewObjectID(),
		RequesterID: requester.ID,
		RecipientID: recipient.ID,
		Status:      models.ConnectionPending,
	}
	store := &fakeConnectionStore{
		getByID: func(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
			return request, nil
		},
	}
	svc := NewConnectionService(store, &fakeUserStore{}, &fakeNotifier{})

	err := svc.RespondToRequest(context.Background(), request.ID, bystander, true)
	assert.ErrorIs(t, err, ErrForbidden)
}
