package services

import (
	"context"
	"testing"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeMessageStore struct {
	insertMessage        func(ctx context.Context, msg *models.Message) (*models.Message, error)
	getConversation      func(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	markConversationRead func(ctx context.Context, reader, partner primitive.ObjectID) error
	getMessagesForUser   func(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
}

func (f *fakeMessageStore) InsertMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	return f.insertMessage(ctx, msg)
}

func (f *fakeMessageStore) GetConversation(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	return f.getConversation(ctx, a, b)
}

func (f *fakeMessageStore) MarkConversationRead(ctx context.Context, reader, partner primitive.ObjectID) error {
	return f.markConversationRead(ctx, reader, partner)
}

func (f *fakeMessageStore) GetMessagesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	return f.getMessagesForUser(ctx, userID)
}

func TestSendMessageRejectsUnverifiedSender(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"blocked sender", models.StatusBlocked},
		{"pending sender", models.StatusPending},
	}

	// The verification gate fires before any store is touched, so a bare
	// service is enough here.
	svc := NewMessageService(nil, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := testUser(models.RoleStudent)
			sender.VerificationStatus = tt.status

			_, err := svc.SendMessage(context.Background(), sender, primitive.NewObjectID(), "hello")
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestSendMessageRequiresConnection(t *testing.T) {
	sender := testUser(models.RoleStudent)
	recipient := testUser(models.RoleStudent)

	inserted := false
	messages := &fakeMessageStore{
		insertMessage: func(ctx context.Context, msg *models.Message) (*models.Message, error) {
			inserted = true
			return msg, nil
		},
	}
	connections := NewConnectionService(&fakeConnectionStore{
		getByPair: func(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
			return nil, mongo.ErrNoDocuments
		},
	}, &fakeUserStore{}, &fakeNotifier{})
	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{recipient.ID: recipient}}
	svc := NewMessageService(messages, users, connections)

	_, err := svc.SendMessage(context.Background(), sender, recipient.ID, "hello")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, inserted)
}

func TestListConversationsSkipsRemovedConnections(t *testing.T) {
	user := testUser(models.RoleStudent)
	connectedPartner := testUser(models.RoleStudent)
	removedPartner := testUser(models.RoleStudent)

	// Newest first, the way the repository returns them.
	history := []models.Message{
		{SenderID: removedPartner.ID, RecipientID: user.ID, Content: "are you there?"},
		{SenderID: connectedPartner.ID, RecipientID: user.ID, Content: "see you at the event"},
		{SenderID: user.ID, RecipientID: connectedPartner.ID, Content: "sounds good", Read: true},
	}
	messages := &fakeMessageStore{
		getMessagesForUser: func(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
			return history, nil
		},
	}
	connections := NewConnectionService(&fakeConnectionStore{
		listAccepted: func(ctx context.Context, userID primitive.ObjectID) ([]models.Connection, error) {
			return []models.Connection{{
				RequesterID: user.ID,
				RecipientID: connectedPartner.ID,
				Status:      models.ConnectionAccepted,
			}}, nil
		},
	}, &fakeUserStore{}, &fakeNotifier{})
	users := &fakeUserStore{users: map[primitive.ObjectID]*models.User{
		connectedPartner.ID: connectedPartner,
		removedPartner.ID:   removedPartner,
	}}
	svc := NewMessageService(messages, users, connections)

	conversations, err := svc.ListConversations(context.Background(), user)
	assert.NoError(t, err)
	assert.Len(t, conversations, 1)
	assert.Equal(t, connectedPartner.ID, conversations[0].Partner.ID)
	assert.Equal(t, "see you at the event", conversations[0].LastMessage.Content)
	assert.Equal(t, 1, conversations[0].UnreadCount)
}
