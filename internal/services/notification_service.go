package services

import (
	"context"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify records an event for a user. Failures are logged and swallowed so
// a notification hiccup never fails the action that triggered it.
func (s *NotificationService) Notify(ctx context.Context, recipient primitive.ObjectID, sender *primitive.ObjectID, notifType, message string, data map[string]string) {
	notif := &models.Notification{
		RecipientID: recipient,
		SenderID:    sender,
		Type:        notifType,
		Message:     message,
		Data:        data,
	}
	if err := s.repo.CreateNotification(ctx, notif); err != nil {
		logrus.WithError(err).Warnf("Failed to notify user %s", recipient.Hex())
	}
}

// GetNotifications returns a page of the user's notifications.
func (s *NotificationService) GetNotifications(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Notification, int64, error) {
	return s.repo.ListByRecipient(ctx, userID, page, limit)
}

// MarkAsRead flips the read flag on one notification.
func (s *NotificationService) MarkAsRead(ctx context.Context, notifID, userID primitive.ObjectID) error {
	if err := s.repo.MarkAsRead(ctx, notifID, userID); err != nil {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on everything the user has.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// DeleteNotification removes one of the user's notifications.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID, userID primitive.ObjectID) error {
	if err := s.repo.DeleteNotification(ctx, notifID, userID); err != nil {
		return ErrNotFound
	}
	return nil
}

// CleanupExpired purges notifications past their TTL; called by the cron
// sweep.
func (s *NotificationService) CleanupExpired(ctx context.Context) error {
	return s.repo.DeleteExpired(ctx)
}
