package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"
)

type stubNotificationRepo struct {
	created []models.Notification
	read    map[string]bool
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{read: make(map[string]bool)}
}

func (s *stubNotificationRepo) CreateNotification(ctx context.Context, userID string, nType models.NotificationType, title, message string, metadata models.NotificationMetadata) (*models.Notification, error) {
	notification := models.Notification{
		ID:       "notif-1",
		UserID:   userID,
		Type:     nType,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}
	s.created = append(s.created, notification)
	return &notification, nil
}

func (s *stubNotificationRepo) GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var unread []models.Notification
	for _, n := range s.created {
		if n.UserID == userID && !s.read[n.ID] {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

func (s *stubNotificationRepo) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	for _, n := range s.created {
		if n.ID == notificationID && n.UserID == userID {
			s.read[notificationID] = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

type countingMailer struct {
	notifications int
}

func (m *countingMailer) SendNotification(to, title, message string) error {
	m.notifications++
	return nil
}

func (m *countingMailer) SendPasswordReset(to, token string) error {
	return nil
}

func TestNotify_SendsEmailWhenEnabled(t *testing.T) {
	mailer := &countingMailer{}
	users := &stubUserRepo{user: &models.User{
		ID:          "user-1",
		Email:       "a@b.com",
		Preferences: models.NotificationPreferences{Email: true, InApp: true},
	}}
	svc := NewNotificationService(newStubNotificationRepo(), users, mailer, zap.NewNop().Sugar())

	notification, err := svc.Notify(context.Background(), "user-1", models.BidSubmittedNotification,
		"New Bid Received", "A new bid has been submitted.", models.NotificationMetadata{})

	require.NoError(t, err)
	assert.Equal(t, models.BidSubmittedNotification, notification.Type)
	assert.Equal(t, 1, mailer.notifications)
}

func TestNotify_RespectsDisabledEmailChannel(t *testing.T) {
	mailer := &countingMailer{}
	users := &stubUserRepo{user: &models.User{
		ID:          "user-1",
		Email:       "a@b.com",
		Preferences: models.NotificationPreferences{Email: false, InApp: true},
	}}
	svc := NewNotificationService(newStubNotificationRepo(), users, mailer, zap.NewNop().Sugar())

	_, err := svc.Notify(context.Background(), "user-1", models.TenderPublishedNotification,
		"Tender Published", "Your tender is live.", models.NotificationMetadata{})

	require.NoError(t, err)
	assert.Zero(t, mailer.notifications)
}

func TestMarkAsRead_UnknownNotification(t *testing.T) {
	svc := NewNotificationService(newStubNotificationRepo(), &stubUserRepo{}, nil, zap.NewNop().Sugar())

	err := svc.MarkAsRead(context.Background(), "ghost", "user-1")

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusNotFound, errorResponse.StatusCode)
}

func TestMarkAsRead_RemovesFromUnread(t *testing.T) {
	repo := newStubNotificationRepo()
	svc := NewNotificationService(repo, &stubUserRepo{user: &models.User{ID: "user-1"}}, nil, zap.NewNop().Sugar())

	_, err := svc.Notify(context.Background(), "user-1", models.ProfileCreatedNotification,
		"Welcome", "Your profile has been created.", models.NotificationMetadata{})
	require.NoError(t, err)

	unread, err := svc.GetUnread(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, svc.MarkAsRead(context.Background(), unread[0].ID, "user-1"))

	unread, err = svc.GetUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, unread)
}
