package services

import (
	"context"
	"net/http"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"

	"go.uber.org/zap"
)

// Mailer описывает контракт отправки писем, используемый сервисами.
type Mailer interface {
	SendNotification(to, title, message string) error
	SendPasswordReset(to, token string) error
}

// NotificationService содержит логику создания и доставки уведомлений.
type NotificationService struct {
	Repo   repository.NotificationRepository
	Users  repository.UserRepository
	mailer Mailer
	logger *zap.SugaredLogger
}

// NewNotificationService создаёт новый экземпляр NotificationService.
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, mailer Mailer, logger *zap.SugaredLogger) *NotificationService {
	return &NotificationService{
		Repo:   repo,
		Users:  users,
		mailer: mailer,
		logger: logger,
	}
}

// Notify сохраняет уведомление и отправляет письмо, если пользователь не
// отключил почтовый канал. Сбой отправки письма не считается ошибкой операции.
func (s *NotificationService) Notify(ctx context.Context, userID string, nType models.NotificationType, title, message string, metadata models.NotificationMetadata) (*models.Notification, error) {
	notification, err := s.Repo.CreateNotification(ctx, userID, nType, title, message, metadata)
	if err != nil {
		s.logger.Errorw("failed to create notification", "userId", userID, "type", nType, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to create notification")
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to load notification recipient", "userId", userID, "error", err)
		return notification, nil
	}

	if user.Preferences.Email && s.mailer != nil {
		if err := s.mailer.SendNotification(user.Email, title, message); err != nil {
			s.logger.Errorw("failed to send notification email", "userId", userID, "error", err)
		}
	}

	return notification, nil
}

// GetUnread возвращает непрочитанные уведомления пользователя.
func (s *NotificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.Repo.GetUnreadNotifications(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to fetch notifications", "userId", userID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch notifications")
	}
	return notifications, nil
}

// MarkAsRead помечает уведомление пользователя прочитанным.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	if notificationID == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing notification id")
	}

	err := s.Repo.MarkAsRead(ctx, notificationID, userID)
	if err != nil {
		if err == repository.ErrNotificationNotFound {
			return models.NewErrorResponse(http.StatusNotFound, "notification not found")
		}
		s.logger.Errorw("failed to mark notification as read", "notificationId", notificationID, "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to mark notification as read")
	}
	return nil
}

// UpdatePreferences сохраняет настройки каналов уведомлений пользователя.
func (s *NotificationService) UpdatePreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	err := s.Users.UpdatePreferences(ctx, userID, prefs)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return models.NewErrorResponse(http.StatusNotFound, "user not found")
		}
		s.logger.Errorw("failed to update notification preferences", "userId", userID, "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to update notification preferences")
	}
	return nil
}
