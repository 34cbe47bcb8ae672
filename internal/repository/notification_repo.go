package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotificationNotFound возвращается, если уведомление не найдено.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository - интерфейс для работы с уведомлениями.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, userID string, nType models.NotificationType, title, message string, metadata models.NotificationMetadata) (*models.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
}

// PostgresNotificationRepository - реализация NotificationRepository для базы данных.
type PostgresNotificationRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresNotificationRepository создаёт новый экземпляр PostgresNotificationRepository.
func NewPostgresNotificationRepository(db *pgxpool.Pool) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{DB: db}
}

// CreateNotification сохраняет новое уведомление.
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, userID string, nType models.NotificationType, title, message string, metadata models.NotificationMetadata) (*models.Notification, error) {
	notification := models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      nType,
		Title:     title,
		Message:   message,
		Read:      false,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	var tenderID, bidID *string
	if metadata.TenderID != "" {
		tenderID = &metadata.TenderID
	}
	if metadata.BidID != "" {
		bidID = &metadata.BidID
	}

	_, err := r.DB.Exec(ctx, `
       INSERT INTO notifications (id, user_id, type, title, message, read, tender_id, bid_id, created_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
   `,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.Read,
		tenderID,
		bidID,
		notification.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}
	return &notification, nil
}

// GetUnreadNotifications возвращает непрочитанные уведомления пользователя, новые первыми.
func (r *PostgresNotificationRepository) GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	rows, err := r.DB.Query(ctx, `
       SELECT id, user_id, type, title, message, read, COALESCE(tender_id, ''), COALESCE(bid_id, ''), created_at
       FROM notifications
       WHERE user_id = $1 AND read = false
       ORDER BY created_at DESC
   `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Read,
			&n.Metadata.TenderID,
			&n.Metadata.BidID,
			&n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAsRead помечает уведомление пользователя прочитанным.
func (r *PostgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	tag, err := r.DB.Exec(ctx, `
       UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2
   `, notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
