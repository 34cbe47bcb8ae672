package models

import "time"

type NotificationType string // Тип уведомления

const (
	BidSubmittedNotification     NotificationType = "BID_SUBMITTED"
	BidAcceptedNotification      NotificationType = "BID_ACCEPTED"
	BidRejectedNotification      NotificationType = "BID_REJECTED"
	TenderPublishedNotification  NotificationType = "TENDER_PUBLISHED"
	TenderDeadlineNotification   NotificationType = "TENDER_DEADLINE"
	DocumentVerifiedNotification NotificationType = "DOCUMENT_VERIFIED"
	ProfileCreatedNotification   NotificationType = "PROFILE_CREATED"
)

// NotificationMetadata - необязательные ссылки на связанные сущности.
type NotificationMetadata struct {
	TenderID string `json:"tenderId,omitempty"`
	BidID    string `json:"bidId,omitempty"`
}

// Notification представляет модель уведомления пользователя.
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Read      bool                 `json:"read"`
	Metadata  NotificationMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}
