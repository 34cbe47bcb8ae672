package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"

	"go.uber.org/zap"
)

// VerificationService содержит логику проверки документов участников.
// Решения по документам принимают только проверяющие из списка reviewers.
type VerificationService struct {
	Repo          repository.VerificationRepository
	notifications *NotificationService
	reviewers     map[string]bool
	logger        *zap.SugaredLogger
}

// NewVerificationService создаёт новый экземпляр VerificationService.
// reviewerIDs - идентификаторы пользователей, которым разрешено подтверждать
// и отклонять документы. Пустой список запрещает решения всем.
func NewVerificationService(repo repository.VerificationRepository, notifications *NotificationService, reviewerIDs []string, logger *zap.SugaredLogger) *VerificationService {
	reviewers := make(map[string]bool, len(reviewerIDs))
	for _, id := range reviewerIDs {
		if id = strings.TrimSpace(id); id != "" {
			reviewers[id] = true
		}
	}
	return &VerificationService{
		Repo:          repo,
		notifications: notifications,
		reviewers:     reviewers,
		logger:        logger,
	}
}

// Approve подтверждает одно проверяемое поле пользователя и уведомляет его.
// Причина сбоя хранилища логируется, наружу уходит обобщённое сообщение.
func (s *VerificationService) Approve(ctx context.Context, reviewerID, userID, field string) (*models.VerificationStatus, error) {
	if !s.reviewers[reviewerID] {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to review verification documents")
	}
	if !models.ValidVerificationField(field) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported verification field: %s", field))
	}

	status, err := s.Repo.SetFieldStatus(ctx, userID, field, models.FieldVerified)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "verification record not found")
		}
		s.logger.Errorw("failed to approve verification", "userId", userID, "field", field, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to approve verification")
	}

	if s.notifications != nil {
		_, _ = s.notifications.Notify(ctx, userID, models.DocumentVerifiedNotification,
			"Document Verified",
			fmt.Sprintf("Your %s document has been verified.", field),
			models.NotificationMetadata{})
	}

	return status, nil
}

// Reject отклоняет одно проверяемое поле пользователя.
func (s *VerificationService) Reject(ctx context.Context, reviewerID, userID, field string) (*models.VerificationStatus, error) {
	if !s.reviewers[reviewerID] {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to review verification documents")
	}
	if !models.ValidVerificationField(field) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported verification field: %s", field))
	}

	status, err := s.Repo.SetFieldStatus(ctx, userID, field, models.FieldFailed)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "verification record not found")
		}
		s.logger.Errorw("failed to reject verification", "userId", userID, "field", field, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to reject verification")
	}
	return status, nil
}

// Submit сохраняет ссылку на документ и возвращает поле в состояние pending.
func (s *VerificationService) Submit(ctx context.Context, userID string, req models.SubmitVerificationRequest) (*models.VerificationStatus, error) {
	if !models.ValidVerificationField(req.Field) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported verification field: %s", req.Field))
	}
	if req.DocumentURL == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing document url")
	}

	status, err := s.Repo.SubmitDocument(ctx, userID, req.Field, req.DocumentURL)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "verification record not found")
		}
		s.logger.Errorw("failed to submit verification document", "userId", userID, "field", req.Field, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to submit verification document")
	}
	return status, nil
}

// Status возвращает срез статусов проверки пользователя.
func (s *VerificationService) Status(ctx context.Context, userID string) (*models.VerificationStatus, error) {
	status, err := s.Repo.GetStatus(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to fetch verification status", "userId", userID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch verification status")
	}
	return status, nil
}
