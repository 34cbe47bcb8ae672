package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/matching"
	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"
	"github.com/tenderchain/tender-marketplace/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// allowedTenderStatuses - допустимые значения статуса тендера.
var allowedTenderStatuses = map[models.TenderStatus]bool{
	models.DraftTender:     true,
	models.PublishedTender: true,
	models.ClosedTender:    true,
	models.AwardedTender:   true,
}

// allowedStatusTransition описывает допустимые переходы статуса тендера.
var allowedStatusTransition = map[models.TenderStatus][]models.TenderStatus{
	models.DraftTender:     {models.PublishedTender, models.ClosedTender},
	models.PublishedTender: {models.ClosedTender, models.AwardedTender},
	models.ClosedTender:    {},
	models.AwardedTender:   {},
}

// TenderService содержит бизнес-логику работы с тендерами.
type TenderService struct {
	Repo          repository.TenderRepository
	Users         repository.UserRepository
	notifications *NotificationService
	dbPool        *pgxpool.Pool
	logger        *zap.SugaredLogger
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, users repository.UserRepository, notifications *NotificationService, dbPool *pgxpool.Pool, logger *zap.SugaredLogger) *TenderService {
	return &TenderService{
		Repo:          repo,
		Users:         users,
		notifications: notifications,
		dbPool:        dbPool,
		logger:        logger,
	}
}

// FetchTenders получает список тендеров с фильтрами по сектору и статусу.
func (s *TenderService) FetchTenders(ctx context.Context, limit, offset int, sectors []string, status string) ([]models.Tender, error) {
	if status != "" && !allowedTenderStatuses[models.TenderStatus(status)] {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported tender status: %s", status))
	}
	return s.Repo.GetTenders(ctx, limit, offset, sectors, status)
}

// CreateTender создает новый тендер. Создавать тендеры могут только заказчики.
func (s *TenderService) CreateTender(ctx context.Context, buyerID string, category models.BidderCategory, tenderReq models.TenderRequest) (*models.Tender, error) {
	if category != models.Buyer {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only buyers can create tenders")
	}
	if tenderReq.Title == "" || tenderReq.Description == "" || tenderReq.Sector == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if tenderReq.Budget.Min < 0 || tenderReq.Budget.Max < tenderReq.Budget.Min {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid budget range")
	}
	if tenderReq.Deadline.IsZero() || tenderReq.Deadline.Before(time.Now()) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "deadline must be in the future")
	}

	exists, err := utils.CheckUserExistsById(ctx, s.dbPool, buyerID)
	if err != nil {
		s.logger.Errorw("failed to check user existence", "userId", buyerID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "user does not exist")
	}

	return s.Repo.CreateTender(ctx, buyerID, tenderReq)
}

// GetUserTenders получает список тендеров, созданных пользователем.
func (s *TenderService) GetUserTenders(ctx context.Context, limitStr, offsetStr, buyerID string) ([]models.Tender, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	return s.Repo.GetUserTenders(ctx, limit, offset, buyerID)
}

// GetTenderStatus получает статус тендера.
func (s *TenderService) GetTenderStatus(ctx context.Context, tenderID string) (models.TenderStatus, error) {
	status, err := s.Repo.GetTenderStatus(ctx, tenderID)
	if err != nil {
		if errors.Is(err, repository.ErrTenderNotFound) {
			return "", models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return "", err
	}
	return status, nil
}

// UpdateTenderStatus меняет статус тендера с проверкой владельца и допустимости перехода.
func (s *TenderService) UpdateTenderStatus(ctx context.Context, tenderID, userID, status string) (*models.Tender, error) {
	if status == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameter: status")
	}

	isOwner, err := utils.CheckTenderOwner(ctx, s.dbPool, tenderID, userID)
	if err != nil {
		s.logger.Errorw("failed to check tender ownership", "tenderId", tenderID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !isOwner {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to edit this tender")
	}

	currentTender, err := s.Repo.GetTenderByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, repository.ErrTenderNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, err
	}

	newStatus := models.TenderStatus(status)
	validTransition := allowedStatusTransition[currentTender.Status]
	if !utils.ContainsTenderStatus(validTransition, newStatus) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid tender status transition")
	}

	updatedTender, err := s.Repo.UpdateTenderStatus(ctx, tenderID, newStatus)
	if err != nil {
		return nil, err
	}

	if newStatus == models.PublishedTender && s.notifications != nil {
		_, _ = s.notifications.Notify(ctx, userID, models.TenderPublishedNotification,
			"Tender Published",
			fmt.Sprintf("Your tender %q is now visible to bidders.", updatedTender.Title),
			models.NotificationMetadata{TenderID: updatedTender.ID})
	}

	return updatedTender, nil
}

// deadlineReminderWindow - горизонт, в пределах которого заказчику отправляется
// напоминание о приближающемся дедлайне тендера.
const deadlineReminderWindow = 24 * time.Hour

// NotifyUpcomingDeadlines отправляет заказчикам разовые напоминания по
// опубликованным тендерам, дедлайн которых наступает в пределах суток.
func (s *TenderService) NotifyUpcomingDeadlines(ctx context.Context) error {
	tenders, err := s.Repo.GetTendersNearingDeadline(ctx, deadlineReminderWindow)
	if err != nil {
		return fmt.Errorf("failed to fetch tenders nearing deadline: %w", err)
	}

	for _, tender := range tenders {
		if s.notifications != nil {
			_, _ = s.notifications.Notify(ctx, tender.BuyerID, models.TenderDeadlineNotification,
				"Tender Deadline Approaching",
				fmt.Sprintf("Your tender %q closes within 24 hours.", tender.Title),
				models.NotificationMetadata{TenderID: tender.ID})
		}
		if err := s.Repo.MarkDeadlineNotified(ctx, tender.ID); err != nil {
			s.logger.Errorw("failed to mark deadline reminder", "tenderId", tender.ID, "error", err)
		}
	}
	return nil
}

// GetRecommendations возвращает персональный список тендеров для участника.
// Хранилище отдаёт всех опубликованных кандидатов, отбор и ранжирование
// выполняет движок подбора.
func (s *TenderService) GetRecommendations(ctx context.Context, userID string) ([]models.Tender, error) {
	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, models.NewErrorResponse(http.StatusUnauthorized, "user does not exist")
		}
		s.logger.Errorw("failed to load user profile", "userId", userID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	tenders, err := s.Repo.GetPublishedTenders(ctx)
	if err != nil {
		s.logger.Errorw("failed to fetch published tenders", "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch tenders")
	}

	return matching.Recommend(tenders, user.BidderCategory, user.Experience), nil
}
