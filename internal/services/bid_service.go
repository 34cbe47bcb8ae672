package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"
	"github.com/tenderchain/tender-marketplace/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// BidService содержит бизнес-логику работы с предложениями.
type BidService struct {
	Repo          repository.BidRepository
	Tenders       repository.TenderRepository
	notifications *NotificationService
	dbPool        *pgxpool.Pool
	logger        *zap.SugaredLogger
}

// NewBidService создаёт новый экземпляр BidService.
func NewBidService(repo repository.BidRepository, tenders repository.TenderRepository, notifications *NotificationService, dbPool *pgxpool.Pool, logger *zap.SugaredLogger) *BidService {
	return &BidService{
		Repo:          repo,
		Tenders:       tenders,
		notifications: notifications,
		dbPool:        dbPool,
		logger:        logger,
	}
}

// CreateBid подаёт предложение по тендеру и уведомляет владельца тендера.
// Подача возможна только по опубликованному тендеру с не истёкшим дедлайном,
// не более одного предложения от участника.
func (s *BidService) CreateBid(ctx context.Context, bidderID string, bidReq models.BidRequest) (*models.Bid, error) {
	if bidReq.TenderID == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required field: tenderId")
	}
	if bidReq.Amount <= 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "bid amount must be positive")
	}

	tender, err := s.Tenders.GetTenderByID(ctx, bidReq.TenderID)
	if err != nil {
		if errors.Is(err, repository.ErrTenderNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		s.logger.Errorw("failed to load tender", "tenderId", bidReq.TenderID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if tender.Status != models.PublishedTender || tender.Deadline.Before(time.Now()) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "tender is not accepting bids")
	}
	if tender.BuyerID == bidderID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you cannot bid on your own tender")
	}

	bid, err := s.Repo.CreateBid(ctx, bidderID, bidReq)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBid) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, "you have already submitted a bid for this tender")
		}
		s.logger.Errorw("failed to create bid", "tenderId", bidReq.TenderID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to submit bid")
	}

	if s.notifications != nil {
		_, _ = s.notifications.Notify(ctx, tender.BuyerID, models.BidSubmittedNotification,
			"New Bid Received",
			fmt.Sprintf("A new bid has been submitted for your tender %q.", tender.Title),
			models.NotificationMetadata{TenderID: tender.ID, BidID: bid.ID})
	}

	return bid, nil
}

// GetUserBids получает предложения пользователя с краткими сведениями о тендерах.
func (s *BidService) GetUserBids(ctx context.Context, bidderID string) ([]models.BidWithTender, error) {
	bids, err := s.Repo.GetUserBids(ctx, bidderID)
	if err != nil {
		s.logger.Errorw("failed to fetch user bids", "bidderId", bidderID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to fetch bids")
	}
	return bids, nil
}

// GetTenderBids получает предложения по тендеру. Доступно только владельцу тендера.
func (s *BidService) GetTenderBids(ctx context.Context, tenderID, userID, limitStr, offsetStr string) ([]models.Bid, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	exists, err := utils.CheckTenderExists(ctx, s.dbPool, tenderID)
	if err != nil {
		s.logger.Errorw("failed to check tender existence", "tenderId", tenderID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !exists {
		return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
	}

	isOwner, err := utils.CheckTenderOwner(ctx, s.dbPool, tenderID, userID)
	if err != nil {
		s.logger.Errorw("failed to check tender ownership", "tenderId", tenderID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if !isOwner {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to view bids for this tender")
	}

	return s.Repo.GetTenderBids(ctx, tenderID, limit, offset)
}

// SubmitDecision принимает или отклоняет предложение и уведомляет его автора.
func (s *BidService) SubmitDecision(ctx context.Context, bidID, userID string, decision models.BidStatus) (*models.Bid, error) {
	if decision != models.AcceptedBid && decision != models.RejectedBid {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "decision must be ACCEPTED or REJECTED")
	}

	bid, err := s.Repo.GetBidByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, repository.ErrBidNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "bid not found")
		}
		s.logger.Errorw("failed to load bid", "bidId", bidID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if bid.Status != models.PendingBid {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "decision has already been made for this bid")
	}

	tender, err := s.Tenders.GetTenderByID(ctx, bid.TenderID)
	if err != nil {
		s.logger.Errorw("failed to load tender for bid", "bidId", bidID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if tender.BuyerID != userID {
		return nil, models.NewErrorResponse(http.StatusForbidden, "you are not authorized to decide on this bid")
	}

	updatedBid, err := s.Repo.UpdateBidStatus(ctx, bidID, decision)
	if err != nil {
		s.logger.Errorw("failed to update bid status", "bidId", bidID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to update bid")
	}

	if s.notifications != nil {
		nType := models.BidAcceptedNotification
		title := "Bid Accepted"
		message := fmt.Sprintf("Your bid for tender %q has been accepted.", tender.Title)
		if decision == models.RejectedBid {
			nType = models.BidRejectedNotification
			title = "Bid Rejected"
			message = fmt.Sprintf("Your bid for tender %q has been rejected.", tender.Title)
		}
		_, _ = s.notifications.Notify(ctx, bid.BidderID, nType, title, message,
			models.NotificationMetadata{TenderID: tender.ID, BidID: bid.ID})
	}

	return updatedBid, nil
}
