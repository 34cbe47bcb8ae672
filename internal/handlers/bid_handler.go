package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/auth"
	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/services"
	"github.com/tenderchain/tender-marketplace/internal/utils"

	"go.uber.org/zap"
)

// BidHandler - структура для обработки HTTP-запросов по предложениям.
type BidHandler struct {
	Service *services.BidService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewBidHandler создаёт новый экземпляр BidHandler.
func NewBidHandler(service *services.BidService, logger *zap.SugaredLogger, timeout time.Duration) *BidHandler {
	return &BidHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateBid обрабатывает запросы для подачи предложения.
func (h *BidHandler) CreateBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	var bidReq models.BidRequest
	if err := json.NewDecoder(r.Body).Decode(&bidReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bid, err := h.Service.CreateBid(ctx, userID, bidReq)
	if err != nil {
		h.respondError(w, err, "failed to submit bid")
		return
	}

	h.respondJSON(w, http.StatusOK, bid)
}

// GetUserBids обрабатывает запросы для получения предложений пользователя.
func (h *BidHandler) GetUserBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	bids, err := h.Service.GetUserBids(ctx, userID)
	if err != nil {
		h.respondError(w, err, "failed to fetch bids")
		return
	}

	h.respondJSON(w, http.StatusOK, bids)
}

// GetTenderBids обрабатывает запросы для получения предложений по тендеру.
func (h *BidHandler) GetTenderBids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)
	tenderID := r.PathValue("tenderId")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	bids, err := h.Service.GetTenderBids(ctx, tenderID, userID, limitStr, offsetStr)
	if err != nil {
		h.respondError(w, err, "failed to fetch bids")
		return
	}

	h.respondJSON(w, http.StatusOK, bids)
}

// SubmitDecision обрабатывает запросы решения по предложению.
func (h *BidHandler) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)
	bidID := r.PathValue("bidId")
	decision := r.URL.Query().Get("decision")

	bid, err := h.Service.SubmitDecision(ctx, bidID, userID, models.BidStatus(decision))
	if err != nil {
		h.respondError(w, err, "failed to submit decision")
		return
	}

	h.respondJSON(w, http.StatusOK, bid)
}

func (h *BidHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		h.Logger.Infow(fallback, "reason", errorResponse.Message, "status", errorResponse.StatusCode)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Errorw(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *BidHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Errorw("failed to encode response", "error", err)
	}
}
