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

// TenderHandler - структура для обработки HTTP-запросов по тендерам.
type TenderHandler struct {
	Service *services.TenderService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewTenderHandler создаёт новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, logger *zap.SugaredLogger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetTenders обрабатывает запросы для получения списка тендеров.
func (h *TenderHandler) GetTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	sectors := r.URL.Query()["sector"]
	status := r.URL.Query().Get("status")

	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	tenders, err := h.Service.FetchTenders(ctx, limit, offset, sectors, status)
	if err != nil {
		h.respondError(w, err, "failed to fetch tenders")
		return
	}

	h.respondJSON(w, http.StatusOK, tenders)
}

// CreateTender обрабатывает запросы для создания тендера.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)
	category, _ := auth.CategoryFromContext(ctx)

	var tenderReq models.TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&tenderReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tender, err := h.Service.CreateTender(ctx, userID, category, tenderReq)
	if err != nil {
		h.respondError(w, err, "failed to create tender")
		return
	}

	h.respondJSON(w, http.StatusOK, tender)
}

// GetUserTenders обрабатывает запросы для получения списка тендеров пользователя.
func (h *TenderHandler) GetUserTenders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	tenders, err := h.Service.GetUserTenders(ctx, limitStr, offsetStr, userID)
	if err != nil {
		h.respondError(w, err, "failed to fetch tenders")
		return
	}

	h.respondJSON(w, http.StatusOK, tenders)
}

// GetRecommendations обрабатывает запросы персональной подборки тендеров.
func (h *TenderHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	tenders, err := h.Service.GetRecommendations(ctx, userID)
	if err != nil {
		h.respondError(w, err, "failed to fetch recommendations")
		return
	}

	h.respondJSON(w, http.StatusOK, tenders)
}

// GetTenderStatus обрабатывает запросы для получения статуса тендера.
func (h *TenderHandler) GetTenderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	status, err := h.Service.GetTenderStatus(ctx, tenderID)
	if err != nil {
		h.respondError(w, err, "failed to fetch tender status")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// UpdateTenderStatus обрабатывает запросы для смены статуса тендера.
func (h *TenderHandler) UpdateTenderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)
	tenderID := r.PathValue("tenderId")
	status := r.URL.Query().Get("status")

	tender, err := h.Service.UpdateTenderStatus(ctx, tenderID, userID, status)
	if err != nil {
		h.respondError(w, err, "failed to update tender status")
		return
	}

	h.respondJSON(w, http.StatusOK, tender)
}

func (h *TenderHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		h.Logger.Infow(fallback, "reason", errorResponse.Message, "status", errorResponse.StatusCode)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Errorw(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *TenderHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Errorw("failed to encode response", "error", err)
	}
}
