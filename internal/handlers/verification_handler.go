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

// VerificationHandler - структура для обработки HTTP-запросов проверки документов.
type VerificationHandler struct {
	Service *services.VerificationService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewVerificationHandler создаёт новый экземпляр VerificationHandler.
func NewVerificationHandler(service *services.VerificationService, logger *zap.SugaredLogger, timeout time.Duration) *VerificationHandler {
	return &VerificationHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetStatus обрабатывает запросы для получения среза статусов проверки.
func (h *VerificationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	status, err := h.Service.Status(ctx, userID)
	if err != nil {
		h.respondError(w, err, "failed to fetch verification status")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Submit обрабатывает подачу документа на проверку.
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	var req models.SubmitVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := h.Service.Submit(ctx, userID, req)
	if err != nil {
		h.respondError(w, err, "failed to submit verification document")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Approve обрабатывает подтверждение проверяемого поля пользователя.
func (h *VerificationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	reviewerID, _ := auth.UserIDFromContext(ctx)
	userID := r.PathValue("userId")
	field := r.PathValue("field")

	status, err := h.Service.Approve(ctx, reviewerID, userID, field)
	if err != nil {
		h.respondError(w, err, "failed to approve verification")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// Reject обрабатывает отклонение проверяемого поля пользователя.
func (h *VerificationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	reviewerID, _ := auth.UserIDFromContext(ctx)
	userID := r.PathValue("userId")
	field := r.PathValue("field")

	status, err := h.Service.Reject(ctx, reviewerID, userID, field)
	if err != nil {
		h.respondError(w, err, "failed to reject verification")
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

func (h *VerificationHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		h.Logger.Infow(fallback, "reason", errorResponse.Message, "status", errorResponse.StatusCode)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Errorw(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *VerificationHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Errorw("failed to encode response", "error", err)
	}
}
