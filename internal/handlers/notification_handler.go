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

// NotificationHandler - структура для обработки HTTP-запросов по уведомлениям.
type NotificationHandler struct {
	Service *services.NotificationService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewNotificationHandler создаёт новый экземпляр NotificationHandler.
func NewNotificationHandler(service *services.NotificationService, logger *zap.SugaredLogger, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetUnread обрабатывает запросы для получения непрочитанных уведомлений.
func (h *NotificationHandler) GetUnread(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	notifications, err := h.Service.GetUnread(ctx, userID)
	if err != nil {
		h.respondError(w, err, "failed to fetch notifications")
		return
	}

	h.respondJSON(w, http.StatusOK, notifications)
}

// MarkAsRead обрабатывает пометку уведомления прочитанным.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)
	notificationID := r.PathValue("notificationId")

	if err := h.Service.MarkAsRead(ctx, notificationID, userID); err != nil {
		h.respondError(w, err, "failed to mark notification as read")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdatePreferences обрабатывает сохранение настроек уведомлений.
func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	userID, _ := auth.UserIDFromContext(ctx)

	var prefs models.NotificationPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.UpdatePreferences(ctx, userID, prefs); err != nil {
		h.respondError(w, err, "failed to update notification preferences")
		return
	}

	h.respondJSON(w, http.StatusOK, prefs)
}

func (h *NotificationHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		h.Logger.Infow(fallback, "reason", errorResponse.Message, "status", errorResponse.StatusCode)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Errorw(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *NotificationHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Errorw("failed to encode response", "error", err)
	}
}
