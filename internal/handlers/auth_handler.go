package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/services"
	"github.com/tenderchain/tender-marketplace/internal/utils"

	"go.uber.org/zap"
)

// AuthHandler - структура для обработки HTTP-запросов аутентификации.
type AuthHandler struct {
	Service *services.AuthService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(service *services.AuthService, logger *zap.SugaredLogger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// Register обрабатывает регистрацию нового пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Register(ctx, req)
	if err != nil {
		h.respondError(w, err, "failed to register user")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Login обрабатывает вход пользователя.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(ctx, req)
	if err != nil {
		h.respondError(w, err, "failed to login")
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// ForgotPassword обрабатывает запрос на сброс пароля.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ForgotPassword(ctx, req.Email); err != nil {
		h.respondError(w, err, "failed to process password reset")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// VerifyResetToken обрабатывает проверку токена сброса пароля.
func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	token := r.URL.Query().Get("token")

	if err := h.Service.VerifyResetToken(ctx, token); err != nil {
		h.respondError(w, err, "failed to verify token")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// ResetPassword обрабатывает установку нового пароля по токену сброса.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResetPassword(ctx, req.Token, req.Password); err != nil {
		h.respondError(w, err, "failed to reset password")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		h.Logger.Infow(fallback, "reason", errorResponse.Message, "status", errorResponse.StatusCode)
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Errorw(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *AuthHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Errorw("failed to encode response", "error", err)
	}
}
