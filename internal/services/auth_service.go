package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/auth"
	"github.com/tenderchain/tender-marketplace/internal/models"
	"github.com/tenderchain/tender-marketplace/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenTTL - время жизни токена сброса пароля.
const resetTokenTTL = time.Hour

// AuthService содержит логику регистрации, входа и восстановления пароля.
type AuthService struct {
	Users         repository.UserRepository
	tokens        *auth.Auth
	notifications *NotificationService
	mailer        Mailer
	logger        *zap.SugaredLogger
}

// NewAuthService создаёт новый экземпляр AuthService.
func NewAuthService(users repository.UserRepository, tokens *auth.Auth, notifications *NotificationService, mailer Mailer, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		Users:         users,
		tokens:        tokens,
		notifications: notifications,
		mailer:        mailer,
		logger:        logger,
	}
}

// Register создаёт пользователя и возвращает токен доступа.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.CompanyName == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields")
	}
	if !models.ValidBidderCategory(req.BidderCategory) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid bidder category")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	user, err := s.Users.CreateUser(ctx, req, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, models.NewErrorResponse(http.StatusConflict, "email already registered")
		}
		s.logger.Errorw("failed to create user", "email", req.Email, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to register user")
	}

	if s.notifications != nil {
		_, _ = s.notifications.Notify(ctx, user.ID, models.ProfileCreatedNotification,
			"Welcome to TenderChain",
			"Your profile has been created. Submit your verification documents to start bidding.",
			models.NotificationMetadata{})
	}

	token, err := s.tokens.GenerateToken(user.ID, user.BidderCategory)
	if err != nil {
		s.logger.Errorw("failed to generate token", "userId", user.ID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// Login проверяет учётные данные и возвращает токен доступа.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing email or password")
	}

	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid credentials")
		}
		s.logger.Errorw("failed to load user", "email", req.Email, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.NewErrorResponse(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.BidderCategory)
	if err != nil {
		s.logger.Errorw("failed to generate token", "userId", user.ID, "error", err)
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	return &models.AuthResponse{Token: token, User: *user}, nil
}

// ForgotPassword выпускает токен сброса пароля и отправляет письмо со ссылкой.
// Для неизвестного адреса операция завершается успешно, чтобы не раскрывать
// существование учётной записи.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing email")
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		s.logger.Errorw("failed to load user", "email", email, "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	token := uuid.New().String()
	if err := s.Users.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		s.logger.Errorw("failed to store reset token", "userId", user.ID, "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
			s.logger.Errorw("failed to send reset email", "userId", user.ID, "error", err)
			return models.NewErrorResponse(http.StatusInternalServerError, "failed to send reset email")
		}
	}
	return nil
}

// VerifyResetToken проверяет действительность токена сброса пароля.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	if token == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "token is required")
	}

	_, err := s.Users.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.NewErrorResponse(http.StatusBadRequest, "invalid or expired token")
		}
		s.logger.Errorw("failed to verify reset token", "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return nil
}

// ResetPassword устанавливает новый пароль по действующему токену сброса.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return models.NewErrorResponse(http.StatusBadRequest, "missing token or password")
	}

	user, err := s.Users.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.NewErrorResponse(http.StatusBadRequest, "invalid or expired token")
		}
		s.logger.Errorw("failed to verify reset token", "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	if err := s.Users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		s.logger.Errorw("failed to update password", "userId", user.ID, "error", err)
		return models.NewErrorResponse(http.StatusInternalServerError, "failed to update password")
	}
	return nil
}
