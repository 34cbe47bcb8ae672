package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenderchain/tender-marketplace/internal/auth"
	"github.com/tenderchain/tender-marketplace/internal/models"
)

type recordingMailer struct {
	resetTokens []string
}

func (m *recordingMailer) SendNotification(to, title, message string) error {
	return nil
}

func (m *recordingMailer) SendPasswordReset(to, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func newAuthService(users *stubUserRepo, mailer Mailer) *AuthService {
	tokens := auth.NewAuth("test-secret", time.Hour)
	return NewAuthService(users, tokens, nil, mailer, zap.NewNop().Sugar())
}

func TestRegister_RequiresFields(t *testing.T) {
	svc := newAuthService(&stubUserRepo{}, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "a@b.com"})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}

func TestRegister_RejectsUnknownCategory(t *testing.T) {
	svc := newAuthService(&stubUserRepo{}, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:          "a@b.com",
		Password:       "secret",
		CompanyName:    "Acme",
		BidderCategory: models.BidderCategory("WIZARD"),
	})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}

func TestRegister_ReturnsToken(t *testing.T) {
	users := &stubUserRepo{user: &models.User{
		ID:             "user-1",
		Email:          "a@b.com",
		CompanyName:    "Acme",
		BidderCategory: models.Contractor,
	}}
	svc := newAuthService(users, nil)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:          "a@b.com",
		Password:       "secret",
		CompanyName:    "Acme",
		BidderCategory: models.Contractor,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestLogin_InvalidPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &stubUserRepo{user: &models.User{ID: "user-1", Email: "a@b.com", PasswordHash: string(hash)}}
	svc := newAuthService(users, nil)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "wrong-password"})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusUnauthorized, errorResponse.StatusCode)
	assert.Equal(t, "invalid credentials", errorResponse.Message)
}

func TestLogin_UnknownEmailSameMessage(t *testing.T) {
	svc := newAuthService(&stubUserRepo{}, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@b.com", Password: "whatever"})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusUnauthorized, errorResponse.StatusCode)
	assert.Equal(t, "invalid credentials", errorResponse.Message)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &stubUserRepo{user: &models.User{
		ID:             "user-1",
		Email:          "a@b.com",
		PasswordHash:   string(hash),
		BidderCategory: models.Supplier,
	}}
	svc := newAuthService(users, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "right-password"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestForgotPassword_UnknownEmailDoesNotLeak(t *testing.T) {
	mailer := &recordingMailer{}
	svc := newAuthService(&stubUserRepo{}, mailer)

	err := svc.ForgotPassword(context.Background(), "ghost@b.com")

	require.NoError(t, err)
	assert.Empty(t, mailer.resetTokens)
}

func TestForgotPassword_SendsToken(t *testing.T) {
	mailer := &recordingMailer{}
	users := &stubUserRepo{user: &models.User{ID: "user-1", Email: "a@b.com"}}
	svc := newAuthService(users, mailer)

	err := svc.ForgotPassword(context.Background(), "a@b.com")

	require.NoError(t, err)
	require.Len(t, mailer.resetTokens, 1)
	assert.NotEmpty(t, mailer.resetTokens[0])
}

func TestResetPassword_InvalidToken(t *testing.T) {
	svc := newAuthService(&stubUserRepo{}, nil)

	err := svc.ResetPassword(context.Background(), "stale-token", "new-password")

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, http.StatusBadRequest, errorResponse.StatusCode)
}
