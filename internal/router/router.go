package router

import (
	"net/http"

	"github.com/tenderchain/tender-marketplace/internal/auth"
	"github.com/tenderchain/tender-marketplace/internal/handlers"
)

// Handlers объединяет обработчики, регистрируемые в маршрутизаторе.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Tender       *handlers.TenderHandler
	Bid          *handlers.BidHandler
	Verification *handlers.VerificationHandler
	Notification *handlers.NotificationHandler
}

// InitRoutes регистрирует маршруты приложения. Маршруты, требующие авторизации,
// оборачиваются в middleware проверки токена.
func InitRoutes(h Handlers, authMiddleware *auth.Auth) http.Handler {
	mux := http.NewServeMux()

	protected := func(handler http.HandlerFunc) http.Handler {
		return authMiddleware.Middleware(handler)
	}

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/auth/register", h.Auth.Register)
	mux.HandleFunc("/api/auth/login", h.Auth.Login)
	mux.HandleFunc("/api/auth/forgot_password", h.Auth.ForgotPassword)
	mux.HandleFunc("/api/auth/verify_token", h.Auth.VerifyResetToken)
	mux.HandleFunc("/api/auth/reset_password", h.Auth.ResetPassword)

	mux.HandleFunc("/api/tenders", h.Tender.GetTenders)
	mux.Handle("/api/tenders/new", protected(h.Tender.CreateTender))
	mux.Handle("/api/tenders/my", protected(h.Tender.GetUserTenders))
	mux.Handle("/api/tenders/recommended", protected(h.Tender.GetRecommendations))
	mux.HandleFunc("GET /api/tenders/{tenderId}/status", h.Tender.GetTenderStatus)
	mux.Handle("PUT /api/tenders/{tenderId}/status", protected(h.Tender.UpdateTenderStatus))

	mux.Handle("/api/bids/new", protected(h.Bid.CreateBid))
	mux.Handle("/api/bids/my", protected(h.Bid.GetUserBids))
	mux.Handle("GET /api/bids/{tenderId}/list", protected(h.Bid.GetTenderBids))
	mux.Handle("PUT /api/bids/{bidId}/decision", protected(h.Bid.SubmitDecision))

	mux.Handle("/api/verification/status", protected(h.Verification.GetStatus))
	mux.Handle("/api/verification/submit", protected(h.Verification.Submit))
	mux.Handle("PUT /api/verification/{userId}/{field}/approve", protected(h.Verification.Approve))
	mux.Handle("PUT /api/verification/{userId}/{field}/reject", protected(h.Verification.Reject))

	mux.Handle("GET /api/notifications", protected(h.Notification.GetUnread))
	mux.Handle("PUT /api/notifications/{notificationId}/read", protected(h.Notification.MarkAsRead))
	mux.Handle("PUT /api/notifications/preferences", protected(h.Notification.UpdatePreferences))

	return mux
}
