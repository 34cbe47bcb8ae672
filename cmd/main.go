package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/auth"
	"github.com/tenderchain/tender-marketplace/internal/db"
	"github.com/tenderchain/tender-marketplace/internal/handlers"
	"github.com/tenderchain/tender-marketplace/internal/mailer"
	"github.com/tenderchain/tender-marketplace/internal/repository"
	"github.com/tenderchain/tender-marketplace/internal/router"
	"github.com/tenderchain/tender-marketplace/internal/router/config"
	"github.com/tenderchain/tender-marketplace/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		sugar.Fatalw("cannot load config", "error", err)
	}

	runDBMigration(sugar, cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		sugar.Fatalw("error initializing database", "error", err)
	}
	defer dbPool.Close()

	tokens := auth.NewAuth(cfg.JWTSecret, cfg.TokenTTL)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
		cfg.MailFrom, cfg.MailFromName, cfg.BaseURL)

	userRepo := repository.NewPostgresUserRepository(dbPool)
	tenderRepo := repository.NewPostgresTenderRepository(dbPool)
	bidRepo := repository.NewPostgresBidRepository(dbPool)
	verificationRepo := repository.NewPostgresVerificationRepository(dbPool)
	notificationRepo := repository.NewPostgresNotificationRepository(dbPool)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, smtpMailer, sugar)
	authService := services.NewAuthService(userRepo, tokens, notificationService, smtpMailer, sugar)
	tenderService := services.NewTenderService(tenderRepo, userRepo, notificationService, dbPool, sugar)
	bidService := services.NewBidService(bidRepo, tenderRepo, notificationService, dbPool, sugar)
	verificationService := services.NewVerificationService(verificationRepo, notificationService,
		strings.Split(cfg.VerificationReviewers, ","), sugar)

	requestTimeout := 5 * time.Second
	routes := router.InitRoutes(router.Handlers{
		Auth:         handlers.NewAuthHandler(authService, sugar, requestTimeout),
		Tender:       handlers.NewTenderHandler(tenderService, sugar, requestTimeout),
		Bid:          handlers.NewBidHandler(bidService, sugar, requestTimeout),
		Verification: handlers.NewVerificationHandler(verificationService, sugar, requestTimeout),
		Notification: handlers.NewNotificationHandler(notificationService, sugar, requestTimeout),
	}, tokens)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: routes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("server is listening", "addr", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := tenderService.NotifyUpcomingDeadlines(ctx); err != nil {
					sugar.Errorw("failed to send deadline reminders", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw("server stopped", "error", err)
	}
}

func runDBMigration(sugar *zap.SugaredLogger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		sugar.Fatalw("cannot create a new migrate instance", "error", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		sugar.Fatalw("failed to run migrate up", "error", err)
	}
	sugar.Infow("db migrated successfully")
}
