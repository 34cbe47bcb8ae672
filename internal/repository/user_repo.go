package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken возвращается при попытке регистрации с занятым адресом почты.
	ErrEmailTaken = errors.New("email already registered")
)

const userColumns = `id, email, password_hash, company_name, bidder_category,
	exp_years, exp_sectors, exp_projects, verification_state,
	notify_email, notify_in_app, notify_push, created_at, updated_at`

// UserRepository - интерфейс для работы с пользователями.
type UserRepository interface {
	CreateUser(ctx context.Context, req models.RegisterRequest, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error
	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// PostgresUserRepository - реализация UserRepository для базы данных.
type PostgresUserRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresUserRepository создаёт новый экземпляр PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser создаёт пользователя и запись о проверке в одной транзакции.
// Запись о проверке сразу получает все поля в состоянии pending.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, req models.RegisterRequest, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	newUser := models.User{
		ID:                uuid.New().String(),
		Email:             req.Email,
		PasswordHash:      passwordHash,
		CompanyName:       req.CompanyName,
		BidderCategory:    req.BidderCategory,
		Experience:        req.Experience,
		VerificationState: models.PendingVerification,
		Preferences:       models.DefaultNotificationPreferences(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var expYears, expProjects *int
	expSectors := []string{}
	if req.Experience != nil {
		expYears = &req.Experience.Years
		expSectors = nonNullArray(req.Experience.Sectors)
		expProjects = req.Experience.PreviousProjects
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
       INSERT INTO users (id, email, password_hash, company_name, bidder_category,
                          exp_years, exp_sectors, exp_projects, verification_state,
                          notify_email, notify_in_app, notify_push, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
   `,
		newUser.ID,
		newUser.Email,
		newUser.PasswordHash,
		newUser.CompanyName,
		newUser.BidderCategory,
		expYears,
		expSectors,
		expProjects,
		newUser.VerificationState,
		newUser.Preferences.Email,
		newUser.Preferences.InApp,
		newUser.Preferences.Push,
		newUser.CreatedAt,
		newUser.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO user_verification (user_id, updated_at) VALUES ($1, $2)`,
		newUser.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert verification record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &newUser, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(ctx, query, userID))
}

// GetUserByEmail возвращает пользователя по адресу электронной почты.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(ctx, query, email))
}

// UpdatePreferences сохраняет настройки уведомлений пользователя.
func (r *PostgresUserRepository) UpdatePreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	tag, err := r.DB.Exec(ctx, `
       UPDATE users SET notify_email = $1, notify_in_app = $2, notify_push = $3, updated_at = now()
       WHERE id = $4
   `, prefs.Email, prefs.InApp, prefs.Push, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetResetToken сохраняет токен сброса пароля и срок его действия.
func (r *PostgresUserRepository) SetResetToken(ctx context.Context, userID, token string, expires time.Time) error {
	tag, err := r.DB.Exec(ctx, `
       UPDATE users SET reset_token = $1, reset_expires = $2, updated_at = now() WHERE id = $3
   `, token, expires, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetUserByResetToken возвращает пользователя по действующему токену сброса пароля.
func (r *PostgresUserRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 AND reset_expires > now()`
	return scanUser(r.DB.QueryRow(ctx, query, token))
}

// UpdatePassword сохраняет новый хэш пароля и сбрасывает токен восстановления.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.DB.Exec(ctx, `
       UPDATE users SET password_hash = $1, reset_token = NULL, reset_expires = NULL, updated_at = now()
       WHERE id = $2
   `, passwordHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var expYears, expProjects *int
	var expSectors []string

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CompanyName,
		&u.BidderCategory,
		&expYears,
		&expSectors,
		&expProjects,
		&u.VerificationState,
		&u.Preferences.Email,
		&u.Preferences.InApp,
		&u.Preferences.Push,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if expYears != nil {
		u.Experience = &models.Experience{
			Years:            *expYears,
			Sectors:          expSectors,
			PreviousProjects: expProjects,
		}
	}
	return &u, nil
}
