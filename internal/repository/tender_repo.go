package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tenderchain/tender-marketplace/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// ErrTenderNotFound возвращается, если тендер не найден.
var ErrTenderNotFound = errors.New("tender not found")

const tenderColumns = `id, title, description, sector, categories, budget_min, budget_max, currency,
	deadline, req_experience, req_certifications, req_location, status, buyer_id, created_at, updated_at`

// TenderRepository - интерфейс для работы с тендерами.
type TenderRepository interface {
	GetTenders(ctx context.Context, limit, offset int, sectors []string, status string) ([]models.Tender, error)
	GetPublishedTenders(ctx context.Context) ([]models.Tender, error)
	CreateTender(ctx context.Context, buyerID string, tenderReq models.TenderRequest) (*models.Tender, error)
	GetUserTenders(ctx context.Context, limit, offset int, buyerID string) ([]models.Tender, error)
	GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error)
	GetTenderStatus(ctx context.Context, tenderID string) (models.TenderStatus, error)
	UpdateTenderStatus(ctx context.Context, tenderID string, status models.TenderStatus) (*models.Tender, error)
	GetTendersNearingDeadline(ctx context.Context, within time.Duration) ([]models.Tender, error)
	MarkDeadlineNotified(ctx context.Context, tenderID string) error
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

// GetTenders возвращает список тендеров с фильтрами по сектору и статусу.
func (r *PostgresTenderRepository) GetTenders(ctx context.Context, limit, offset int, sectors []string, status string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(sectors) > 0 {
		filters = append(filters, fmt.Sprintf("sector = ANY($%d)", argIndex))
		args = append(args, pq.Array(sectors))
		argIndex++
	}

	if status != "" {
		filters = append(filters, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, status)
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTenders(rows)
}

// GetPublishedTenders возвращает все опубликованные тендеры с не истёкшим дедлайном.
// Список служит кандидатами для движка подбора; сама фильтрация по релевантности
// выполняется движком, а не хранилищем.
func (r *PostgresTenderRepository) GetPublishedTenders(ctx context.Context) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders
	          WHERE status = $1 AND deadline > now() ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, models.PublishedTender)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTenders(rows)
}

// CreateTender создает новый тендер.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, buyerID string, tenderReq models.TenderRequest) (*models.Tender, error) {
	now := time.Now().UTC()
	newTender := models.Tender{
		ID:          uuid.New().String(),
		Title:       tenderReq.Title,
		Description: tenderReq.Description,
		Sector:      tenderReq.Sector,
		Categories:  nonNullArray(tenderReq.Categories),
		Budget:      tenderReq.Budget,
		Deadline:    tenderReq.Deadline,
		Requirements: models.Requirements{
			Experience:     tenderReq.Requirements.Experience,
			Certifications: nonNullArray(tenderReq.Requirements.Certifications),
			Location:       tenderReq.Requirements.Location,
		},
		Status:    models.DraftTender,
		BuyerID:   buyerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO tenders (id, title, description, sector, categories, budget_min, budget_max, currency,
                            deadline, req_experience, req_certifications, req_location, status, buyer_id, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
   `,
		newTender.ID,
		newTender.Title,
		newTender.Description,
		newTender.Sector,
		newTender.Categories,
		newTender.Budget.Min,
		newTender.Budget.Max,
		newTender.Budget.Currency,
		newTender.Deadline,
		newTender.Requirements.Experience,
		newTender.Requirements.Certifications,
		newTender.Requirements.Location,
		newTender.Status,
		newTender.BuyerID,
		newTender.CreatedAt,
		newTender.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tender: %w", err)
	}
	return &newTender, nil
}

// GetUserTenders возвращает список тендеров, созданных пользователем.
func (r *PostgresTenderRepository) GetUserTenders(ctx context.Context, limit, offset int, buyerID string) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders
	          WHERE buyer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(ctx, query, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTenders(rows)
}

// GetTenderByID возвращает тендер по его идентификатору.
func (r *PostgresTenderRepository) GetTenderByID(ctx context.Context, tenderID string) (*models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id = $1`

	tender, err := scanTender(r.DB.QueryRow(ctx, query, tenderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenderNotFound
		}
		return nil, err
	}
	return tender, nil
}

// GetTenderStatus возвращает статус тендера.
func (r *PostgresTenderRepository) GetTenderStatus(ctx context.Context, tenderID string) (models.TenderStatus, error) {
	var status models.TenderStatus
	err := r.DB.QueryRow(ctx, `SELECT status FROM tenders WHERE id = $1`, tenderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTenderNotFound
		}
		return "", err
	}
	return status, nil
}

// UpdateTenderStatus меняет статус тендера.
func (r *PostgresTenderRepository) UpdateTenderStatus(ctx context.Context, tenderID string, status models.TenderStatus) (*models.Tender, error) {
	query := `UPDATE tenders SET status = $1, updated_at = now() WHERE id = $2 RETURNING ` + tenderColumns

	tender, err := scanTender(r.DB.QueryRow(ctx, query, status, tenderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenderNotFound
		}
		return nil, err
	}
	return tender, nil
}

// GetTendersNearingDeadline возвращает опубликованные тендеры, дедлайн которых
// наступает в пределах указанного окна и по которым напоминание ещё не отправлялось.
func (r *PostgresTenderRepository) GetTendersNearingDeadline(ctx context.Context, within time.Duration) ([]models.Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders
	          WHERE status = $1 AND deadline_notified = false
	            AND deadline > now() AND deadline <= $2
	          ORDER BY deadline`

	rows, err := r.DB.Query(ctx, query, models.PublishedTender, time.Now().Add(within))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTenders(rows)
}

// MarkDeadlineNotified помечает, что напоминание о дедлайне тендера отправлено.
func (r *PostgresTenderRepository) MarkDeadlineNotified(ctx context.Context, tenderID string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE tenders SET deadline_notified = true, updated_at = now() WHERE id = $1`, tenderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTenderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// nonNullArray приводит nil-срез к пустому: nil кодируется как SQL NULL и
// нарушает ограничение NOT NULL на колонках-массивах.
func nonNullArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func scanTender(row rowScanner) (*models.Tender, error) {
	var t models.Tender
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Sector,
		&t.Categories,
		&t.Budget.Min,
		&t.Budget.Max,
		&t.Budget.Currency,
		&t.Deadline,
		&t.Requirements.Experience,
		&t.Requirements.Certifications,
		&t.Requirements.Location,
		&t.Status,
		&t.BuyerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTenders(rows pgx.Rows) ([]models.Tender, error) {
	var tenders []models.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
	}
	return tenders, rows.Err()
}
