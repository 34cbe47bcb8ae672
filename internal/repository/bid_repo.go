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
	// ErrBidNotFound возвращается, если предложение не найдено.
	ErrBidNotFound = errors.New("bid not found")
	// ErrDuplicateBid возвращается при повторной подаче предложения по тому же тендеру.
	ErrDuplicateBid = errors.New("bid already submitted for this tender")
)

const bidColumns = `id, tender_id, bidder_id, amount, documents, status, submitted_at, updated_at`

// BidRepository - интерфейс для работы с предложениями.
type BidRepository interface {
	CreateBid(ctx context.Context, bidderID string, bidReq models.BidRequest) (*models.Bid, error)
	GetUserBids(ctx context.Context, bidderID string) ([]models.BidWithTender, error)
	GetTenderBids(ctx context.Context, tenderID string, limit, offset int) ([]models.Bid, error)
	GetBidByID(ctx context.Context, bidID string) (*models.Bid, error)
	UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus) (*models.Bid, error)
}

// PostgresBidRepository - реализация BidRepository для базы данных.
type PostgresBidRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresBidRepository создаёт новый экземпляр PostgresBidRepository.
func NewPostgresBidRepository(db *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{DB: db}
}

// CreateBid сохраняет новое предложение. Повторная подача по тому же тендеру
// обнаруживается по нарушению уникального индекса (tender_id, bidder_id).
func (r *PostgresBidRepository) CreateBid(ctx context.Context, bidderID string, bidReq models.BidRequest) (*models.Bid, error) {
	now := time.Now().UTC()
	newBid := models.Bid{
		ID:          uuid.New().String(),
		TenderID:    bidReq.TenderID,
		BidderID:    bidderID,
		Amount:      bidReq.Amount,
		Documents:   nonNullArray(bidReq.Documents),
		Status:      models.PendingBid,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO bids (id, tender_id, bidder_id, amount, documents, status, submitted_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
   `,
		newBid.ID,
		newBid.TenderID,
		newBid.BidderID,
		newBid.Amount,
		newBid.Documents,
		newBid.Status,
		newBid.SubmittedAt,
		newBid.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateBid
		}
		return nil, fmt.Errorf("failed to insert bid: %w", err)
	}
	return &newBid, nil
}

// GetUserBids возвращает предложения пользователя вместе с краткими сведениями о тендерах.
func (r *PostgresBidRepository) GetUserBids(ctx context.Context, bidderID string) ([]models.BidWithTender, error) {
	query := `SELECT b.id, b.tender_id, b.bidder_id, b.amount, b.documents, b.status, b.submitted_at, b.updated_at,
	                 t.id, t.title, t.sector, t.budget_min, t.budget_max, t.currency, t.deadline, t.status
	          FROM bids b
	          JOIN tenders t ON t.id = b.tender_id
	          WHERE b.bidder_id = $1
	          ORDER BY b.submitted_at DESC`

	rows, err := r.DB.Query(ctx, query, bidderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.BidWithTender
	for rows.Next() {
		var b models.BidWithTender
		if err := rows.Scan(
			&b.ID,
			&b.TenderID,
			&b.BidderID,
			&b.Amount,
			&b.Documents,
			&b.Status,
			&b.SubmittedAt,
			&b.UpdatedAt,
			&b.Tender.ID,
			&b.Tender.Title,
			&b.Tender.Sector,
			&b.Tender.Budget.Min,
			&b.Tender.Budget.Max,
			&b.Tender.Budget.Currency,
			&b.Tender.Deadline,
			&b.Tender.Status); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// GetTenderBids возвращает предложения, поданные по тендеру.
func (r *PostgresBidRepository) GetTenderBids(ctx context.Context, tenderID string, limit, offset int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids
	          WHERE tender_id = $1 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.Query(ctx, query, tenderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(
			&b.ID,
			&b.TenderID,
			&b.BidderID,
			&b.Amount,
			&b.Documents,
			&b.Status,
			&b.SubmittedAt,
			&b.UpdatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// GetBidByID возвращает предложение по его идентификатору.
func (r *PostgresBidRepository) GetBidByID(ctx context.Context, bidID string) (*models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`

	var b models.Bid
	err := r.DB.QueryRow(ctx, query, bidID).Scan(
		&b.ID,
		&b.TenderID,
		&b.BidderID,
		&b.Amount,
		&b.Documents,
		&b.Status,
		&b.SubmittedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateBidStatus меняет статус предложения.
func (r *PostgresBidRepository) UpdateBidStatus(ctx context.Context, bidID string, status models.BidStatus) (*models.Bid, error) {
	query := `UPDATE bids SET status = $1, updated_at = now() WHERE id = $2 RETURNING ` + bidColumns

	var b models.Bid
	err := r.DB.QueryRow(ctx, query, status, bidID).Scan(
		&b.ID,
		&b.TenderID,
		&b.BidderID,
		&b.Amount,
		&b.Documents,
		&b.Status,
		&b.SubmittedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return &b, nil
}
