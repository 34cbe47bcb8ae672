package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tenderchain/tender-marketplace/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrVerificationNotFound возвращается, если запись о проверке отсутствует.
var ErrVerificationNotFound = errors.New("verification record not found")

// statusColumns сопоставляет имя проверяемого поля колонке статуса.
// Имена полей подставляются в запросы только через эту таблицу.
var statusColumns = map[string]string{
	models.FieldGST:  "gst_status",
	models.FieldPAN:  "pan_status",
	models.FieldCIN:  "cin_status",
	models.FieldBank: "bank_status",
}

var documentColumns = map[string]string{
	models.FieldGST:  "gst_document",
	models.FieldPAN:  "pan_document",
	models.FieldCIN:  "cin_document",
	models.FieldBank: "bank_document",
}

// VerificationRepository - интерфейс для работы со статусами проверки.
type VerificationRepository interface {
	SetFieldStatus(ctx context.Context, userID, field string, status models.VerificationFieldStatus) (*models.VerificationStatus, error)
	SubmitDocument(ctx context.Context, userID, field, documentURL string) (*models.VerificationStatus, error)
	GetStatus(ctx context.Context, userID string) (*models.VerificationStatus, error)
}

// PostgresVerificationRepository - реализация VerificationRepository для базы данных.
type PostgresVerificationRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresVerificationRepository создаёт новый экземпляр PostgresVerificationRepository.
func NewPostgresVerificationRepository(db *pgxpool.Pool) *PostgresVerificationRepository {
	return &PostgresVerificationRepository{DB: db}
}

// SetFieldStatus меняет статус одного поля и пересчитывает общий процент в одной
// транзакции. Блокировка строки первым UPDATE сериализует конкурентные изменения
// разных полей одного пользователя, поэтому общий процент не теряет обновлений.
func (r *PostgresVerificationRepository) SetFieldStatus(ctx context.Context, userID, field string, status models.VerificationFieldStatus) (*models.VerificationStatus, error) {
	column, ok := statusColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown verification field: %s", field)
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE user_verification SET %s = $1, updated_at = now() WHERE user_id = $2`, column),
		status, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update field status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVerificationNotFound
	}

	verification, err := recomputeOverall(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return verification, nil
}

// SubmitDocument сохраняет ссылку на документ и возвращает поле в состояние pending.
// Общий процент пересчитывается в той же транзакции, чтобы производное значение
// не расходилось с полями при повторной подаче ранее подтверждённого документа.
func (r *PostgresVerificationRepository) SubmitDocument(ctx context.Context, userID, field, documentURL string) (*models.VerificationStatus, error) {
	statusColumn, ok := statusColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown verification field: %s", field)
	}
	documentColumn := documentColumns[field]

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE user_verification SET %s = $1, %s = $2, updated_at = now() WHERE user_id = $3`,
			documentColumn, statusColumn),
		documentURL, models.FieldPending, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrVerificationNotFound
	}

	verification, err := recomputeOverall(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return verification, nil
}

// GetStatus возвращает срез статусов проверки. Для пользователя без записи
// возвращается срез по умолчанию: все поля pending, общий процент 0.
func (r *PostgresVerificationRepository) GetStatus(ctx context.Context, userID string) (*models.VerificationStatus, error) {
	var v models.VerificationStatus
	err := r.DB.QueryRow(ctx, `
       SELECT gst_status, pan_status, cin_status, bank_status, overall
       FROM user_verification WHERE user_id = $1
   `, userID).Scan(&v.GST, &v.PAN, &v.CIN, &v.Bank, &v.Overall)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultVerificationStatus(), nil
		}
		return nil, err
	}
	return &v, nil
}

// recomputeOverall пересчитывает общий процент как чистую функцию четырёх полей
// той же строки. Выполняется внутри транзакции вызывающего.
func recomputeOverall(ctx context.Context, tx pgx.Tx, userID string) (*models.VerificationStatus, error) {
	var v models.VerificationStatus
	err := tx.QueryRow(ctx, `
       UPDATE user_verification
       SET overall = ROUND(100.0 * (
               (gst_status  = 'verified')::int +
               (pan_status  = 'verified')::int +
               (cin_status  = 'verified')::int +
               (bank_status = 'verified')::int) / 4.0)
       WHERE user_id = $1
       RETURNING gst_status, pan_status, cin_status, bank_status, overall
   `, userID).Scan(&v.GST, &v.PAN, &v.CIN, &v.Bank, &v.Overall)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute overall percentage: %w", err)
	}
	return &v, nil
}
