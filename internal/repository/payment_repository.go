package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentRepository платежи. months_paid хранится в jsonb,
// поиск по периоду идёт через containment (@>) по GIN-индексу.
type PaymentRepository struct {
	*base.Repository
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{Repository: base.NewRepository(pool)}
}

const paymentColumns = `id, payment_type, user_id, class_session_id, months_paid, amount, method, status, payment_date, notes, created_at, updated_at`

// Create создаёт новый платёж
func (r *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, payment_type, user_id, class_session_id, months_paid, amount, method, status, payment_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		payment.ID,
		payment.PaymentType,
		payment.UserID,
		payment.ClassSessionID,
		periodsOrEmpty(payment.MonthsPaid),
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.PaymentDate,
		payment.Notes,
		payment.CreatedAt,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// GetByID получает платёж по ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}

	return payment, nil
}

// List получает платежи по фильтру, новые первыми
func (r *PaymentRepository) List(ctx context.Context, filter model.PaymentFilter) ([]*model.Payment, error) {
	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Period != nil {
		args = append(args, []model.Period{*filter.Period})
		conditions = append(conditions, fmt.Sprintf("months_paid @> $%d::jsonb", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		args = append(args, statuses)
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]*model.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}

	return payments, nil
}

// Update перезаписывает изменяемые поля платежа
func (r *PaymentRepository) Update(ctx context.Context, payment *model.Payment) (bool, error) {
	query := `
		UPDATE payments
		SET payment_type = $2, user_id = $3, class_session_id = $4, months_paid = $5,
		    amount = $6, method = $7, status = $8, payment_date = $9, notes = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		payment.ID,
		payment.PaymentType,
		payment.UserID,
		payment.ClassSessionID,
		periodsOrEmpty(payment.MonthsPaid),
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.PaymentDate,
		payment.Notes,
	).Scan(&payment.UpdatedAt)
	if base.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update payment: %w", err)
	}

	return true, nil
}

// Delete удаляет платёж
func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete payment: %w", err)
	}
	return affected > 0, nil
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var payment model.Payment
	err := row.Scan(
		&payment.ID,
		&payment.PaymentType,
		&payment.UserID,
		&payment.ClassSessionID,
		&payment.MonthsPaid,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.PaymentDate,
		&payment.Notes,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func periodsOrEmpty(periods []model.Period) []model.Period {
	if periods == nil {
		return []model.Period{}
	}
	return periods
}
