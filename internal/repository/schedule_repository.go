package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ScheduleRepository управляет шаблонами расписания в базе данных.
// Слоты хранятся в jsonb в порядке объявления.
type ScheduleRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewScheduleRepository создаёт новый репозиторий
func NewScheduleRepository(pool *pgxpool.Pool, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

const scheduleColumns = `id, name, time_slots, created_at, updated_at`

// Create создаёт новый шаблон
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	query := `
		INSERT INTO schedules (id, name, time_slots)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx,
		query,
		schedule.ID,
		schedule.Name,
		timeSlotsOrEmpty(schedule.TimeSlots),
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// GetByID получает шаблон по ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	schedule, err := scanSchedule(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule by id: %w", err)
	}

	return schedule, nil
}

// List получает все шаблоны
func (r *ScheduleRepository) List(ctx context.Context) ([]*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY created_at`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]*model.Schedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

// Update обновляет шаблон
func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.Schedule) (bool, error) {
	query := `
		UPDATE schedules
		SET name = $2, time_slots = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query, schedule.ID, schedule.Name, timeSlotsOrEmpty(schedule.TimeSlots)).
		Scan(&schedule.UpdatedAt)
	if base.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update schedule: %w", err)
	}

	return true, nil
}

// Delete удаляет шаблон. Занятия не удаляются: внешнего ключа на schedules у них нет.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete schedule: %w", err)
	}

	r.logger.Debug("Schedule row deleted",
		zap.String("schedule_id", id.String()),
		zap.Int64("affected", affected),
	)

	return affected > 0, nil
}

func scanSchedule(row pgx.Row) (*model.Schedule, error) {
	schedule := &model.Schedule{}
	err := row.Scan(
		&schedule.ID,
		&schedule.Name,
		&schedule.TimeSlots,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func timeSlotsOrEmpty(slots []model.TimeSlot) []model.TimeSlot {
	if slots == nil {
		return []model.TimeSlot{}
	}
	return slots
}
