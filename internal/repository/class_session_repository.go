package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassSessionRepository занятия и отметки посещения.
// Отметки лежат в class_attendances с PK (session_id, student_id).
type ClassSessionRepository struct {
	*base.Repository
}

func NewClassSessionRepository(pool *pgxpool.Pool) *ClassSessionRepository {
	return &ClassSessionRepository{Repository: base.NewRepository(pool)}
}

const (
	sessionColumns = `s.id, s.day, s.month, s.year, s.start_time, s.end_time, s.teachers, s.created_at, s.updated_at`
	sessionOrder   = `ORDER BY s.year, s.month, s.day, s.start_time, s.created_at`

	insertSessionQuery = `
		INSERT INTO class_sessions (id, day, month, year, start_time, end_time, teachers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
)

// Create создаёт одно занятие
func (r *ClassSessionRepository) Create(ctx context.Context, session *model.ClassSession) error {
	return r.CreateMany(ctx, []*model.ClassSession{session})
}

// CreateMany вставляет занятия одной пачкой в транзакции. Дубликаты не проверяются.
func (r *ClassSessionRepository) CreateMany(ctx context.Context, sessions []*model.ClassSession) error {
	if len(sessions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, session := range sessions {
		if session.ID == uuid.Nil {
			session.ID = uuid.New()
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = time.Now()
		}
		session.UpdatedAt = session.CreatedAt
		batch.Queue(insertSessionQuery,
			session.ID,
			session.Day,
			session.Month,
			session.Year,
			session.StartTime,
			session.EndTime,
			teachersOrEmpty(session.Teachers),
			session.CreatedAt,
		)
	}

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		return base.ExecBatch(ctx, tx, batch)
	})
	if err != nil {
		return fmt.Errorf("create sessions: %w", err)
	}

	return nil
}

// GetByID получает занятие с отметками
func (r *ClassSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSession, error) {
	return r.getByID(ctx, r.Pool(), id)
}

// List занятия по фильтру в календарном порядке
func (r *ClassSessionRepository) List(ctx context.Context, filter model.SessionFilter) ([]*model.ClassSession, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.Month != nil {
		args = append(args, *filter.Month)
		conditions = append(conditions, fmt.Sprintf("s.month = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("s.year = $%d", len(args)))
	}

	query := `SELECT ` + sessionColumns + ` FROM class_sessions s`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ` + sessionOrder

	sessions, err := r.querySessions(ctx, r.Pool(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Update обновляет поля занятия; отметки не трогаются
func (r *ClassSessionRepository) Update(ctx context.Context, session *model.ClassSession) (bool, error) {
	query := `
		UPDATE class_sessions
		SET day = $2, month = $3, year = $4, start_time = $5, end_time = $6, teachers = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.QueryRow(ctx, query,
		session.ID,
		session.Day,
		session.Month,
		session.Year,
		session.StartTime,
		session.EndTime,
		teachersOrEmpty(session.Teachers),
	).Scan(&session.UpdatedAt)
	if base.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}

	return true, nil
}

// Delete удаляет занятие, отметки удаляются каскадом
func (r *ClassSessionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM class_sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return affected > 0, nil
}

// MergeAttendance блокирует строку занятия и применяет все отметки в одной
// транзакции, так что параллельные пачки не перемешиваются
func (r *ClassSessionRepository) MergeAttendance(ctx context.Context, id uuid.UUID, entries []model.Attendance) (*model.ClassSession, error) {
	var session *model.ClassSession

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM class_sessions WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if base.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		if len(entries) > 0 {
			batch := &pgx.Batch{}
			for _, entry := range entries {
				batch.Queue(`
					INSERT INTO class_attendances (session_id, student_id, status)
					VALUES ($1, $2, $3)
					ON CONFLICT (session_id, student_id) DO UPDATE SET status = EXCLUDED.status
				`, id, entry.StudentID, entry.Status)
			}
			batch.Queue(`UPDATE class_sessions SET updated_at = now() WHERE id = $1`, id)

			if err := base.ExecBatch(ctx, tx, batch); err != nil {
				return fmt.Errorf("upsert attendances: %w", err)
			}
		}

		session, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("merge attendance: %w", err)
	}

	return session, nil
}

// ListByStudent занятия, где у ученика есть отметка
func (r *ClassSessionRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.ClassSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM class_sessions s
		WHERE EXISTS (
			SELECT 1 FROM class_attendances a
			WHERE a.session_id = s.id AND a.student_id = $1
		)
		` + sessionOrder

	sessions, err := r.querySessions(ctx, r.Pool(), query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by student: %w", err)
	}
	return sessions, nil
}

func (r *ClassSessionRepository) getByID(ctx context.Context, q base.Querier, id uuid.UUID) (*model.ClassSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM class_sessions s WHERE s.id = $1`

	sessions, err := r.querySessions(ctx, q, query, id)
	if err != nil {
		return nil, fmt.Errorf("get session by id: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (r *ClassSessionRepository) querySessions(ctx context.Context, q base.Querier, query string, args ...interface{}) ([]*model.ClassSession, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*model.ClassSession, 0)
	byID := make(map[uuid.UUID]*model.ClassSession)
	for rows.Next() {
		session := &model.ClassSession{Attendances: []model.Attendance{}}
		err := rows.Scan(
			&session.ID,
			&session.Day,
			&session.Month,
			&session.Year,
			&session.StartTime,
			&session.EndTime,
			&session.Teachers,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
		byID[session.ID] = session
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	if len(sessions) == 0 {
		return sessions, nil
	}

	if err := attachAttendances(ctx, q, byID); err != nil {
		return nil, err
	}
	return sessions, nil
}

// attachAttendances подгружает отметки одним запросом в порядке добавления
func attachAttendances(ctx context.Context, q base.Querier, byID map[uuid.UUID]*model.ClassSession) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := q.Query(ctx, `
		SELECT session_id, student_id, status
		FROM class_attendances
		WHERE session_id = ANY($1)
		ORDER BY seq
	`, ids)
	if err != nil {
		return fmt.Errorf("query attendances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sessionID uuid.UUID
		var attendance model.Attendance
		if err := rows.Scan(&sessionID, &attendance.StudentID, &attendance.Status); err != nil {
			return fmt.Errorf("scan attendance: %w", err)
		}
		if session, ok := byID[sessionID]; ok {
			session.Attendances = append(session.Attendances, attendance)
		}
	}

	return rows.Err()
}

func teachersOrEmpty(teachers []uuid.UUID) []uuid.UUID {
	if teachers == nil {
		return []uuid.UUID{}
	}
	return teachers
}
