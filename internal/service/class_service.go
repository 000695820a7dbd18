package service

import (
	"context"
	"sort"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/calendar"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionInput данные для ручного создания занятия
type SessionInput struct {
	Day       int         `json:"day" validate:"min=1,max=31"`
	Month     int         `json:"month" validate:"min=1,max=12"`
	Year      int         `json:"year" validate:"min=1"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Teachers  []uuid.UUID `json:"teachers"`
}

// SessionPatch частичное изменение занятия.
// nil = поле не передано; указатель на пустое значение = поле очищается.
type SessionPatch struct {
	Day       *int
	Month     *int
	Year      *int
	StartTime *string
	EndTime   *string
	Teachers  *[]uuid.UUID
}

// AttendanceEntry отметка из запроса. StudentID приходит строкой, некорректные
// идентификаторы пропускаются. Пустой Status = present.
type AttendanceEntry struct {
	StudentID string
	Status    model.AttendanceStatus
}

// ClassService хранилище занятий и журнал посещений
type ClassService struct {
	sessionRepo ClassSessionRepository
	logger      *zap.Logger
}

func NewClassService(sessionRepo ClassSessionRepository, logger *zap.Logger) *ClassService {
	return &ClassService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// CreateSession создаёт одно занятие вручную (без шаблона)
func (s *ClassService) CreateSession(ctx context.Context, input SessionInput) (*model.ClassSession, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validateDate(input.Day, input.Month, input.Year); err != nil {
		return nil, err
	}

	teachers := input.Teachers
	if teachers == nil {
		teachers = []uuid.UUID{}
	}

	now := time.Now()
	session := &model.ClassSession{
		ID:          uuid.New(),
		Day:         input.Day,
		Month:       input.Month,
		Year:        input.Year,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Teachers:    teachers,
		Attendances: []model.Attendance{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, internalError(s.logger, "create session", err)
	}

	s.logger.Info("Class session created",
		zap.String("session_id", session.ID.String()),
		zap.Time("date", session.Date()),
		zap.String("start_time", session.StartTime),
	)

	return session, nil
}

// BulkCreateSessions сохраняет развёрнутые записи как занятия.
// Дубликаты не проверяются: два вызова с одними записями дают два набора занятий.
func (s *ClassService) BulkCreateSessions(ctx context.Context, records []model.SlotRecord) ([]*model.ClassSession, error) {
	for i, record := range records {
		if err := validateDate(record.Day, record.Month, record.Year); err != nil {
			return nil, invalidInput("record %d: %v", i, err)
		}
	}

	sessions := sessionsFromRecords(records)
	if len(sessions) == 0 {
		return sessions, nil
	}

	if err := s.sessionRepo.CreateMany(ctx, sessions); err != nil {
		return nil, internalError(s.logger, "create sessions", err, zap.Int("count", len(sessions)))
	}

	s.logger.Info("Class sessions created", zap.Int("count", len(sessions)))
	return sessions, nil
}

// GetSession получает занятие по ID
func (s *ClassService) GetSession(ctx context.Context, id uuid.UUID) (*model.ClassSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError(s.logger, "get session", err, zap.String("session_id", id.String()))
	}
	if session == nil {
		return nil, notFound("class session")
	}
	return session, nil
}

// ListSessions список занятий с необязательным фильтром по месяцу/году
func (s *ClassService) ListSessions(ctx context.Context, filter model.SessionFilter) ([]*model.ClassSession, error) {
	if filter.Month != nil && (*filter.Month < 1 || *filter.Month > 12) {
		return nil, invalidInput("month must be in range 1..12")
	}
	if filter.Year != nil && *filter.Year < 1 {
		return nil, invalidInput("year must be positive")
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, "list sessions", err)
	}
	return sessions, nil
}

// UpdateSession меняет только переданные поля
func (s *ClassService) UpdateSession(ctx context.Context, id uuid.UUID, patch SessionPatch) (*model.ClassSession, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Day != nil {
		session.Day = *patch.Day
	}
	if patch.Month != nil {
		session.Month = *patch.Month
	}
	if patch.Year != nil {
		session.Year = *patch.Year
	}
	if patch.StartTime != nil {
		session.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		session.EndTime = *patch.EndTime
	}
	if patch.Teachers != nil {
		session.Teachers = append([]uuid.UUID{}, *patch.Teachers...)
	}

	if err := validateDate(session.Day, session.Month, session.Year); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.Update(ctx, session)
	if err != nil {
		return nil, internalError(s.logger, "update session", err, zap.String("session_id", id.String()))
	}
	if !updated {
		return nil, notFound("class session")
	}

	s.logger.Info("Class session updated", zap.String("session_id", id.String()))

	// перечитываем: отметки могли измениться параллельно
	return s.GetSession(ctx, id)
}

// DeleteSession удаляет занятие вместе с его отметками
func (s *ClassService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.sessionRepo.Delete(ctx, id)
	if err != nil {
		return internalError(s.logger, "delete session", err, zap.String("session_id", id.String()))
	}
	if !deleted {
		return notFound("class session")
	}

	s.logger.Info("Class session deleted", zap.String("session_id", id.String()))
	return nil
}

// MarkAttendance отмечает посещение пачкой. Некорректные ID учеников
// пропускаются, остальные отметки применяются одним атомарным обновлением.
func (s *ClassService) MarkAttendance(ctx context.Context, sessionID uuid.UUID, entries []AttendanceEntry) (*model.ClassSession, error) {
	batch := make([]model.Attendance, 0, len(entries))
	positions := make(map[uuid.UUID]int, len(entries))
	skipped := 0

	for _, entry := range entries {
		status := entry.Status
		if status == "" {
			status = model.AttendancePresent
		}
		if !status.Valid() {
			return nil, invalidInput("attendance status %q must be one of [present absent]", entry.Status)
		}

		studentID, err := uuid.Parse(entry.StudentID)
		if err != nil || studentID == uuid.Nil {
			skipped++
			continue
		}

		// повтор ученика в одной пачке: побеждает последняя отметка
		if pos, ok := positions[studentID]; ok {
			batch[pos].Status = status
			continue
		}
		positions[studentID] = len(batch)
		batch = append(batch, model.Attendance{StudentID: studentID, Status: status})
	}

	session, err := s.sessionRepo.MergeAttendance(ctx, sessionID, batch)
	if err != nil {
		return nil, internalError(s.logger, "mark attendance", err, zap.String("session_id", sessionID.String()))
	}
	if session == nil {
		return nil, notFound("class session")
	}

	s.logger.Info("Attendance marked",
		zap.String("session_id", sessionID.String()),
		zap.Int("applied", len(batch)),
		zap.Int("skipped", skipped),
	)

	return session, nil
}

// StudentAttendanceHistory история посещений ученика по датам.
// Занятия без отметки ученика не попадают в историю.
func (s *ClassService) StudentAttendanceHistory(ctx context.Context, studentID uuid.UUID) ([]model.AttendanceRecord, error) {
	sessions, err := s.sessionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(s.logger, "list sessions by student", err, zap.String("student_id", studentID.String()))
	}

	history := make([]model.AttendanceRecord, 0, len(sessions))
	for _, session := range sessions {
		attendance, ok := session.AttendanceOf(studentID)
		if !ok {
			continue
		}
		history = append(history, model.AttendanceRecord{
			SessionID: session.ID,
			Date:      session.Date(),
			StartTime: session.StartTime,
			EndTime:   session.EndTime,
			Status:    attendance.Status,
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		if !history[i].Date.Equal(history[j].Date) {
			return history[i].Date.Before(history[j].Date)
		}
		return history[i].StartTime < history[j].StartTime
	})

	return history, nil
}

func validateDate(day, month, year int) error {
	if err := calendar.ValidatePeriod(month, year); err != nil {
		return invalidInput("%v", err)
	}
	if days := calendar.DaysIn(month, year); day < 1 || day > days {
		return invalidInput("day must be in range 1..%d for %02d/%d", days, month, year)
	}
	return nil
}
