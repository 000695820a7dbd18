package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/calendar"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleInput данные для создания шаблона
type ScheduleInput struct {
	Name      string           `json:"name" validate:"required"`
	TimeSlots []model.TimeSlot `json:"time_slots" validate:"required,min=1,dive"`
}

// SchedulePatch частичное изменение шаблона; nil = поле не трогаем
type SchedulePatch struct {
	Name      *string
	TimeSlots *[]model.TimeSlot
}

// GenerateResult итог генерации занятий на месяц
type GenerateResult struct {
	Sessions []*model.ClassSession
	// Duplicates сколько созданных занятий совпали по дате и времени с уже
	// существующими. Генерация не идемпотентна, это предупреждение вызывающему.
	Duplicates int
	// Skipped сколько записей пропущено (только GenerateMissingClasses)
	Skipped int
}

type ScheduleService struct {
	scheduleRepo ScheduleRepository
	sessionRepo  ClassSessionRepository
	logger       *zap.Logger
}

func NewScheduleService(
	scheduleRepo ScheduleRepository,
	sessionRepo ClassSessionRepository,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		sessionRepo:  sessionRepo,
		logger:       logger,
	}
}

// CreateSchedule создаёт шаблон регулярного расписания
func (s *ScheduleService) CreateSchedule(ctx context.Context, input ScheduleInput) (*model.Schedule, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	schedule := &model.Schedule{
		ID:        uuid.New(),
		Name:      input.Name,
		TimeSlots: input.TimeSlots,
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, internalError(s.logger, "create schedule", err)
	}

	s.logger.Info("Schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("name", schedule.Name),
		zap.Int("time_slots", len(schedule.TimeSlots)),
	)

	return schedule, nil
}

// GetSchedule получает шаблон по ID
func (s *ScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError(s.logger, "get schedule", err, zap.String("schedule_id", id.String()))
	}
	if schedule == nil {
		return nil, notFound("schedule")
	}
	return schedule, nil
}

// ListSchedules возвращает все шаблоны
func (s *ScheduleService) ListSchedules(ctx context.Context) ([]*model.Schedule, error) {
	schedules, err := s.scheduleRepo.List(ctx)
	if err != nil {
		return nil, internalError(s.logger, "list schedules", err)
	}
	return schedules, nil
}

// UpdateSchedule меняет название или слоты. Уже созданные занятия не меняются.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id uuid.UUID, patch SchedulePatch) (*model.Schedule, error) {
	schedule, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		schedule.Name = *patch.Name
	}
	if patch.TimeSlots != nil {
		schedule.TimeSlots = *patch.TimeSlots
	}

	if err := validateInput(ScheduleInput{Name: schedule.Name, TimeSlots: schedule.TimeSlots}); err != nil {
		return nil, err
	}

	updated, err := s.scheduleRepo.Update(ctx, schedule)
	if err != nil {
		return nil, internalError(s.logger, "update schedule", err, zap.String("schedule_id", id.String()))
	}
	if !updated {
		return nil, notFound("schedule")
	}

	s.logger.Info("Schedule updated", zap.String("schedule_id", id.String()))
	return schedule, nil
}

// DeleteSchedule удаляет шаблон. Созданные по нему занятия остаются.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.scheduleRepo.Delete(ctx, id)
	if err != nil {
		return internalError(s.logger, "delete schedule", err, zap.String("schedule_id", id.String()))
	}
	if !deleted {
		return notFound("schedule")
	}

	s.logger.Info("Schedule deleted", zap.String("schedule_id", id.String()))
	return nil
}

// ExpandSchedule разворачивает шаблон на месяц без записи в хранилище
func (s *ScheduleService) ExpandSchedule(ctx context.Context, scheduleID uuid.UUID, month, year int) ([]model.SlotRecord, error) {
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return expand(schedule.TimeSlots, month, year)
}

// GenerateClasses создаёт занятия месяца по шаблону.
// Повторный вызов для того же месяца создаёт дубликаты: результат
// содержит их количество, решение остаётся за вызывающим.
func (s *ScheduleService) GenerateClasses(ctx context.Context, scheduleID uuid.UUID, month, year int) (*GenerateResult, error) {
	records, existing, err := s.prepareGeneration(ctx, scheduleID, month, year)
	if err != nil {
		return nil, err
	}

	duplicates := 0
	for _, record := range records {
		if containsSlot(existing, record) {
			duplicates++
		}
	}

	sessions, err := s.insertRecords(ctx, records)
	if err != nil {
		return nil, err
	}

	if duplicates > 0 {
		s.logger.Warn("Generated sessions duplicate existing ones",
			zap.String("schedule_id", scheduleID.String()),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Int("duplicates", duplicates),
		)
	}

	s.logger.Info("Classes generated from schedule",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("count", len(sessions)),
	)

	return &GenerateResult{Sessions: sessions, Duplicates: duplicates}, nil
}

// GenerateMissingClasses идемпотентный вариант: пропускает записи, для которых
// уже есть занятие с теми же (day, month, year, startTime, endTime)
func (s *ScheduleService) GenerateMissingClasses(ctx context.Context, scheduleID uuid.UUID, month, year int) (*GenerateResult, error) {
	records, existing, err := s.prepareGeneration(ctx, scheduleID, month, year)
	if err != nil {
		return nil, err
	}

	missing := make([]model.SlotRecord, 0, len(records))
	for _, record := range records {
		if containsSlot(existing, record) {
			continue
		}
		missing = append(missing, record)
	}

	sessions, err := s.insertRecords(ctx, missing)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Missing classes generated from schedule",
		zap.String("schedule_id", scheduleID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("created", len(sessions)),
		zap.Int("skipped", len(records)-len(missing)),
	)

	return &GenerateResult{Sessions: sessions, Skipped: len(records) - len(missing)}, nil
}

// GenerateMissingForAll прогоняет идемпотентную генерацию по всем шаблонам
func (s *ScheduleService) GenerateMissingForAll(ctx context.Context, month, year int) (int, error) {
	schedules, err := s.ListSchedules(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, schedule := range schedules {
		result, err := s.GenerateMissingClasses(ctx, schedule.ID, month, year)
		if err != nil {
			s.logger.Error("Failed to generate classes for schedule",
				zap.String("schedule_id", schedule.ID.String()),
				zap.Error(err),
			)
			continue
		}
		total += len(result.Sessions)
	}

	return total, nil
}

func (s *ScheduleService) prepareGeneration(ctx context.Context, scheduleID uuid.UUID, month, year int) ([]model.SlotRecord, []*model.ClassSession, error) {
	schedule, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	if len(schedule.TimeSlots) == 0 {
		return nil, nil, invalidInput("schedule has no time slots")
	}

	records, err := expand(schedule.TimeSlots, month, year)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.sessionRepo.List(ctx, model.SessionFilter{Month: &month, Year: &year})
	if err != nil {
		return nil, nil, internalError(s.logger, "list sessions", err)
	}

	return records, existing, nil
}

func (s *ScheduleService) insertRecords(ctx context.Context, records []model.SlotRecord) ([]*model.ClassSession, error) {
	sessions := sessionsFromRecords(records)
	if len(sessions) == 0 {
		return sessions, nil
	}

	if err := s.sessionRepo.CreateMany(ctx, sessions); err != nil {
		return nil, internalError(s.logger, "create sessions", err, zap.Int("count", len(sessions)))
	}
	return sessions, nil
}

func expand(slots []model.TimeSlot, month, year int) ([]model.SlotRecord, error) {
	records, err := calendar.Expand(slots, month, year)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidMonth) ||
			errors.Is(err, calendar.ErrInvalidYear) ||
			errors.Is(err, calendar.ErrInvalidWeekday) {
			return nil, invalidInput("%v", err)
		}
		return nil, err
	}
	return records, nil
}

func containsSlot(sessions []*model.ClassSession, record model.SlotRecord) bool {
	for _, session := range sessions {
		if session.Slot().SameSlot(record) {
			return true
		}
	}
	return false
}

func sessionsFromRecords(records []model.SlotRecord) []*model.ClassSession {
	now := time.Now()
	sessions := make([]*model.ClassSession, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, &model.ClassSession{
			ID:          uuid.New(),
			Day:         record.Day,
			Month:       record.Month,
			Year:        record.Year,
			StartTime:   record.StartTime,
			EndTime:     record.EndTime,
			Teachers:    []uuid.UUID{},
			Attendances: []model.Attendance{},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return sessions
}
