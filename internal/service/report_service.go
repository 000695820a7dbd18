package service

import (
	"context"
	"sort"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatusSummary итог по одному статусу платежей
type StatusSummary struct {
	Status model.PaymentStatus `json:"status"`
	Count  int                 `json:"count"`
	// TheoreticalTotal сумма amount всех платежей группы
	TheoreticalTotal decimal.Decimal `json:"theoretical_total"`
	// CollectedTotal сумма amount завершённых платежей, для pending всегда 0
	CollectedTotal decimal.Decimal `json:"collected_total"`
}

// AttendanceSummary посещаемость студии за месяц
type AttendanceSummary struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	TotalClasses    int     `json:"total_classes"`
	TotalPresent    int     `json:"total_present"`
	AveragePerClass float64 `json:"average_per_class"`
}

// StudentMonthAttendance посещения ученика за месяц
type StudentMonthAttendance struct {
	StudentID     uuid.UUID `json:"student_id"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	AttendedCount int       `json:"attended_count"`
}

// ReportService отчёты только на чтение поверх занятий и платежей
type ReportService struct {
	paymentRepo PaymentRepository
	sessionRepo ClassSessionRepository
	logger      *zap.Logger
}

func NewReportService(paymentRepo PaymentRepository, sessionRepo ClassSessionRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		paymentRepo: paymentRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Debtors платежи в статусе pending, при необходимости только за период
func (s *ReportService) Debtors(ctx context.Context, period *model.Period) ([]*model.Payment, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.List(ctx, model.PaymentFilter{
		Period:   period,
		Statuses: []model.PaymentStatus{model.PaymentStatusPending},
	})
	if err != nil {
		return nil, internalError(s.logger, "list debtors", err)
	}
	return payments, nil
}

// PaymentsSummary группирует платежи по статусу. Пустые группы не выводятся.
func (s *ReportService) PaymentsSummary(ctx context.Context, period *model.Period) ([]StatusSummary, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.List(ctx, model.PaymentFilter{Period: period})
	if err != nil {
		return nil, internalError(s.logger, "list payments for summary", err)
	}

	groups := make(map[model.PaymentStatus]*StatusSummary)
	for _, payment := range payments {
		group, ok := groups[payment.Status]
		if !ok {
			group = &StatusSummary{
				Status:           payment.Status,
				TheoreticalTotal: decimal.Zero,
				CollectedTotal:   decimal.Zero,
			}
			groups[payment.Status] = group
		}

		group.Count++
		group.TheoreticalTotal = group.TheoreticalTotal.Add(payment.Amount)
		if payment.IsSettled() {
			group.CollectedTotal = group.CollectedTotal.Add(payment.Amount)
		}
	}

	summary := make([]StatusSummary, 0, len(groups))
	for _, status := range model.PaymentStatuses {
		if group, ok := groups[status]; ok {
			summary = append(summary, *group)
			delete(groups, status)
		}
	}
	// статусы вне известного списка (ручные правки в БД) идут в конец по алфавиту
	unknown := make([]model.PaymentStatus, 0, len(groups))
	for status := range groups {
		unknown = append(unknown, status)
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, status := range unknown {
		summary = append(summary, *groups[status])
	}

	return summary, nil
}

// PaymentsByDateRange платежи, созданные в [start, end]. Без границ за всё время.
func (s *ReportService) PaymentsByDateRange(ctx context.Context, start, end *time.Time) ([]*model.Payment, error) {
	from := time.Unix(0, 0).UTC()
	if start != nil {
		from = *start
	}
	to := nowFunc()
	if end != nil {
		to = *end
	}
	if to.Before(from) {
		return nil, invalidInput("range end is before range start")
	}

	payments, err := s.paymentRepo.List(ctx, model.PaymentFilter{CreatedFrom: &from, CreatedTo: &to})
	if err != nil {
		return nil, internalError(s.logger, "list payments by date range", err)
	}
	return payments, nil
}

// AttendanceSummary число занятий и отметок present за месяц
func (s *ReportService) AttendanceSummary(ctx context.Context, month, year int) (*AttendanceSummary, error) {
	sessions, err := s.monthSessions(ctx, month, year)
	if err != nil {
		return nil, err
	}

	summary := &AttendanceSummary{
		Month:        month,
		Year:         year,
		TotalClasses: len(sessions),
	}
	for _, session := range sessions {
		summary.TotalPresent += session.CountPresent()
	}
	if summary.TotalClasses > 0 {
		summary.AveragePerClass = float64(summary.TotalPresent) / float64(summary.TotalClasses)
	}

	return summary, nil
}

// StudentAttendanceByMonth сколько занятий месяца ученик посетил
func (s *ReportService) StudentAttendanceByMonth(ctx context.Context, studentID uuid.UUID, month, year int) (*StudentMonthAttendance, error) {
	sessions, err := s.monthSessions(ctx, month, year)
	if err != nil {
		return nil, err
	}

	result := &StudentMonthAttendance{
		StudentID: studentID,
		Month:     month,
		Year:      year,
	}
	for _, session := range sessions {
		if attendance, ok := session.AttendanceOf(studentID); ok && attendance.Status == model.AttendancePresent {
			result.AttendedCount++
		}
	}

	return result, nil
}

func (s *ReportService) monthSessions(ctx context.Context, month, year int) ([]*model.ClassSession, error) {
	if err := validatePeriod(&model.Period{Month: month, Year: year}); err != nil {
		return nil, err
	}

	sessions, err := s.sessionRepo.List(ctx, model.SessionFilter{Month: &month, Year: &year})
	if err != nil {
		return nil, internalError(s.logger, "list sessions for report", err)
	}
	return sessions, nil
}

func validatePeriod(period *model.Period) error {
	if period == nil {
		return nil
	}
	return validateInput(period)
}
