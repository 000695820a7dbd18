package service

import (
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *ServiceSuite) TestDebtorsArePendingPayments() {
	anna := s.createStudent(1, "Аня")
	boris := s.createStudent(2, "Борис")

	s.monthlyPayment(anna, 15000, model.Period{Month: 1, Year: 2025})
	debt := s.markPending(s.monthlyPayment(boris, 15000, model.Period{Month: 1, Year: 2025}))
	other := s.markPending(s.monthlyPayment(boris, 15000, model.Period{Month: 2, Year: 2025}))

	debtors, err := s.reports.Debtors(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(debtors, 2)

	january, err := s.reports.Debtors(s.ctx, &model.Period{Month: 1, Year: 2025})
	s.Require().NoError(err)
	s.Require().Len(january, 1)
	s.Equal(debt.ID, january[0].ID)
	s.NotEqual(other.ID, january[0].ID)

	_, err = s.reports.Debtors(s.ctx, &model.Period{Month: 0, Year: 2025})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestPaymentsSummary() {
	student := s.createStudent(1, "Аня")
	s.monthlyPayment(student, 15000, model.Period{Month: 1, Year: 2025})
	s.monthlyPayment(student, 5000, model.Period{Month: 1, Year: 2025})
	s.markPending(s.monthlyPayment(student, 7000, model.Period{Month: 1, Year: 2025}))
	s.monthlyPayment(student, 9999, model.Period{Month: 2, Year: 2025})

	summary, err := s.reports.PaymentsSummary(s.ctx, &model.Period{Month: 1, Year: 2025})
	s.Require().NoError(err)
	s.Require().Len(summary, 2)

	pending, completed := summary[0], summary[1]
	s.Equal(model.PaymentStatusPending, pending.Status)
	s.Equal(1, pending.Count)
	s.True(pending.TheoreticalTotal.Equal(decimal.NewFromInt(7000)))
	s.True(pending.CollectedTotal.IsZero())

	s.Equal(model.PaymentStatusCompleted, completed.Status)
	s.Equal(2, completed.Count)
	s.True(completed.TheoreticalTotal.Equal(decimal.NewFromInt(20000)))
	s.True(completed.CollectedTotal.Equal(decimal.NewFromInt(20000)))
}

func (s *ServiceSuite) TestPaymentsSummaryOmitsEmptyGroups() {
	student := s.createStudent(1, "Аня")
	s.monthlyPayment(student, 15000)

	summary, err := s.reports.PaymentsSummary(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(summary, 1)
	s.Equal(model.PaymentStatusCompleted, summary[0].Status)

	empty, err := s.reports.PaymentsSummary(s.ctx, &model.Period{Month: 6, Year: 2030})
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *ServiceSuite) TestPaymentsByDateRangeDefaults() {
	student := s.createStudent(1, "Аня")
	old := s.monthlyPayment(student, 100)
	s.advance(24 * time.Hour)
	recent := s.monthlyPayment(student, 200)

	all, err := s.reports.PaymentsByDateRange(s.ctx, nil, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	// Границы включительные
	from := recent.CreatedAt
	onlyRecent, err := s.reports.PaymentsByDateRange(s.ctx, &from, nil)
	s.Require().NoError(err)
	s.Require().Len(onlyRecent, 1)
	s.Equal(recent.ID, onlyRecent[0].ID)

	to := old.CreatedAt
	onlyOld, err := s.reports.PaymentsByDateRange(s.ctx, nil, &to)
	s.Require().NoError(err)
	s.Require().Len(onlyOld, 1)
	s.Equal(old.ID, onlyOld[0].ID)

	_, err = s.reports.PaymentsByDateRange(s.ctx, &from, &to)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestAttendanceSummary() {
	first := s.createSession(6, 1, 2025, "18:00", "19:00")
	s.createSession(13, 1, 2025, "18:00", "19:00")
	s.createSession(3, 2, 2025, "18:00", "19:00")

	_, err := s.classes.MarkAttendance(s.ctx, first.ID, []AttendanceEntry{
		{StudentID: uuid.NewString()},
		{StudentID: uuid.NewString()},
		{StudentID: uuid.NewString()},
		{StudentID: uuid.NewString(), Status: model.AttendanceAbsent},
	})
	s.Require().NoError(err)

	summary, err := s.reports.AttendanceSummary(s.ctx, 1, 2025)
	s.Require().NoError(err)
	s.Equal(2, summary.TotalClasses)
	s.Equal(3, summary.TotalPresent)
	s.InDelta(1.5, summary.AveragePerClass, 1e-9)

	empty, err := s.reports.AttendanceSummary(s.ctx, 7, 2025)
	s.Require().NoError(err)
	s.Zero(empty.TotalClasses)
	s.Zero(empty.AveragePerClass)

	_, err = s.reports.AttendanceSummary(s.ctx, 13, 2025)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestStudentAttendanceByMonth() {
	student := uuid.New()
	a := s.createSession(6, 1, 2025, "18:00", "19:00")
	b := s.createSession(13, 1, 2025, "18:00", "19:00")
	c := s.createSession(3, 2, 2025, "18:00", "19:00")

	for _, session := range []*model.ClassSession{a, c} {
		_, err := s.classes.MarkAttendance(s.ctx, session.ID, []AttendanceEntry{{StudentID: student.String()}})
		s.Require().NoError(err)
	}
	_, err := s.classes.MarkAttendance(s.ctx, b.ID, []AttendanceEntry{{StudentID: student.String(), Status: model.AttendanceAbsent}})
	s.Require().NoError(err)

	result, err := s.reports.StudentAttendanceByMonth(s.ctx, student, 1, 2025)
	s.Require().NoError(err)
	s.Equal(1, result.AttendedCount)
	s.Equal(student, result.StudentID)
}

func (s *ServiceSuite) TestPaymentsSummaryOrdersUnknownStatuses() {
	student := s.createStudent(1, "Аня")
	s.markPending(s.monthlyPayment(student, 100))
	s.monthlyPayment(student, 200)

	// Такие статусы появляются только при ручной правке базы
	for _, status := range []model.PaymentStatus{"refunded", "archived", "disputed"} {
		s.Require().NoError(s.paymentRepo.Create(s.ctx, &model.Payment{
			PaymentType: model.PaymentTypeMonthly,
			Amount:      decimal.NewFromInt(50),
			Status:      status,
			CreatedAt:   s.clock,
		}))
	}

	for i := 0; i < 5; i++ {
		summary, err := s.reports.PaymentsSummary(s.ctx, nil)
		s.Require().NoError(err)

		statuses := make([]model.PaymentStatus, 0, len(summary))
		for _, group := range summary {
			statuses = append(statuses, group.Status)
		}
		s.Equal([]model.PaymentStatus{
			model.PaymentStatusPending,
			model.PaymentStatusCompleted,
			"archived",
			"disputed",
			"refunded",
		}, statuses)
		s.True(summary[2].CollectedTotal.IsZero())
	}
}
