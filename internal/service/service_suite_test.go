package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// ServiceSuite поднимает все сервисы поверх in-memory репозиториев
type ServiceSuite struct {
	suite.Suite

	ctx context.Context

	userRepo     *memory.UserRepository
	scheduleRepo *memory.ScheduleRepository
	sessionRepo  *memory.ClassSessionRepository
	paymentRepo  *memory.PaymentRepository

	users     *UserService
	schedules *ScheduleService
	classes   *ClassService
	payments  *PaymentService
	reports   *ReportService

	clock time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	logger := zap.NewNop()

	s.userRepo = memory.NewUserRepository()
	s.scheduleRepo = memory.NewScheduleRepository()
	s.sessionRepo = memory.NewClassSessionRepository()
	s.paymentRepo = memory.NewPaymentRepository()

	s.users = NewUserService(s.userRepo, []int64{1000}, logger)
	s.schedules = NewScheduleService(s.scheduleRepo, s.sessionRepo, logger)
	s.classes = NewClassService(s.sessionRepo, logger)
	s.payments = NewPaymentService(s.paymentRepo, s.sessionRepo, s.userRepo, logger)
	s.reports = NewReportService(s.paymentRepo, s.sessionRepo, logger)

	s.clock = time.Date(2025, time.February, 1, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return s.clock }
}

func (s *ServiceSuite) TearDownTest() {
	nowFunc = time.Now
}

// advance сдвигает часы, чтобы created_at платежей различались
func (s *ServiceSuite) advance(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func (s *ServiceSuite) createStudent(telegramID int64, name string) *model.User {
	user, err := s.users.RegisterUser(s.ctx, telegramID, "", name, "", "ru")
	s.Require().NoError(err)
	return user
}

func (s *ServiceSuite) createSession(day, month, year int, start, end string) *model.ClassSession {
	session, err := s.classes.CreateSession(s.ctx, SessionInput{
		Day:       day,
		Month:     month,
		Year:      year,
		StartTime: start,
		EndTime:   end,
	})
	s.Require().NoError(err)
	return session
}

func (s *ServiceSuite) monthlyPayment(user *model.User, amount int64, periods ...model.Period) *model.Payment {
	payment, err := s.payments.CreatePayment(s.ctx, PaymentInput{
		PaymentType: model.PaymentTypeMonthly,
		UserID:      user.ID.String(),
		MonthsPaid:  periods,
		Amount:      decimal.NewFromInt(amount),
	})
	s.Require().NoError(err)
	return payment
}

// markPending переводит платёж в pending: при создании с amount > 0 он всегда completed
func (s *ServiceSuite) markPending(payment *model.Payment) *model.Payment {
	status := model.PaymentStatusPending
	updated, err := s.payments.UpdatePayment(s.ctx, payment.ID, PaymentPatch{Status: &status})
	s.Require().NoError(err)
	return updated
}
