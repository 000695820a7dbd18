package service

import (
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *ServiceSuite) TestCreateMonthlyPaymentCompletes() {
	student := s.createStudent(1, "Аня")

	payment := s.monthlyPayment(student, 15000, model.Period{Month: 1, Year: 2025})

	s.Equal(model.PaymentStatusCompleted, payment.Status)
	s.Equal(model.PaymentMethodCash, payment.Method)
	s.True(payment.Amount.Equal(decimal.NewFromInt(15000)))
	s.Equal(s.clock, payment.PaymentDate)
	s.Require().NotNil(payment.UserID)
	s.Equal(student.ID, *payment.UserID)

	stored, err := s.payments.GetPayment(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.Equal(payment.MonthsPaid, stored.MonthsPaid)
}

func (s *ServiceSuite) TestCreatePaymentValidation() {
	student := s.createStudent(1, "Аня")

	tests := []struct {
		name  string
		input PaymentInput
	}{
		{"missing type", PaymentInput{Amount: decimal.NewFromInt(100)}},
		{"unknown type", PaymentInput{PaymentType: "gift", Amount: decimal.NewFromInt(100)}},
		{"zero amount", PaymentInput{PaymentType: model.PaymentTypeMonthly, Amount: decimal.Zero}},
		{"negative amount", PaymentInput{PaymentType: model.PaymentTypeMonthly, Amount: decimal.NewFromInt(-5)}},
		{"unknown method", PaymentInput{PaymentType: model.PaymentTypeMonthly, Amount: decimal.NewFromInt(100), Method: "crypto"}},
		{"month out of range", PaymentInput{
			PaymentType: model.PaymentTypeMonthly,
			Amount:      decimal.NewFromInt(100),
			UserID:      student.ID.String(),
			MonthsPaid:  []model.Period{{Month: 13, Year: 2025}},
		}},
		{"malformed user id", PaymentInput{PaymentType: model.PaymentTypeMonthly, Amount: decimal.NewFromInt(100), UserID: "abc"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.payments.CreatePayment(s.ctx, tt.input)
			s.ErrorIs(err, ErrInvalidInput)
		})
	}

	payments, err := s.payments.ListPayments(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(payments)
}

func (s *ServiceSuite) TestCreatePaymentUnknownReferences() {
	_, err := s.payments.CreatePayment(s.ctx, PaymentInput{
		PaymentType: model.PaymentTypeMonthly,
		UserID:      uuid.NewString(),
		Amount:      decimal.NewFromInt(100),
	})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.payments.CreatePayment(s.ctx, PaymentInput{
		PaymentType:    model.PaymentTypeSingle,
		ClassSessionID: uuid.NewString(),
		Amount:         decimal.NewFromInt(100),
	})
	s.ErrorIs(err, ErrNotFound)

	payments, err := s.payments.ListPayments(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(payments)
}

func (s *ServiceSuite) TestSessionReferenceCheckedOnlyForSessionTypes() {
	// Для sponsor ссылка на занятие хранится, но не проверяется
	payment, err := s.payments.CreatePayment(s.ctx, PaymentInput{
		PaymentType:    model.PaymentTypeSponsor,
		ClassSessionID: uuid.NewString(),
		Amount:         decimal.NewFromInt(500),
	})
	s.Require().NoError(err)
	s.NotNil(payment.ClassSessionID)

	session := s.createSession(6, 1, 2025, "18:00", "19:00")
	single, err := s.payments.CreatePayment(s.ctx, PaymentInput{
		PaymentType:    model.PaymentTypeSingle,
		ClassSessionID: session.ID.String(),
		Amount:         decimal.RequireFromString("800.50"),
		Method:         model.PaymentMethodCard,
	})
	s.Require().NoError(err)
	s.Equal(session.ID, *single.ClassSessionID)
}

func (s *ServiceSuite) TestListPaymentsByUserNewestFirst() {
	anna := s.createStudent(1, "Аня")
	boris := s.createStudent(2, "Борис")

	first := s.monthlyPayment(anna, 1000, model.Period{Month: 1, Year: 2025})
	s.advance(time.Minute)
	s.monthlyPayment(boris, 1000, model.Period{Month: 1, Year: 2025})
	s.advance(time.Minute)
	second := s.monthlyPayment(anna, 1000, model.Period{Month: 2, Year: 2025})

	payments, err := s.payments.ListPayments(s.ctx, &anna.ID)
	s.Require().NoError(err)
	s.Require().Len(payments, 2)
	s.Equal(second.ID, payments[0].ID)
	s.Equal(first.ID, payments[1].ID)

	all, err := s.payments.ListPayments(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *ServiceSuite) TestListPaymentsByPeriodUsesMonthsPaid() {
	student := s.createStudent(1, "Аня")
	both := s.monthlyPayment(student, 30000, model.Period{Month: 1, Year: 2025}, model.Period{Month: 2, Year: 2025})
	s.monthlyPayment(student, 15000, model.Period{Month: 3, Year: 2025})
	s.monthlyPayment(student, 15000, model.Period{Month: 2, Year: 2024})

	payments, err := s.payments.ListPaymentsByPeriod(s.ctx, 2, 2025)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(both.ID, payments[0].ID)

	_, err = s.payments.ListPaymentsByPeriod(s.ctx, 0, 2025)
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestListPaymentsByDateRange() {
	student := s.createStudent(1, "Аня")
	start := s.clock
	s.monthlyPayment(student, 100)
	s.advance(48 * time.Hour)
	inside := s.monthlyPayment(student, 200)
	s.advance(48 * time.Hour)
	s.monthlyPayment(student, 300)

	payments, err := s.payments.ListPaymentsByDateRange(s.ctx, start.Add(time.Hour), inside.CreatedAt)
	s.Require().NoError(err)
	s.Require().Len(payments, 1)
	s.Equal(inside.ID, payments[0].ID)

	_, err = s.payments.ListPaymentsByDateRange(s.ctx, start, start.Add(-time.Second))
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ServiceSuite) TestUpdatePayment() {
	student := s.createStudent(1, "Аня")
	payment := s.monthlyPayment(student, 15000, model.Period{Month: 1, Year: 2025})

	notes := "перевод от родителей"
	method := model.PaymentMethodTransfer
	cleared := ""
	updated, err := s.payments.UpdatePayment(s.ctx, payment.ID, PaymentPatch{
		Notes:  &notes,
		Method: &method,
		UserID: &cleared,
	})
	s.Require().NoError(err)
	s.Equal(notes, updated.Notes)
	s.Equal(model.PaymentMethodTransfer, updated.Method)
	s.Nil(updated.UserID)
	s.Equal(model.PaymentStatusCompleted, updated.Status)

	missingUser := uuid.NewString()
	_, err = s.payments.UpdatePayment(s.ctx, payment.ID, PaymentPatch{UserID: &missingUser})
	s.ErrorIs(err, ErrNotFound)

	badStatus := model.PaymentStatus("partial")
	_, err = s.payments.UpdatePayment(s.ctx, payment.ID, PaymentPatch{Status: &badStatus})
	s.ErrorIs(err, ErrInvalidInput)

	zero := decimal.Zero
	_, err = s.payments.UpdatePayment(s.ctx, payment.ID, PaymentPatch{Amount: &zero})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.payments.UpdatePayment(s.ctx, uuid.New(), PaymentPatch{Notes: &notes})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestDeletePayment() {
	student := s.createStudent(1, "Аня")
	payment := s.monthlyPayment(student, 15000)

	s.Require().NoError(s.payments.DeletePayment(s.ctx, payment.ID))
	_, err := s.payments.GetPayment(s.ctx, payment.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.payments.DeletePayment(s.ctx, payment.ID), ErrNotFound)
}

func (s *ServiceSuite) TestAmountPrecisionMatchesStorage() {
	student := s.createStudent(1, "Аня")

	for _, raw := range []string{"0.001", "100.005", "1000000000000"} {
		s.Run(raw, func() {
			_, err := s.payments.CreatePayment(s.ctx, PaymentInput{
				PaymentType: model.PaymentTypeMonthly,
				UserID:      student.ID.String(),
				Amount:      decimal.RequireFromString(raw),
			})
			s.ErrorIs(err, ErrInvalidInput)
		})
	}

	payments, err := s.payments.ListPayments(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(payments)

	// Нули после копеек не считаются лишними знаками
	payment, err := s.payments.CreatePayment(s.ctx, PaymentInput{
		PaymentType: model.PaymentTypeMonthly,
		Amount:      decimal.RequireFromString("100.500"),
	})
	s.Require().NoError(err)
	s.True(payment.Amount.Equal(decimal.RequireFromString("100.5")))

	tooPrecise := decimal.RequireFromString("99.999")
	_, err = s.payments.UpdatePayment(s.ctx, payment.ID, PaymentPatch{Amount: &tooPrecise})
	s.ErrorIs(err, ErrInvalidInput)

	stored, err := s.payments.GetPayment(s.ctx, payment.ID)
	s.Require().NoError(err)
	s.True(stored.Amount.Equal(decimal.RequireFromString("100.5")))
}
