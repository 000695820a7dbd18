package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// nowFunc подменяется в тестах
var nowFunc = time.Now

// PaymentInput данные нового платежа
type PaymentInput struct {
	PaymentType    model.PaymentType   `json:"payment_type" validate:"required,oneof=monthly single teacher sponsor"`
	UserID         string              `json:"user_id" validate:"omitempty,uuid"`
	ClassSessionID string              `json:"class_session_id" validate:"omitempty,uuid"`
	MonthsPaid     []model.Period      `json:"months_paid" validate:"dive"`
	Amount         decimal.Decimal     `json:"amount" validate:"gt=0"`
	Method         model.PaymentMethod `json:"method" validate:"omitempty,oneof=cash transfer card other"`
	PaymentDate    *time.Time          `json:"payment_date"`
	Notes          string              `json:"notes"`
}

// PaymentPatch частичное изменение платежа.
// Для UserID/ClassSessionID пустая строка убирает ссылку.
type PaymentPatch struct {
	PaymentType    *model.PaymentType
	UserID         *string
	ClassSessionID *string
	MonthsPaid     *[]model.Period
	Amount         *decimal.Decimal
	Method         *model.PaymentMethod
	Status         *model.PaymentStatus
	PaymentDate    *time.Time
	Notes          *string
}

// PaymentService журнал платежей
type PaymentService struct {
	paymentRepo PaymentRepository
	sessionRepo ClassSessionRepository
	users       UserDirectory
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo PaymentRepository,
	sessionRepo ClassSessionRepository,
	users UserDirectory,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		sessionRepo: sessionRepo,
		users:       users,
		logger:      logger,
	}
}

// CreatePayment регистрирует платёж. Платёж с amount > 0 сразу completed:
// частичной оплаты в модели нет.
func (s *PaymentService) CreatePayment(ctx context.Context, input PaymentInput) (*model.Payment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}

	userID, err := parseOptionalID("user_id", input.UserID)
	if err != nil {
		return nil, err
	}
	sessionID, err := parseOptionalID("class_session_id", input.ClassSessionID)
	if err != nil {
		return nil, err
	}

	// Проверяем ссылки до любой записи
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if input.PaymentType.LinksSession() {
		if err := s.requireSession(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	method := input.Method
	if method == "" {
		method = model.PaymentMethodCash
	}

	monthsPaid := input.MonthsPaid
	if monthsPaid == nil {
		monthsPaid = []model.Period{}
	}

	now := nowFunc()
	paymentDate := now
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := &model.Payment{
		ID:             uuid.New(),
		PaymentType:    input.PaymentType,
		UserID:         userID,
		ClassSessionID: sessionID,
		MonthsPaid:     monthsPaid,
		Amount:         input.Amount,
		Method:         method,
		Status:         model.PaymentStatusPending,
		PaymentDate:    paymentDate,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if payment.Amount.IsPositive() {
		payment.Status = model.PaymentStatusCompleted
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, internalError(s.logger, "create payment", err)
	}

	s.logger.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_type", string(payment.PaymentType)),
		zap.String("amount", payment.Amount.String()),
		zap.Int("months_paid", len(payment.MonthsPaid)),
	)

	return payment, nil
}

// GetPayment получает платёж по ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError(s.logger, "get payment", err, zap.String("payment_id", id.String()))
	}
	if payment == nil {
		return nil, notFound("payment")
	}
	return payment, nil
}

// ListPayments все платежи, либо платежи одного пользователя
func (s *PaymentService) ListPayments(ctx context.Context, userID *uuid.UUID) ([]*model.Payment, error) {
	return s.list(ctx, model.PaymentFilter{UserID: userID})
}

// ListPaymentsByPeriod платежи, у которых (month, year) есть среди MonthsPaid
func (s *PaymentService) ListPaymentsByPeriod(ctx context.Context, month, year int) ([]*model.Payment, error) {
	period := model.Period{Month: month, Year: year}
	if err := validateInput(period); err != nil {
		return nil, err
	}
	return s.list(ctx, model.PaymentFilter{Period: &period})
}

// ListPaymentsByDateRange платежи, созданные в [from, to] включительно
func (s *PaymentService) ListPaymentsByDateRange(ctx context.Context, from, to time.Time) ([]*model.Payment, error) {
	if to.Before(from) {
		return nil, invalidInput("range end is before range start")
	}
	return s.list(ctx, model.PaymentFilter{CreatedFrom: &from, CreatedTo: &to})
}

// UpdatePayment меняет переданные поля. Изменённые ссылки проверяются на существование.
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, patch PaymentPatch) (*model.Payment, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.PaymentType != nil {
		payment.PaymentType = *patch.PaymentType
	}
	if patch.UserID != nil {
		userID, err := parseOptionalID("user_id", *patch.UserID)
		if err != nil {
			return nil, err
		}
		if err := s.requireUser(ctx, userID); err != nil {
			return nil, err
		}
		payment.UserID = userID
	}
	if patch.ClassSessionID != nil {
		sessionID, err := parseOptionalID("class_session_id", *patch.ClassSessionID)
		if err != nil {
			return nil, err
		}
		if err := s.requireSession(ctx, sessionID); err != nil {
			return nil, err
		}
		payment.ClassSessionID = sessionID
	}
	if patch.MonthsPaid != nil {
		payment.MonthsPaid = append([]model.Period{}, *patch.MonthsPaid...)
	}
	if patch.Amount != nil {
		payment.Amount = *patch.Amount
	}
	if patch.Method != nil {
		payment.Method = *patch.Method
	}
	if patch.Status != nil {
		payment.Status = *patch.Status
	}
	if patch.PaymentDate != nil {
		payment.PaymentDate = *patch.PaymentDate
	}
	if patch.Notes != nil {
		payment.Notes = *patch.Notes
	}
	payment.UpdatedAt = nowFunc()

	updated, err := s.paymentRepo.Update(ctx, payment)
	if err != nil {
		return nil, internalError(s.logger, "update payment", err, zap.String("payment_id", id.String()))
	}
	if !updated {
		return nil, notFound("payment")
	}

	s.logger.Info("Payment updated",
		zap.String("payment_id", id.String()),
		zap.String("status", string(payment.Status)),
	)

	return payment, nil
}

// DeletePayment удаляет платёж
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.paymentRepo.Delete(ctx, id)
	if err != nil {
		return internalError(s.logger, "delete payment", err, zap.String("payment_id", id.String()))
	}
	if !deleted {
		return notFound("payment")
	}

	s.logger.Info("Payment deleted", zap.String("payment_id", id.String()))
	return nil
}

func (s *PaymentService) list(ctx context.Context, filter model.PaymentFilter) ([]*model.Payment, error) {
	payments, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, "list payments", err)
	}
	return payments, nil
}

func (s *PaymentService) requireUser(ctx context.Context, userID *uuid.UUID) error {
	if userID == nil {
		return nil
	}
	user, err := s.users.GetByID(ctx, *userID)
	if err != nil {
		return internalError(s.logger, "resolve user", err, zap.String("user_id", userID.String()))
	}
	if user == nil {
		return notFound("user")
	}
	return nil
}

func (s *PaymentService) requireSession(ctx context.Context, sessionID *uuid.UUID) error {
	if sessionID == nil {
		return nil
	}
	session, err := s.sessionRepo.GetByID(ctx, *sessionID)
	if err != nil {
		return internalError(s.logger, "resolve class session", err, zap.String("session_id", sessionID.String()))
	}
	if session == nil {
		return notFound("class session")
	}
	return nil
}

func validatePatch(patch PaymentPatch) error {
	if patch.PaymentType != nil {
		if err := validate.Var(string(*patch.PaymentType), "required,oneof=monthly single teacher sponsor"); err != nil {
			return invalidInput("payment_type must be one of [monthly single teacher sponsor]")
		}
	}
	if patch.Method != nil {
		if err := validate.Var(string(*patch.Method), "required,oneof=cash transfer card other"); err != nil {
			return invalidInput("method must be one of [cash transfer card other]")
		}
	}
	if patch.Status != nil {
		if err := validate.Var(string(*patch.Status), "required,oneof=pending completed"); err != nil {
			return invalidInput("status must be one of [pending completed]")
		}
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return err
		}
	}
	if patch.MonthsPaid != nil {
		for _, period := range *patch.MonthsPaid {
			if err := validateInput(period); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseOptionalID пустая строка = ссылки нет
func parseOptionalID(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return nil, invalidInput("%s is not a valid identifier", field)
	}
	return &id, nil
}
