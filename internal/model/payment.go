package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeMonthly PaymentType = "monthly" // ученик платит за месяц(ы)
	PaymentTypeSingle  PaymentType = "single"  // разовое занятие
	PaymentTypeTeacher PaymentType = "teacher" // выплата преподавателю
	PaymentTypeSponsor PaymentType = "sponsor" // оплата от спонсора
)

// LinksSession сообщает, относится ли тип платежа к одному занятию
func (t PaymentType) LinksSession() bool {
	return t == PaymentTypeSingle || t == PaymentTypeTeacher
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOther    PaymentMethod = "other"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// PaymentStatuses порядок статусов в отчётах
var PaymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusCompleted}

// Period месяц и год оплаты
type Period struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"min=1"`
}

// Payment одна атомарная денежная операция. Amount это общая сумма за все
// периоды из MonthsPaid, а не за каждый.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	PaymentType    PaymentType     `json:"payment_type"`
	UserID         *uuid.UUID      `json:"user_id"`          // может быть nil
	ClassSessionID *uuid.UUID      `json:"class_session_id"` // только для single/teacher
	MonthsPaid     []Period        `json:"months_paid"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	Status         PaymentStatus   `json:"status"`
	PaymentDate    time.Time       `json:"payment_date"`
	Notes          string          `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Covers проверяет, входит ли период в MonthsPaid
func (p *Payment) Covers(period Period) bool {
	for _, paid := range p.MonthsPaid {
		if paid == period {
			return true
		}
	}
	return false
}

// IsSettled платёж полностью оплачен
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentStatusCompleted
}
