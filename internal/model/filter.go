package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionFilter фильтр списка занятий; nil = без ограничения
type SessionFilter struct {
	Month *int
	Year  *int
}

func (f SessionFilter) Matches(s *ClassSession) bool {
	if f.Month != nil && s.Month != *f.Month {
		return false
	}
	if f.Year != nil && s.Year != *f.Year {
		return false
	}
	return true
}

// PaymentFilter фильтр списка платежей; пустые поля не ограничивают выборку.
// Period совпадает, если он есть среди MonthsPaid платежа.
type PaymentFilter struct {
	UserID      *uuid.UUID
	Period      *Period
	Statuses    []PaymentStatus
	CreatedFrom *time.Time // включительно
	CreatedTo   *time.Time // включительно
}

func (f PaymentFilter) Matches(p *Payment) bool {
	if f.UserID != nil && (p.UserID == nil || *p.UserID != *f.UserID) {
		return false
	}
	if f.Period != nil && !p.Covers(*f.Period) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if p.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CreatedFrom != nil && p.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && p.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}
