package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[uuid.UUID]*model.Payment
	order    []uuid.UUID // порядок вставки, для стабильной сортировки
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[uuid.UUID]*model.Payment),
	}
}

// Create сохраняет платёж
func (r *PaymentRepository) Create(_ context.Context, payment *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	if payment.UpdatedAt.IsZero() {
		payment.UpdatedAt = payment.CreatedAt
	}

	r.payments[payment.ID] = clonePayment(payment)
	r.order = append(r.order, payment.ID)
	return nil
}

// GetByID получает платёж по ID
func (r *PaymentRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(payment), nil
}

// List платежи по фильтру, новые первыми
func (r *PaymentRepository) List(_ context.Context, filter model.PaymentFilter) ([]*model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payments := make([]*model.Payment, 0)
	// обратный порядок вставки: при равном created_at новее идут первыми
	for i := len(r.order) - 1; i >= 0; i-- {
		payment, ok := r.payments[r.order[i]]
		if !ok || !filter.Matches(payment) {
			continue
		}
		payments = append(payments, clonePayment(payment))
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

// Update перезаписывает платёж целиком
func (r *PaymentRepository) Update(_ context.Context, payment *model.Payment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.payments[payment.ID]
	if !ok {
		return false, nil
	}

	updated := clonePayment(payment)
	updated.CreatedAt = stored.CreatedAt
	r.payments[payment.ID] = updated
	return true, nil
}

// Delete удаляет платёж
func (r *PaymentRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[id]; !ok {
		return false, nil
	}
	delete(r.payments, id)

	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func clonePayment(p *model.Payment) *model.Payment {
	c := *p
	c.MonthsPaid = append([]model.Period{}, p.MonthsPaid...)
	if p.UserID != nil {
		id := *p.UserID
		c.UserID = &id
	}
	if p.ClassSessionID != nil {
		id := *p.ClassSessionID
		c.ClassSessionID = &id
	}
	return &c
}
