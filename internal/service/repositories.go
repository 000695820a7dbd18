package service

import (
	"context"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

// Репозитории возвращают (nil, nil), если запись не найдена,
// и false из Update/Delete, если строки нет.

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	List(ctx context.Context) ([]*model.Schedule, error)
	Update(ctx context.Context, schedule *model.Schedule) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type ClassSessionRepository interface {
	Create(ctx context.Context, session *model.ClassSession) error
	// CreateMany вставляет все занятия, каждое получает свой ID. Дубликаты не проверяются.
	CreateMany(ctx context.Context, sessions []*model.ClassSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClassSession, error)
	// List сортирует по (year, month, day, start_time)
	List(ctx context.Context, filter model.SessionFilter) ([]*model.ClassSession, error)
	// Update меняет поля занятия, но не отметки посещения
	Update(ctx context.Context, session *model.ClassSession) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// MergeAttendance атомарно применяет пачку отметок к одному занятию:
	// существующая отметка ученика перезаписывается, новая добавляется.
	MergeAttendance(ctx context.Context, id uuid.UUID, entries []model.Attendance) (*model.ClassSession, error)
	// ListByStudent занятия, где у ученика есть отметка
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.ClassSession, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	// List сортирует по created_at, новые первыми
	List(ctx context.Context, filter model.PaymentFilter) ([]*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserDirectory справочник пользователей, которым пользуются леджеры
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type UserRepository interface {
	UserDirectory
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, userType model.UserType) ([]*model.User, error)
}
