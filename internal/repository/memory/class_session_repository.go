// Package memory хранит данные в памяти процесса. Используется при STORAGE=memory
// и в тестах сервисов; семантика совпадает с PostgreSQL-репозиториями.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

type ClassSessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.ClassSession
}

func NewClassSessionRepository() *ClassSessionRepository {
	return &ClassSessionRepository{
		sessions: make(map[uuid.UUID]*model.ClassSession),
	}
}

// Create сохраняет одно занятие
func (r *ClassSessionRepository) Create(ctx context.Context, session *model.ClassSession) error {
	return r.CreateMany(ctx, []*model.ClassSession{session})
}

// CreateMany сохраняет занятия без проверки дубликатов
func (r *ClassSessionRepository) CreateMany(_ context.Context, sessions []*model.ClassSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, session := range sessions {
		if session.ID == uuid.Nil {
			session.ID = uuid.New()
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = now
		}
		session.UpdatedAt = session.CreatedAt
		r.sessions[session.ID] = cloneSession(session)
	}
	return nil
}

// GetByID получает занятие по ID
func (r *ClassSessionRepository) GetByID(_ context.Context, id uuid.UUID) (*model.ClassSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return cloneSession(session), nil
}

// List занятия по фильтру в календарном порядке
func (r *ClassSessionRepository) List(_ context.Context, filter model.SessionFilter) ([]*model.ClassSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*model.ClassSession, 0)
	for _, session := range r.sessions {
		if filter.Matches(session) {
			sessions = append(sessions, cloneSession(session))
		}
	}
	sortSessions(sessions)
	return sessions, nil
}

// Update меняет поля занятия, отметки не трогает
func (r *ClassSessionRepository) Update(_ context.Context, session *model.ClassSession) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok {
		return false, nil
	}

	stored.Day = session.Day
	stored.Month = session.Month
	stored.Year = session.Year
	stored.StartTime = session.StartTime
	stored.EndTime = session.EndTime
	stored.Teachers = append([]uuid.UUID{}, session.Teachers...)
	stored.UpdatedAt = time.Now()
	session.UpdatedAt = stored.UpdatedAt
	return true, nil
}

// Delete удаляет занятие
func (r *ClassSessionRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false, nil
	}
	delete(r.sessions, id)
	return true, nil
}

// MergeAttendance применяет всю пачку под одной блокировкой
func (r *ClassSessionRepository) MergeAttendance(_ context.Context, id uuid.UUID, entries []model.Attendance) (*model.ClassSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}

	for _, entry := range entries {
		updated := false
		for i := range session.Attendances {
			if session.Attendances[i].StudentID == entry.StudentID {
				session.Attendances[i].Status = entry.Status
				updated = true
				break
			}
		}
		if !updated {
			session.Attendances = append(session.Attendances, entry)
		}
	}
	session.UpdatedAt = time.Now()

	return cloneSession(session), nil
}

// ListByStudent занятия с отметкой ученика
func (r *ClassSessionRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*model.ClassSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*model.ClassSession, 0)
	for _, session := range r.sessions {
		if _, ok := session.AttendanceOf(studentID); ok {
			sessions = append(sessions, cloneSession(session))
		}
	}
	sortSessions(sessions)
	return sessions, nil
}

func sortSessions(sessions []*model.ClassSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func cloneSession(s *model.ClassSession) *model.ClassSession {
	c := *s
	c.Teachers = append([]uuid.UUID{}, s.Teachers...)
	c.Attendances = append([]model.Attendance{}, s.Attendances...)
	return &c
}
