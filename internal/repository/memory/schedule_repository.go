package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

type ScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]*model.Schedule
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{
		schedules: make(map[uuid.UUID]*model.Schedule),
	}
}

func (r *ScheduleRepository) Create(_ context.Context, schedule *model.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	r.schedules[schedule.ID] = cloneSchedule(schedule)
	return nil
}

func (r *ScheduleRepository) GetByID(_ context.Context, id uuid.UUID) (*model.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.schedules[id]
	if !ok {
		return nil, nil
	}
	return cloneSchedule(schedule), nil
}

func (r *ScheduleRepository) List(_ context.Context) ([]*model.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedules := make([]*model.Schedule, 0, len(r.schedules))
	for _, schedule := range r.schedules {
		schedules = append(schedules, cloneSchedule(schedule))
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
	})
	return schedules, nil
}

func (r *ScheduleRepository) Update(_ context.Context, schedule *model.Schedule) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.schedules[schedule.ID]
	if !ok {
		return false, nil
	}

	schedule.CreatedAt = stored.CreatedAt
	schedule.UpdatedAt = time.Now()
	r.schedules[schedule.ID] = cloneSchedule(schedule)
	return true, nil
}

func (r *ScheduleRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[id]; !ok {
		return false, nil
	}
	delete(r.schedules, id)
	return true, nil
}

func cloneSchedule(s *model.Schedule) *model.Schedule {
	c := *s
	c.TimeSlots = append([]model.TimeSlot{}, s.TimeSlots...)
	return &c
}
