package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]*model.User),
	}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *UserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.TelegramID == telegramID {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) List(_ context.Context, userType model.UserType) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*model.User, 0)
	for _, user := range r.users {
		if userType != "" && user.UserType != userType {
			continue
		}
		found := *user
		users = append(users, &found)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
