package state

import (
	"sync"
	"time"
)

// DefaultTTL время жизни брошенного диалога
const DefaultTTL = 30 * time.Minute

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	ttl    time.Duration
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		states: make(map[int64]*UserData),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetState получает текущее состояние пользователя, просроченный диалог = StateNone
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.active(telegramID); ok {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}

	userData, ok := sm.active(telegramID)
	if !ok {
		userData = &UserData{Data: make(map[string]interface{})}
		sm.states[telegramID] = userData
	}
	userData.State = state
	userData.UpdatedAt = sm.now()
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, ok := sm.active(telegramID); ok {
		value, exists := userData.Data[key]
		return value, exists
	}
	return nil, false
}

// GetString получает строковое значение из данных диалога
func (sm *Manager) GetString(telegramID int64, key string) (string, bool) {
	value, ok := sm.GetData(telegramID, key)
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, ok := sm.active(telegramID)
	if !ok {
		userData = &UserData{State: StateNone, Data: make(map[string]interface{})}
		sm.states[telegramID] = userData
	}
	userData.Data[key] = value
	userData.UpdatedAt = sm.now()
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// Cleanup удаляет просроченные диалоги, возвращает сколько удалено
func (sm *Manager) Cleanup() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for telegramID, userData := range sm.states {
		if sm.expired(userData) {
			delete(sm.states, telegramID)
			removed++
		}
	}
	return removed
}

// active вызывается под блокировкой
func (sm *Manager) active(telegramID int64) (*UserData, bool) {
	userData, exists := sm.states[telegramID]
	if !exists || sm.expired(userData) {
		return nil, false
	}
	return userData, true
}

func (sm *Manager) expired(userData *UserData) bool {
	return sm.now().Sub(userData.UpdatedAt) > sm.ttl
}
