package state

import "time"

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Создание шаблона расписания
	StateNewScheduleName  UserState = "new_schedule_name"
	StateNewScheduleSlots UserState = "new_schedule_slots"
)

// Ключи временных данных диалога
const (
	KeyScheduleName = "schedule_name"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State     UserState
	Data      map[string]interface{} // Временные данные для текущего диалога
	UpdatedAt time.Time
}
