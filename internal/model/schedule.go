package model

import (
	"time"

	"github.com/google/uuid"
)

// Weekday день недели шаблона: 0 = Sunday, 6 = Saturday.
// Не путать с месяцем ClassSession, который считается с 1.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Valid проверяет что день недели в диапазоне 0..6
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// TimeSlot одно регулярное еженедельное занятие
type TimeSlot struct {
	DayOfWeek Weekday `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string  `json:"start_time"` // "HH:MM", порядок start/end не проверяется
	EndTime   string  `json:"end_time"`
}

// Schedule представляет шаблон регулярного расписания студии
type Schedule struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	TimeSlots []TimeSlot `json:"time_slots"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SlotsForDays переводит старый плоский формат (дни недели + одно время)
// в канонический список слотов
func SlotsForDays(days []Weekday, startTime, endTime string) []TimeSlot {
	slots := make([]TimeSlot, 0, len(days))
	for _, day := range days {
		slots = append(slots, TimeSlot{
			DayOfWeek: day,
			StartTime: startTime,
			EndTime:   endTime,
		})
	}
	return slots
}
