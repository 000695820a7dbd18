package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid проверяет допустимость статуса посещения
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Attendance отметка ученика на занятии. На одно занятие не больше одной
// записи на ученика.
type Attendance struct {
	StudentID uuid.UUID        `json:"student_id"`
	Status    AttendanceStatus `json:"status"`
}

// SlotRecord конкретная дата занятия, полученная из шаблона
type SlotRecord struct {
	Day       int    `json:"day"`
	Month     int    `json:"month"` // 1 = January
	Year      int    `json:"year"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SameSlot сравнивает дату и время занятия
func (r SlotRecord) SameSlot(other SlotRecord) bool {
	return r.Day == other.Day &&
		r.Month == other.Month &&
		r.Year == other.Year &&
		r.StartTime == other.StartTime &&
		r.EndTime == other.EndTime
}

// ClassSession одно конкретное занятие в календаре.
// Ссылки на Schedule нет: правки шаблона не меняют созданные занятия.
type ClassSession struct {
	ID          uuid.UUID    `json:"id"`
	Day         int          `json:"day"`
	Month       int          `json:"month"` // 1 = January
	Year        int          `json:"year"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Teachers    []uuid.UUID  `json:"teachers"`
	Attendances []Attendance `json:"attendances"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Date возвращает дату занятия (UTC, без времени)
func (s *ClassSession) Date() time.Time {
	return time.Date(s.Year, time.Month(s.Month), s.Day, 0, 0, 0, 0, time.UTC)
}

// Slot возвращает дату и время занятия
func (s *ClassSession) Slot() SlotRecord {
	return SlotRecord{
		Day:       s.Day,
		Month:     s.Month,
		Year:      s.Year,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

// AttendanceOf ищет отметку ученика
func (s *ClassSession) AttendanceOf(studentID uuid.UUID) (Attendance, bool) {
	for _, a := range s.Attendances {
		if a.StudentID == studentID {
			return a, true
		}
	}
	return Attendance{}, false
}

// CountPresent считает отметки "present"
func (s *ClassSession) CountPresent() int {
	count := 0
	for _, a := range s.Attendances {
		if a.Status == AttendancePresent {
			count++
		}
	}
	return count
}

// AttendanceRecord строка истории посещений ученика
type AttendanceRecord struct {
	SessionID uuid.UUID        `json:"session_id"`
	Date      time.Time        `json:"date"`
	StartTime string           `json:"start_time"`
	EndTime   string           `json:"end_time"`
	Status    AttendanceStatus `json:"status"`
}
