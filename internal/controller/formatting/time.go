package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

var weekdayNames = []string{
	"Воскресенье",
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
}

var weekdayShortNames = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

var monthNames = []string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatTimeRange форматирует диапазон времени "HH:MM-HH:MM"
func FormatTimeRange(start, end string) string {
	return fmt.Sprintf("%s-%s", start, end)
}

// FormatSessionDate дата занятия с коротким днём недели: "06.01.2025 (Пн)"
func FormatSessionDate(day, month, year int) string {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%s (%s)", FormatDate(date), GetWeekdayShortName(model.Weekday(date.Weekday())))
}

// FormatSession дата и время занятия одной строкой
func FormatSession(session *model.ClassSession) string {
	return fmt.Sprintf("%s %s",
		FormatSessionDate(session.Day, session.Month, session.Year),
		FormatTimeRange(session.StartTime, session.EndTime),
	)
}

// FormatTimeSlot слот шаблона: "Пн 18:00-19:30"
func FormatTimeSlot(slot model.TimeSlot) string {
	return fmt.Sprintf("%s %s", GetWeekdayShortName(slot.DayOfWeek), FormatTimeRange(slot.StartTime, slot.EndTime))
}

// FormatPeriod период оплаты: "Январь 2025"
func FormatPeriod(period model.Period) string {
	return fmt.Sprintf("%s %d", GetMonthName(period.Month), period.Year)
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(day model.Weekday) string {
	if day.Valid() {
		return weekdayNames[day]
	}
	return "Неизвестно"
}

// GetWeekdayShortName возвращает краткое название дня недели на русском
func GetWeekdayShortName(day model.Weekday) string {
	if day.Valid() {
		return weekdayShortNames[day]
	}
	return "?"
}

// GetMonthName возвращает название месяца (1-12) на русском
func GetMonthName(month int) string {
	if month >= 1 && month <= 12 {
		return monthNames[month-1]
	}
	return "Неизвестно"
}
