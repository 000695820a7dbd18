// Package calendar разворачивает недельный шаблон в конкретные даты месяца.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/model"
)

var (
	ErrInvalidMonth   = errors.New("month must be in range 1..12")
	ErrInvalidYear    = errors.New("year must be positive")
	ErrInvalidWeekday = errors.New("day of week must be in range 0..6")
)

// ValidatePeriod проверяет месяц (1..12) и год (> 0)
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	if year < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

// DaysIn возвращает количество дней в месяце с учётом високосных лет
func DaysIn(month, year int) int {
	// нулевой день следующего месяца = последний день текущего
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekdayOf возвращает день недели даты (0 = Sunday)
func WeekdayOf(day, month, year int) model.Weekday {
	return model.Weekday(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday())
}

// Expand разворачивает слоты шаблона на все дни месяца.
// Порядок: по дням, внутри дня в порядке объявления слотов (по startTime не сортируем).
func Expand(slots []model.TimeSlot, month, year int) ([]model.SlotRecord, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		if !slot.DayOfWeek.Valid() {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidWeekday, slot.DayOfWeek)
		}
	}

	records := make([]model.SlotRecord, 0)
	if len(slots) == 0 {
		return records, nil
	}

	days := DaysIn(month, year)
	for day := 1; day <= days; day++ {
		weekday := WeekdayOf(day, month, year)

		for _, slot := range slots {
			if slot.DayOfWeek != weekday {
				continue
			}
			records = append(records, model.SlotRecord{
				Day:       day,
				Month:     month,
				Year:      year,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			})
		}
	}

	return records, nil
}
