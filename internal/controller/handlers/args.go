package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/calendar"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var timeRangeRegexp = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)-([01]?\d|2[0-3]):([0-5]\d)$`)

var weekdayAliases = map[string]model.Weekday{
	"вс": model.Sunday, "воскресенье": model.Sunday, "sun": model.Sunday,
	"пн": model.Monday, "понедельник": model.Monday, "mon": model.Monday,
	"вт": model.Tuesday, "вторник": model.Tuesday, "tue": model.Tuesday,
	"ср": model.Wednesday, "среда": model.Wednesday, "wed": model.Wednesday,
	"чт": model.Thursday, "четверг": model.Thursday, "thu": model.Thursday,
	"пт": model.Friday, "пятница": model.Friday, "fri": model.Friday,
	"сб": model.Saturday, "суббота": model.Saturday, "sat": model.Saturday,
}

// argError ошибка разбора аргументов команды, для пользователя это InvalidInput
func argError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// splitCommand отделяет имя команды от аргументов: "/pay@studio_bot 100" -> "pay", "100"
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	name, args, _ := strings.Cut(text[1:], " ")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(args)
}

// parseID разбирает UUID сущности
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, argError("%s: некорректный идентификатор %q", field, raw)
	}
	return id, nil
}

// parsePeriod разбирает месяц: "03.2025", "3/2025", "2025-03", "3 2025".
// Пустая строка = месяц из now.
func parsePeriod(raw string, now time.Time) (model.Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Period{Month: int(now.Month()), Year: now.Year()}, nil
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '.' || r == '/' || r == '-' || r == ' '
	})
	if len(parts) != 2 {
		return model.Period{}, argError("месяц указывается как ММ.ГГГГ, получено %q", raw)
	}

	monthPart, yearPart := parts[0], parts[1]
	if len(monthPart) == 4 {
		monthPart, yearPart = yearPart, monthPart
	}

	month, errMonth := strconv.Atoi(monthPart)
	year, errYear := strconv.Atoi(yearPart)
	if errMonth != nil || errYear != nil {
		return model.Period{}, argError("месяц указывается как ММ.ГГГГ, получено %q", raw)
	}
	if err := calendar.ValidatePeriod(month, year); err != nil {
		return model.Period{}, argError("%v", err)
	}

	return model.Period{Month: month, Year: year}, nil
}

// parseOptionalPeriod как parsePeriod, но пустая строка = без фильтра
func parseOptionalPeriod(raw string) (*model.Period, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	period, err := parsePeriod(raw, time.Time{})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// parsePeriods список месяцев через запятую: "1.2025,2.2025"
func parsePeriods(raw string) ([]model.Period, error) {
	periods := make([]model.Period, 0)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		period, err := parsePeriod(part, time.Time{})
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// parseDate дата "ДД.ММ.ГГГГ" или "ГГГГ-ММ-ДД" в UTC
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"02.01.2006", "2.1.2006", "2006-01-02"} {
		if date, err := time.Parse(layout, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, argError("дата указывается как ДД.ММ.ГГГГ, получено %q", raw)
}

// parseTimeRange "18:00-19:30" -> "18:00", "19:30"
func parseTimeRange(raw string) (string, string, error) {
	match := timeRangeRegexp.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return "", "", argError("время указывается как ЧЧ:ММ-ЧЧ:ММ, получено %q", raw)
	}
	startHour, _ := strconv.Atoi(match[1])
	endHour, _ := strconv.Atoi(match[3])
	return fmt.Sprintf("%02d:%s", startHour, match[2]), fmt.Sprintf("%02d:%s", endHour, match[4]), nil
}

// parseWeekday день недели: "пн", "Понедельник", "mon" или число 0-6 (0 = воскресенье)
func parseWeekday(raw string) (model.Weekday, error) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if day, ok := weekdayAliases[token]; ok {
		return day, nil
	}
	if n, err := strconv.Atoi(token); err == nil && model.Weekday(n).Valid() {
		return model.Weekday(n), nil
	}
	return 0, argError("неизвестный день недели %q", raw)
}

// parseTimeSlots разбирает шаблон расписания, по строке на группу дней:
//
//	пн,ср 18:00-19:30
//	сб 10:00-11:00
//
// Строка с несколькими днями раскрывается в слоты в порядке перечисления.
func parseTimeSlots(text string) ([]model.TimeSlot, error) {
	slots := make([]model.TimeSlot, 0)

	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == ';' }) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, argError("строка %q: ожидается \"дни ЧЧ:ММ-ЧЧ:ММ\"", strings.TrimSpace(line))
		}

		days := make([]model.Weekday, 0)
		for _, token := range strings.Split(fields[0], ",") {
			if token == "" {
				continue
			}
			day, err := parseWeekday(token)
			if err != nil {
				return nil, err
			}
			days = append(days, day)
		}

		start, end, err := parseTimeRange(fields[1])
		if err != nil {
			return nil, err
		}

		slots = append(slots, model.SlotsForDays(days, start, end)...)
	}

	if len(slots) == 0 {
		return nil, argError("нужен хотя бы один слот")
	}
	return slots, nil
}

// parseAttendance отметки "<id>" или "<id>:absent". Статус передаётся как есть,
// некорректные ID отсеивает сервис.
func parseAttendance(tokens []string) []service.AttendanceEntry {
	entries := make([]service.AttendanceEntry, 0, len(tokens))
	for _, token := range tokens {
		studentID, status, _ := strings.Cut(token, ":")
		entries = append(entries, service.AttendanceEntry{
			StudentID: studentID,
			Status:    model.AttendanceStatus(strings.ToLower(status)),
		})
	}
	return entries
}

// parseAmount сумма, допускается запятая как десятичный разделитель
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero, argError("некорректная сумма %q", raw)
	}
	return amount, nil
}

// parseOptions разбирает "key=value" токены; значение note забирает остаток строки
func parseOptions(tokens []string) (map[string]string, error) {
	options := make(map[string]string, len(tokens))
	for i, token := range tokens {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return nil, argError("ожидается ключ=значение, получено %q", token)
		}
		key = strings.ToLower(key)
		if key == "note" {
			options[key] = strings.TrimSpace(strings.Join(append([]string{value}, tokens[i+1:]...), " "))
			break
		}
		options[key] = value
	}
	return options, nil
}
