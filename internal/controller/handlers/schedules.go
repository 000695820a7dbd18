package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/controller/formatting"
	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"go.uber.org/zap"
)

const slotsPrompt = "Отправьте слоты, по строке на группу дней:\n\n" +
	"пн,ср 18:00-19:30\n" +
	"сб 10:00-11:30\n\n" +
	"Дни: пн вт ср чт пт сб вс (или 0-6, 0 = воскресенье).\n" +
	"/cancel - отменить"

func (h *Handlers) handleSchedules(ctx context.Context, _ *request) (string, error) {
	schedules, err := h.scheduleService.ListSchedules(ctx)
	if err != nil {
		return "", err
	}
	if len(schedules) == 0 {
		return "🗓 Шаблонов расписания пока нет.\n\nСоздать: /newschedule", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 %d %s:\n", len(schedules), formatting.PluralizeSchedules(len(schedules))))
	for _, schedule := range schedules {
		sb.WriteString("\n")
		sb.WriteString(formatSchedule(schedule))
	}
	return sb.String(), nil
}

// handleNewSchedule начинает диалог создания шаблона. Название можно передать сразу.
func (h *Handlers) handleNewSchedule(_ context.Context, req *request) (string, error) {
	telegramID := req.from.ID
	h.stateManager.ClearState(telegramID)

	if req.args != "" {
		h.stateManager.SetData(telegramID, state.KeyScheduleName, req.args)
		h.stateManager.SetState(telegramID, state.StateNewScheduleSlots)
		return fmt.Sprintf("🗓 Шаблон «%s»\n\n%s", req.args, slotsPrompt), nil
	}

	h.stateManager.SetState(telegramID, state.StateNewScheduleName)
	return "🗓 Новый шаблон расписания\n\nВведите название (например, «Вечерняя группа»):", nil
}

func (h *Handlers) newScheduleNameStep(telegramID int64, text string) (string, error) {
	if text == "" {
		return "❌ Название не может быть пустым. Введите название:", nil
	}

	h.stateManager.SetData(telegramID, state.KeyScheduleName, text)
	h.stateManager.SetState(telegramID, state.StateNewScheduleSlots)
	return slotsPrompt, nil
}

func (h *Handlers) newScheduleSlotsStep(ctx context.Context, telegramID int64, text string) (string, error) {
	name, ok := h.stateManager.GetString(telegramID, state.KeyScheduleName)
	if !ok {
		h.logger.Error("Missing schedule name in dialog", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		return "❌ Ошибка: данные не найдены. Начните заново через /newschedule", nil
	}

	slots, err := parseTimeSlots(text)
	if err != nil {
		// Остаёмся на том же шаге, чтобы можно было исправить ввод
		return "⚠️ " + errorDetail(err, service.ErrInvalidInput) + "\n\n" + slotsPrompt, nil
	}

	schedule, err := h.scheduleService.CreateSchedule(ctx, service.ScheduleInput{Name: name, TimeSlots: slots})
	if err != nil {
		return "", err
	}

	h.stateManager.ClearState(telegramID)
	return "✅ Шаблон создан\n\n" + formatSchedule(schedule) +
		fmt.Sprintf("\nСоздать занятия: /generate %s ММ.ГГГГ", schedule.ID), nil
}

// handleDeleteSchedule /delschedule <id>; созданные занятия остаются
func (h *Handlers) handleDeleteSchedule(ctx context.Context, req *request) (string, error) {
	id, err := parseID("schedule_id", req.args)
	if err != nil {
		return "", err
	}
	if err := h.scheduleService.DeleteSchedule(ctx, id); err != nil {
		return "", err
	}
	return "🗑 Шаблон удалён. Уже созданные занятия сохранены.", nil
}

// handleExpand /expand <id> [ММ.ГГГГ] показывает даты без записи в базу
func (h *Handlers) handleExpand(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) < 1 || len(fields) > 2 {
		return "", argError("использование: /expand <id шаблона> [ММ.ГГГГ]")
	}

	id, err := parseID("schedule_id", fields[0])
	if err != nil {
		return "", err
	}
	period, err := parsePeriod(strings.Join(fields[1:], " "), req.now)
	if err != nil {
		return "", err
	}

	records, err := h.scheduleService.ExpandSchedule(ctx, id, period.Month, period.Year)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔎 %s: %d %s\n\n",
		formatting.FormatPeriod(period), len(records), formatting.PluralizeClasses(len(records))))
	for _, record := range records {
		sb.WriteString(fmt.Sprintf("%s %s\n",
			formatting.FormatSessionDate(record.Day, record.Month, record.Year),
			formatting.FormatTimeRange(record.StartTime, record.EndTime)))
	}
	return sb.String(), nil
}

// handleGenerate /generate <id> [ММ.ГГГГ] [missing]
func (h *Handlers) handleGenerate(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	onlyMissing := false
	if n := len(fields); n > 0 && strings.EqualFold(fields[n-1], "missing") {
		onlyMissing = true
		fields = fields[:n-1]
	}
	if len(fields) < 1 || len(fields) > 2 {
		return "", argError("использование: /generate <id шаблона> [ММ.ГГГГ] [missing]")
	}

	id, err := parseID("schedule_id", fields[0])
	if err != nil {
		return "", err
	}
	period, err := parsePeriod(strings.Join(fields[1:], " "), req.now)
	if err != nil {
		return "", err
	}

	var result *service.GenerateResult
	if onlyMissing {
		result, err = h.scheduleService.GenerateMissingClasses(ctx, id, period.Month, period.Year)
	} else {
		result, err = h.scheduleService.GenerateClasses(ctx, id, period.Month, period.Year)
	}
	if err != nil {
		return "", err
	}

	created := len(result.Sessions)
	text := fmt.Sprintf("✅ %s: создано %d %s",
		formatting.FormatPeriod(period), created, formatting.PluralizeClasses(created))
	if result.Skipped > 0 {
		text += fmt.Sprintf("\n⏭ Уже были: %d", result.Skipped)
	}
	if result.Duplicates > 0 {
		text += fmt.Sprintf("\n⚠️ Дубликаты: %d (такие занятия уже существовали). "+
			"Для догенерации без дублей используйте флаг missing.", result.Duplicates)
	}
	return text, nil
}

func formatSchedule(schedule *model.Schedule) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📌 %s\n", schedule.Name))
	for _, slot := range schedule.TimeSlots {
		sb.WriteString("   " + formatting.FormatTimeSlot(slot) + "\n")
	}
	sb.WriteString(fmt.Sprintf("   ID: %s\n", schedule.ID))
	return sb.String()
}

// handleRenameSchedule /renameschedule <id> <новое название>
func (h *Handlers) handleRenameSchedule(ctx context.Context, req *request) (string, error) {
	rawID, name, _ := strings.Cut(req.args, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", argError("использование: /renameschedule <id шаблона> <название>")
	}

	id, err := parseID("schedule_id", rawID)
	if err != nil {
		return "", err
	}

	schedule, err := h.scheduleService.UpdateSchedule(ctx, id, service.SchedulePatch{Name: &name})
	if err != nil {
		return "", err
	}
	return "✅ Шаблон обновлён\n\n" + formatSchedule(schedule), nil
}
