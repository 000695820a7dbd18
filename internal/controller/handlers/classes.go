package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/controller/formatting"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/google/uuid"
)

// handleClasses /classes [ММ.ГГГГ]
func (h *Handlers) handleClasses(ctx context.Context, req *request) (string, error) {
	period, err := parsePeriod(req.args, req.now)
	if err != nil {
		return "", err
	}

	sessions, err := h.classService.ListSessions(ctx, model.SessionFilter{Month: &period.Month, Year: &period.Year})
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return fmt.Sprintf("📅 %s: занятий нет.", formatting.FormatPeriod(period)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 %s: %d %s\n",
		formatting.FormatPeriod(period), len(sessions), formatting.PluralizeClasses(len(sessions))))
	for _, session := range sessions {
		sb.WriteString(fmt.Sprintf("\n%s 👥 %d\n%s\n",
			formatting.FormatSession(session), session.CountPresent(), session.ID))
	}
	return sb.String(), nil
}

// handleClass /class <id>
func (h *Handlers) handleClass(ctx context.Context, req *request) (string, error) {
	id, err := parseID("session_id", req.args)
	if err != nil {
		return "", err
	}

	session, err := h.classService.GetSession(ctx, id)
	if err != nil {
		return "", err
	}
	return h.formatSessionDetails(ctx, session), nil
}

// handleNewClass /newclass <ДД.ММ.ГГГГ> <ЧЧ:ММ-ЧЧ:ММ>
func (h *Handlers) handleNewClass(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) != 2 {
		return "", argError("использование: /newclass <ДД.ММ.ГГГГ> <ЧЧ:ММ-ЧЧ:ММ>")
	}

	date, err := parseDate(fields[0])
	if err != nil {
		return "", err
	}
	start, end, err := parseTimeRange(fields[1])
	if err != nil {
		return "", err
	}

	session, err := h.classService.CreateSession(ctx, service.SessionInput{
		Day:       date.Day(),
		Month:     int(date.Month()),
		Year:      date.Year(),
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ Занятие добавлено\n\n%s\nID: %s", formatting.FormatSession(session), session.ID), nil
}

// handleDeleteClass /delclass <id>
func (h *Handlers) handleDeleteClass(ctx context.Context, req *request) (string, error) {
	id, err := parseID("session_id", req.args)
	if err != nil {
		return "", err
	}
	if err := h.classService.DeleteSession(ctx, id); err != nil {
		return "", err
	}
	return "🗑 Занятие удалено вместе с отметками.", nil
}

// handleAttendance /attendance <id занятия> <id ученика>[:absent] ...
func (h *Handlers) handleAttendance(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) < 2 {
		return "", argError("использование: /attendance <id занятия> <id ученика>[:present|:absent] ...")
	}

	sessionID, err := parseID("session_id", fields[0])
	if err != nil {
		return "", err
	}

	entries := parseAttendance(fields[1:])
	session, err := h.classService.MarkAttendance(ctx, sessionID, entries)
	if err != nil {
		return "", err
	}

	return "✅ Отметки сохранены\n\n" + h.formatSessionDetails(ctx, session), nil
}

// handleMonthAttendance /monthattendance [ММ.ГГГГ]
func (h *Handlers) handleMonthAttendance(ctx context.Context, req *request) (string, error) {
	period, err := parsePeriod(req.args, req.now)
	if err != nil {
		return "", err
	}

	summary, err := h.reportService.AttendanceSummary(ctx, period.Month, period.Year)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"📈 Посещаемость: %s\n\n"+
			"Занятий: %d\n"+
			"Посещений: %d\n"+
			"В среднем на занятии: %.1f",
		formatting.FormatPeriod(period),
		summary.TotalClasses,
		summary.TotalPresent,
		summary.AveragePerClass,
	), nil
}

// formatSessionDetails занятие со списком отметок; имена подставляются если ученик известен
func (h *Handlers) formatSessionDetails(ctx context.Context, session *model.ClassSession) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 %s, %s\nID: %s\nИзменено: %s\n",
		formatting.FormatSession(session),
		formatting.GetWeekdayName(model.Weekday(session.Date().Weekday())),
		session.ID,
		formatting.FormatDateTime(session.UpdatedAt),
	))

	if len(session.Teachers) > 0 {
		names := make([]string, 0, len(session.Teachers))
		for _, teacherID := range session.Teachers {
			name := teacherID.String()
			if user, err := h.userService.GetByID(ctx, teacherID); err == nil {
				name = displayName(user)
			}
			names = append(names, name)
		}
		sb.WriteString("👩‍🏫 " + strings.Join(names, ", ") + "\n")
	}

	if len(session.Attendances) == 0 {
		sb.WriteString("\nОтметок пока нет.")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\nПрисутствовали: %d из %d\n", session.CountPresent(), len(session.Attendances)))
	for _, attendance := range session.Attendances {
		display := formatting.GetAttendanceStatusDisplay(attendance.Status)
		name := attendance.StudentID.String()
		if user, err := h.userService.GetByID(ctx, attendance.StudentID); err == nil {
			name = displayName(user)
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", display.Emoji, name))
	}
	return sb.String()
}

// handleMoveClass /moveclass <id> <ДД.ММ.ГГГГ> [ЧЧ:ММ-ЧЧ:ММ]; отметки сохраняются
func (h *Handlers) handleMoveClass(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) < 2 || len(fields) > 3 {
		return "", argError("использование: /moveclass <id занятия> <ДД.ММ.ГГГГ> [ЧЧ:ММ-ЧЧ:ММ]")
	}

	id, err := parseID("session_id", fields[0])
	if err != nil {
		return "", err
	}
	date, err := parseDate(fields[1])
	if err != nil {
		return "", err
	}

	day, month, year := date.Day(), int(date.Month()), date.Year()
	patch := service.SessionPatch{Day: &day, Month: &month, Year: &year}
	if len(fields) == 3 {
		start, end, err := parseTimeRange(fields[2])
		if err != nil {
			return "", err
		}
		patch.StartTime = &start
		patch.EndTime = &end
	}

	session, err := h.classService.UpdateSession(ctx, id, patch)
	if err != nil {
		return "", err
	}
	return "✅ Занятие перенесено\n\n" + formatting.FormatSession(session), nil
}

// handleClassTeachers /classteachers <id занятия> [id преподавателя ...]; без списка преподаватели снимаются
func (h *Handlers) handleClassTeachers(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) < 1 {
		return "", argError("использование: /classteachers <id занятия> [id преподавателя ...]")
	}

	sessionID, err := parseID("session_id", fields[0])
	if err != nil {
		return "", err
	}

	teachers := make([]uuid.UUID, 0, len(fields)-1)
	for _, raw := range fields[1:] {
		teacherID, err := parseID("teacher_id", raw)
		if err != nil {
			return "", err
		}
		user, err := h.userService.GetByID(ctx, teacherID)
		if err != nil {
			return "", err
		}
		if !user.IsTeacher() && !user.IsAdmin() {
			return "", argError("%s не преподаватель", displayName(user))
		}
		teachers = append(teachers, teacherID)
	}

	session, err := h.classService.UpdateSession(ctx, sessionID, service.SessionPatch{Teachers: &teachers})
	if err != nil {
		return "", err
	}

	if len(teachers) == 0 {
		return "✅ Преподаватели сняты с занятия\n\n" + formatting.FormatSession(session), nil
	}
	return "✅ Преподаватели назначены\n\n" + h.formatSessionDetails(ctx, session), nil
}
