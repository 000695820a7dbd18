package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/controller/formatting"
)

// handleDebtors /debtors [ММ.ГГГГ]
func (h *Handlers) handleDebtors(ctx context.Context, req *request) (string, error) {
	period, err := parseOptionalPeriod(req.args)
	if err != nil {
		return "", err
	}

	payments, err := h.reportService.Debtors(ctx, period)
	if err != nil {
		return "", err
	}

	title := "⏳ Неоплаченные платежи"
	if period != nil {
		title += " за " + formatting.FormatPeriod(*period)
	}
	return h.formatPaymentList(ctx, title, payments), nil
}

// handleSummary /summary [ММ.ГГГГ]
func (h *Handlers) handleSummary(ctx context.Context, req *request) (string, error) {
	period, err := parseOptionalPeriod(req.args)
	if err != nil {
		return "", err
	}

	summary, err := h.reportService.PaymentsSummary(ctx, period)
	if err != nil {
		return "", err
	}

	title := "📊 Сводка по платежам"
	if period != nil {
		title += " за " + formatting.FormatPeriod(*period)
	}
	if len(summary) == 0 {
		return title + "\n\nПлатежей нет.", nil
	}

	var sb strings.Builder
	sb.WriteString(title + "\n")
	for _, group := range summary {
		display := formatting.GetPaymentStatusDisplay(group.Status)
		sb.WriteString(fmt.Sprintf("\n%s %s: %d %s\n   Начислено: %s\n   Получено: %s\n",
			display.Emoji,
			display.Text,
			group.Count,
			formatting.PluralizePayments(group.Count),
			formatting.FormatAmount(group.TheoreticalTotal, h.currency),
			formatting.FormatAmount(group.CollectedTotal, h.currency),
		))
	}
	return sb.String(), nil
}

// handleRange /range [с ДД.ММ.ГГГГ] [по ДД.ММ.ГГГГ]
func (h *Handlers) handleRange(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) > 2 {
		return "", argError("использование: /range [с ДД.ММ.ГГГГ] [по ДД.ММ.ГГГГ]")
	}

	var start, end *time.Time
	if len(fields) > 0 {
		from, err := parseDate(fields[0])
		if err != nil {
			return "", err
		}
		start = &from
	}
	if len(fields) > 1 {
		to, err := parseDate(fields[1])
		if err != nil {
			return "", err
		}
		to = endOfDay(to)
		end = &to
	}

	payments, err := h.reportService.PaymentsByDateRange(ctx, start, end)
	if err != nil {
		return "", err
	}

	title := "📆 Платежи"
	if start != nil {
		title += " с " + formatting.FormatDate(*start)
	}
	if end != nil {
		title += " по " + formatting.FormatDate(*end)
	}
	return h.formatPaymentList(ctx, title, payments), nil
}

// handleMyAttendance /myattendance [ММ.ГГГГ]
func (h *Handlers) handleMyAttendance(ctx context.Context, req *request) (string, error) {
	period, err := parsePeriod(req.args, req.now)
	if err != nil {
		return "", err
	}

	result, err := h.reportService.StudentAttendanceByMonth(ctx, req.user.ID, period.Month, period.Year)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("📊 %s: посещено %d %s",
		formatting.FormatPeriod(period),
		result.AttendedCount,
		formatting.PluralizeClasses(result.AttendedCount),
	), nil
}

// handleMyHistory /myhistory
func (h *Handlers) handleMyHistory(ctx context.Context, req *request) (string, error) {
	history, err := h.classService.StudentAttendanceHistory(ctx, req.user.ID)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "📜 Отметок о посещениях пока нет.", nil
	}

	var sb strings.Builder
	sb.WriteString("📜 История посещений:\n\n")
	for _, record := range history {
		display := formatting.GetAttendanceStatusDisplay(record.Status)
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			display.Emoji,
			formatting.FormatSessionDate(record.Date.Day(), int(record.Date.Month()), record.Date.Year()),
			formatting.FormatTimeRange(record.StartTime, record.EndTime),
		))
	}
	return sb.String(), nil
}
