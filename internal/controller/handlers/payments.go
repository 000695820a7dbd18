package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/controller/formatting"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/google/uuid"
)

// handlePay /pay <тип> <сумма> [user=] [class=] [months=] [method=] [date=] [note=]
func (h *Handlers) handlePay(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) < 2 {
		return "", argError("использование: /pay <monthly|single|teacher|sponsor> <сумма> [user=<id>] [class=<id>] [months=ММ.ГГГГ,...] [method=...] [date=ДД.ММ.ГГГГ] [note=текст]")
	}

	amount, err := parseAmount(fields[1])
	if err != nil {
		return "", err
	}
	options, err := parseOptions(fields[2:])
	if err != nil {
		return "", err
	}

	input := service.PaymentInput{
		PaymentType: model.PaymentType(strings.ToLower(fields[0])),
		Amount:      amount,
	}
	for key, value := range options {
		switch key {
		case "user":
			input.UserID = value
		case "class":
			input.ClassSessionID = value
		case "months":
			if input.MonthsPaid, err = parsePeriods(value); err != nil {
				return "", err
			}
		case "method":
			input.Method = model.PaymentMethod(strings.ToLower(value))
		case "date":
			date, err := parseDate(value)
			if err != nil {
				return "", err
			}
			input.PaymentDate = &date
		case "note":
			input.Notes = value
		default:
			return "", argError("неизвестный параметр %q", key)
		}
	}

	payment, err := h.paymentService.CreatePayment(ctx, input)
	if err != nil {
		return "", err
	}
	return "✅ Платёж записан\n\n" + h.formatPayment(ctx, payment), nil
}

// handlePayments /payments [id пользователя | ММ.ГГГГ | ДД.ММ.ГГГГ ДД.ММ.ГГГГ]
func (h *Handlers) handlePayments(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)

	var (
		payments []*model.Payment
		title    string
		err      error
	)
	switch {
	case len(fields) == 0:
		title = "🧾 Все платежи"
		payments, err = h.paymentService.ListPayments(ctx, nil)
	case len(fields) == 1 && isUUID(fields[0]):
		userID := uuid.MustParse(fields[0])
		title = "🧾 Платежи пользователя"
		payments, err = h.paymentService.ListPayments(ctx, &userID)
	case len(fields) <= 2:
		// "3 2025" тоже месяц, поэтому период пробуем раньше диапазона дат
		period, periodErr := parsePeriod(strings.Join(fields, " "), req.now)
		if periodErr == nil {
			title = "🧾 Оплата за " + formatting.FormatPeriod(period)
			payments, err = h.paymentService.ListPaymentsByPeriod(ctx, period.Month, period.Year)
			break
		}
		if len(fields) == 1 {
			return "", periodErr
		}

		var from, to time.Time
		if from, to, err = parseDateRange(fields[0], fields[1]); err != nil {
			return "", err
		}
		title = fmt.Sprintf("🧾 Платежи с %s по %s", formatting.FormatDate(from), formatting.FormatDate(to))
		payments, err = h.paymentService.ListPaymentsByDateRange(ctx, from, endOfDay(to))
	default:
		return "", argError("использование: /payments [id пользователя | ММ.ГГГГ | ДД.ММ.ГГГГ ДД.ММ.ГГГГ]")
	}
	if err != nil {
		return "", err
	}

	return h.formatPaymentList(ctx, title, payments), nil
}

// handlePayStatus /paystatus <id> <pending|completed>
func (h *Handlers) handlePayStatus(ctx context.Context, req *request) (string, error) {
	fields := strings.Fields(req.args)
	if len(fields) != 2 {
		return "", argError("использование: /paystatus <id платежа> <pending|completed>")
	}

	id, err := parseID("payment_id", fields[0])
	if err != nil {
		return "", err
	}
	status := model.PaymentStatus(strings.ToLower(fields[1]))

	payment, err := h.paymentService.UpdatePayment(ctx, id, service.PaymentPatch{Status: &status})
	if err != nil {
		return "", err
	}
	return "✅ Статус изменён\n\n" + h.formatPayment(ctx, payment), nil
}

// handleDeletePayment /delpayment <id>
func (h *Handlers) handleDeletePayment(ctx context.Context, req *request) (string, error) {
	id, err := parseID("payment_id", req.args)
	if err != nil {
		return "", err
	}
	if err := h.paymentService.DeletePayment(ctx, id); err != nil {
		return "", err
	}
	return "🗑 Платёж удалён.", nil
}

func (h *Handlers) handleMyPayments(ctx context.Context, req *request) (string, error) {
	payments, err := h.paymentService.ListPayments(ctx, &req.user.ID)
	if err != nil {
		return "", err
	}
	return h.formatPaymentList(ctx, "💳 Мои платежи", payments), nil
}

func (h *Handlers) formatPaymentList(ctx context.Context, title string, payments []*model.Payment) string {
	if len(payments) == 0 {
		return title + "\n\nПлатежей нет."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d %s):\n", title, len(payments), formatting.PluralizePayments(len(payments))))
	for _, payment := range payments {
		sb.WriteString("\n")
		sb.WriteString(h.formatPayment(ctx, payment))
	}
	return sb.String()
}

func (h *Handlers) formatPayment(ctx context.Context, payment *model.Payment) string {
	display := formatting.GetPaymentStatusDisplay(payment.Status)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s · %s · %s\n",
		display.Emoji,
		formatting.GetPaymentTypeText(payment.PaymentType),
		formatting.FormatAmount(payment.Amount, h.currency),
		formatting.GetPaymentMethodText(payment.Method),
	))

	if payment.UserID != nil {
		name := payment.UserID.String()
		if user, err := h.userService.GetByID(ctx, *payment.UserID); err == nil {
			name = displayName(user)
		}
		sb.WriteString("   👤 " + name + "\n")
	}
	if len(payment.MonthsPaid) > 0 {
		months := make([]string, 0, len(payment.MonthsPaid))
		for _, period := range payment.MonthsPaid {
			months = append(months, formatting.FormatPeriod(period))
		}
		sb.WriteString("   🗓 " + strings.Join(months, ", ") + "\n")
	}
	if payment.ClassSessionID != nil {
		sb.WriteString("   📋 Занятие " + payment.ClassSessionID.String() + "\n")
	}
	sb.WriteString(fmt.Sprintf("   📅 %s, %s\n", formatting.FormatDate(payment.PaymentDate), display.Text))
	if payment.Notes != "" {
		sb.WriteString("   📝 " + payment.Notes + "\n")
	}
	sb.WriteString("   ID: " + payment.ID.String() + "\n")
	return sb.String()
}

func parseDateRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	from, err := parseDate(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// endOfDay последний момент дня, чтобы дата "по" включалась целиком
func endOfDay(date time.Time) time.Time {
	return date.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func isUUID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}
