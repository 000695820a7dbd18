package formatting

import "github.com/Freeeeeet/studio_bot/internal/model"

// StatusDisplay представляет отображение статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetAttendanceStatusDisplay возвращает emoji и текст для отметки посещения
func GetAttendanceStatusDisplay(status model.AttendanceStatus) StatusDisplay {
	displays := map[model.AttendanceStatus]StatusDisplay{
		model.AttendancePresent: {"✅", "Был"},
		model.AttendanceAbsent:  {"❌", "Не был"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetPaymentStatusDisplay возвращает emoji и текст для статуса платежа
func GetPaymentStatusDisplay(status model.PaymentStatus) StatusDisplay {
	displays := map[model.PaymentStatus]StatusDisplay{
		model.PaymentStatusPending:   {"⏳", "Ожидает оплаты"},
		model.PaymentStatusCompleted: {"✅", "Оплачен"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "Неизвестно"}
}

// GetPaymentTypeText название типа платежа
func GetPaymentTypeText(paymentType model.PaymentType) string {
	switch paymentType {
	case model.PaymentTypeMonthly:
		return "Абонемент"
	case model.PaymentTypeSingle:
		return "Разовое занятие"
	case model.PaymentTypeTeacher:
		return "Оплата преподавателю"
	case model.PaymentTypeSponsor:
		return "Спонсорский взнос"
	}
	return string(paymentType)
}

// GetPaymentMethodText название способа оплаты
func GetPaymentMethodText(method model.PaymentMethod) string {
	switch method {
	case model.PaymentMethodCash:
		return "наличные"
	case model.PaymentMethodTransfer:
		return "перевод"
	case model.PaymentMethodCard:
		return "карта"
	case model.PaymentMethodOther:
		return "другое"
	}
	return string(method)
}

// GetUserTypeText название роли пользователя
func GetUserTypeText(userType model.UserType) string {
	switch userType {
	case model.UserTypeStudent:
		return "ученик"
	case model.UserTypeTeacher:
		return "преподаватель"
	case model.UserTypeSponsor:
		return "спонсор"
	case model.UserTypeAdmin:
		return "администратор"
	}
	return string(userType)
}
