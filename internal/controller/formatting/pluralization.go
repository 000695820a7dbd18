package formatting

// pluralize выбирает форму слова для числа: 1 занятие, 2 занятия, 5 занятий
func pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeClasses возвращает правильное склонение слова "занятие"
func PluralizeClasses(count int) string {
	return pluralize(count, "занятие", "занятия", "занятий")
}

// PluralizePayments возвращает правильное склонение слова "платёж"
func PluralizePayments(count int) string {
	return pluralize(count, "платёж", "платежа", "платежей")
}

// PluralizeSchedules возвращает правильное склонение слова "расписание"
func PluralizeSchedules(count int) string {
	return pluralize(count, "расписание", "расписания", "расписаний")
}
