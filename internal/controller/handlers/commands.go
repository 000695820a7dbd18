package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_bot/internal/controller/formatting"
	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (h *Handlers) registerCommands() {
	h.register(command{"start", "🚀 Начать работу с ботом", accessPublic, h.handleStart})
	h.register(command{"help", "❓ Справка по командам", accessPublic, h.handleHelp})
	h.register(command{"cancel", "✖️ Отменить текущий диалог", accessPublic, h.handleCancel})
	h.register(command{"me", "👤 Мой профиль", accessUser, h.handleMe})

	// Ученики
	h.register(command{"myattendance", "📊 Мои посещения за месяц", accessUser, h.handleMyAttendance})
	h.register(command{"myhistory", "📜 История посещений", accessUser, h.handleMyHistory})
	h.register(command{"mypayments", "💳 Мои платежи", accessUser, h.handleMyPayments})

	// Расписание
	h.register(command{"schedules", "🗓 Шаблоны расписания", accessStaff, h.handleSchedules})
	h.register(command{"newschedule", "➕ Новый шаблон расписания", accessAdmin, h.handleNewSchedule})
	h.register(command{"renameschedule", "✏️ Переименовать шаблон", accessAdmin, h.handleRenameSchedule})
	h.register(command{"delschedule", "🗑 Удалить шаблон", accessAdmin, h.handleDeleteSchedule})
	h.register(command{"expand", "🔎 Даты занятий шаблона за месяц", accessStaff, h.handleExpand})
	h.register(command{"generate", "⚙️ Создать занятия по шаблону", accessAdmin, h.handleGenerate})

	// Занятия и посещения
	h.register(command{"classes", "📅 Занятия за месяц", accessStaff, h.handleClasses})
	h.register(command{"class", "📋 Занятие и отметки", accessStaff, h.handleClass})
	h.register(command{"newclass", "➕ Добавить занятие вручную", accessAdmin, h.handleNewClass})
	h.register(command{"moveclass", "↪️ Перенести занятие", accessAdmin, h.handleMoveClass})
	h.register(command{"classteachers", "👩‍🏫 Преподаватели занятия", accessAdmin, h.handleClassTeachers})
	h.register(command{"delclass", "🗑 Удалить занятие", accessAdmin, h.handleDeleteClass})
	h.register(command{"attendance", "✅ Отметить посещение", accessStaff, h.handleAttendance})
	h.register(command{"monthattendance", "📈 Посещаемость за месяц", accessStaff, h.handleMonthAttendance})

	// Платежи и отчёты
	h.register(command{"pay", "💰 Записать платёж", accessAdmin, h.handlePay})
	h.register(command{"payments", "🧾 Платежи", accessAdmin, h.handlePayments})
	h.register(command{"paystatus", "🔁 Сменить статус платежа", accessAdmin, h.handlePayStatus})
	h.register(command{"delpayment", "🗑 Удалить платёж", accessAdmin, h.handleDeletePayment})
	h.register(command{"debtors", "⏳ Неоплаченные платежи", accessAdmin, h.handleDebtors})
	h.register(command{"summary", "📊 Сводка по платежам", accessAdmin, h.handleSummary})
	h.register(command{"range", "📆 Платежи за период дат", accessAdmin, h.handleRange})

	// Пользователи
	h.register(command{"users", "👥 Пользователи", accessStaff, h.handleUsers})
	h.register(command{"setrole", "🎭 Назначить роль", accessAdmin, h.handleSetRole})
}

// HandleMessage обрабатывает все текстовые сообщения: команды и шаги диалогов
func (h *Handlers) HandleMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	reply, err := h.process(ctx, update.Message.From, update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, h.userMessage(err))
		return
	}
	if reply != "" {
		h.sendMessage(ctx, b, chatID, reply)
	}
}

// process возвращает ответ на сообщение; пустой ответ = ничего не отправлять
func (h *Handlers) process(ctx context.Context, from *models.User, text string) (string, error) {
	name, args := splitCommand(text)
	if name == "" {
		return h.handleDialog(ctx, from, text)
	}

	cmd, ok := h.commands[name]
	if !ok {
		return "🤷 Неизвестная команда. Список команд: /help", nil
	}

	req := &request{from: from, args: args, now: h.now()}
	if err := h.authorize(ctx, req, cmd.access); err != nil {
		return "", err
	}

	h.logger.Info("Command received",
		zap.Int64("telegram_id", from.ID),
		zap.String("command", name),
	)

	return cmd.run(ctx, req)
}

// handleStart обрабатывает команду /start
func (h *Handlers) handleStart(ctx context.Context, req *request) (string, error) {
	user, err := h.userService.RegisterUser(
		ctx,
		req.from.ID,
		req.from.Username,
		req.from.FirstName,
		req.from.LastName,
		req.from.LanguageCode,
	)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот студии: расписание занятий, посещения и оплата.\n"+
			"Ваша роль: %s\n\n"+
			"/myattendance - Мои посещения за месяц\n"+
			"/myhistory - История посещений\n"+
			"/mypayments - Мои платежи\n"+
			"/help - Все команды",
		user.FirstName,
		formatting.GetUserTypeText(user.UserType),
	), nil
}

// handleHelp обрабатывает команду /help
func (h *Handlers) handleHelp(_ context.Context, _ *request) (string, error) {
	return "📚 Справка по командам:\n\n" +
		"Для учеников:\n" +
		"/myattendance [ММ.ГГГГ] - Мои посещения за месяц\n" +
		"/myhistory - История посещений\n" +
		"/mypayments - Мои платежи\n" +
		"/me - Мой профиль и ID\n\n" +
		"Расписание:\n" +
		"/schedules - Шаблоны расписания\n" +
		"/newschedule [название] - Новый шаблон (диалог)\n" +
		"/expand <id шаблона> [ММ.ГГГГ] - Даты занятий без создания\n" +
		"/generate <id шаблона> [ММ.ГГГГ] [missing] - Создать занятия\n" +
		"/renameschedule <id> <название> - Переименовать шаблон\n" +
		"/delschedule <id> - Удалить шаблон\n\n" +
		"Занятия:\n" +
		"/classes [ММ.ГГГГ] - Занятия за месяц\n" +
		"/class <id> - Занятие и отметки\n" +
		"/newclass <ДД.ММ.ГГГГ> <ЧЧ:ММ-ЧЧ:ММ> - Добавить занятие\n" +
		"/moveclass <id> <ДД.ММ.ГГГГ> [ЧЧ:ММ-ЧЧ:ММ] - Перенести занятие\n" +
		"/classteachers <id> [id преподавателя ...] - Назначить или снять преподавателей\n" +
		"/delclass <id> - Удалить занятие\n" +
		"/attendance <id занятия> <id ученика>[:absent] ... - Отметить посещение\n" +
		"/monthattendance [ММ.ГГГГ] - Посещаемость за месяц\n\n" +
		"Платежи:\n" +
		"/pay <monthly|single|teacher|sponsor> <сумма> [user=<id>] [class=<id>] [months=ММ.ГГГГ,...] [method=cash|transfer|card|other] [date=ДД.ММ.ГГГГ] [note=текст]\n" +
		"/payments [id пользователя | ММ.ГГГГ | ДД.ММ.ГГГГ ДД.ММ.ГГГГ] - Платежи\n" +
		"/paystatus <id> <pending|completed> - Сменить статус\n" +
		"/delpayment <id> - Удалить платёж\n" +
		"/debtors [ММ.ГГГГ] - Неоплаченные платежи\n" +
		"/summary [ММ.ГГГГ] - Сводка по статусам\n" +
		"/range [с ДД.ММ.ГГГГ] [по ДД.ММ.ГГГГ] - Платежи по дате создания\n\n" +
		"Пользователи:\n" +
		"/users [student|teacher|sponsor|admin] - Список\n" +
		"/setrole <id> <роль> - Назначить роль\n\n" +
		"/cancel - Отменить текущий диалог", nil
}

// handleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) handleCancel(_ context.Context, req *request) (string, error) {
	if h.stateManager.GetState(req.from.ID) == state.StateNone {
		return "❌ Нет активных операций для отмены.", nil
	}

	h.stateManager.ClearState(req.from.ID)
	return "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil
}

// dialogAccess уровень доступа шагов диалога, как у команды, которая его начала
var dialogAccess = map[state.UserState]access{
	state.StateNewScheduleName:  accessAdmin,
	state.StateNewScheduleSlots: accessAdmin,
}

// handleDialog обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) handleDialog(ctx context.Context, from *models.User, text string) (string, error) {
	currentState := h.stateManager.GetState(from.ID)
	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message", zap.Int64("telegram_id", from.ID))
		return "", nil
	}

	// Роль могла измениться после начала диалога
	req := &request{from: from, args: text, now: h.now()}
	if err := h.authorize(ctx, req, dialogAccess[currentState]); err != nil {
		h.stateManager.ClearState(from.ID)
		return "", err
	}

	text = strings.TrimSpace(text)
	switch currentState {
	case state.StateNewScheduleName:
		return h.newScheduleNameStep(from.ID, text)
	case state.StateNewScheduleSlots:
		return h.newScheduleSlotsStep(ctx, from.ID, text)
	}

	h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	h.stateManager.ClearState(from.ID)
	return "", nil
}
