package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	"github.com/Freeeeeet/studio_bot/internal/model"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// access кто может вызывать команду
type access int

const (
	accessPublic access = iota // без регистрации
	accessUser                 // любой зарегистрированный
	accessStaff                // администратор или преподаватель
	accessAdmin
)

// request входные данные команды
type request struct {
	from *models.User
	user *model.User // nil для accessPublic
	args string
	now  time.Time
}

type commandFunc func(ctx context.Context, req *request) (string, error)

type command struct {
	name        string
	description string
	access      access
	run         commandFunc
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService     *service.UserService
	scheduleService *service.ScheduleService
	classService    *service.ClassService
	paymentService  *service.PaymentService
	reportService   *service.ReportService
	stateManager    *state.Manager
	currency        string
	now             func() time.Time
	logger          *zap.Logger

	commands map[string]command
	order    []command
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	userService *service.UserService,
	scheduleService *service.ScheduleService,
	classService *service.ClassService,
	paymentService *service.PaymentService,
	reportService *service.ReportService,
	stateManager *state.Manager,
	currency string,
	logger *zap.Logger,
) *Handlers {
	h := &Handlers{
		userService:     userService,
		scheduleService: scheduleService,
		classService:    classService,
		paymentService:  paymentService,
		reportService:   reportService,
		stateManager:    stateManager,
		currency:        currency,
		now:             time.Now,
		logger:          logger,
		commands:        make(map[string]command),
	}
	h.registerCommands()
	return h
}

func (h *Handlers) register(cmd command) {
	h.commands[cmd.name] = cmd
	h.order = append(h.order, cmd)
}

// MenuCommands список команд для меню бота
func (h *Handlers) MenuCommands() []models.BotCommand {
	menu := make([]models.BotCommand, 0, len(h.order))
	for _, cmd := range h.order {
		menu = append(menu, models.BotCommand{Command: cmd.name, Description: cmd.description})
	}
	return menu
}
