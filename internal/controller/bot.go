package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/studio_bot/internal/controller/handlers"
	"github.com/Freeeeeet/studio_bot/internal/controller/state"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot          *bot.Bot
	handlers     *handlers.Handlers
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	scheduleService *service.ScheduleService,
	classService *service.ClassService,
	paymentService *service.PaymentService,
	reportService *service.ReportService,
	currency string,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний диалогов
	stateManager := state.NewManager(state.DefaultTTL)

	cmdHandlers := handlers.NewHandlers(
		userService,
		scheduleService,
		classService,
		paymentService,
		reportService,
		stateManager,
		currency,
		logger,
	)

	return &BotController{
		bot:          botInstance,
		handlers:     cmdHandlers,
		stateManager: stateManager,
		logger:       logger,
	}
}

// RegisterHandlers регистрирует обработчик сообщений и меню команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Команды и шаги диалогов разбираются в одном месте
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleMessage)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: c.handlers.MenuCommands(),
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота; блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	go c.cleanupDialogs(ctx)
	c.bot.Start(ctx)
	return nil
}

// cleanupDialogs периодически удаляет брошенные диалоги
func (c *BotController) cleanupDialogs(ctx context.Context) {
	ticker := time.NewTicker(state.DefaultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := c.stateManager.Cleanup(); removed > 0 {
				c.logger.Debug("Expired dialogs removed", zap.Int("count", removed))
			}
		case <-ctx.Done():
			return
		}
	}
}

// DefaultHandler логирует апдейты, которые не попали ни в один обработчик
func DefaultHandler(logger *zap.Logger) bot.HandlerFunc {
	return func(_ context.Context, _ *bot.Bot, update *models.Update) {
		logger.Debug("Unhandled update", zap.Int64("update_id", update.ID))
	}
}
