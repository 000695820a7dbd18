package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/studio_bot/internal/app"
	"github.com/Freeeeeet/studio_bot/internal/config"
	"github.com/Freeeeeet/studio_bot/internal/controller"
	"github.com/Freeeeeet/studio_bot/internal/repository"
	"github.com/Freeeeeet/studio_bot/internal/repository/memory"
	"github.com/Freeeeeet/studio_bot/internal/service"
	"github.com/Freeeeeet/studio_bot/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// repositories набор хранилищ выбранного бэкенда
type repositories struct {
	users     service.UserRepository
	schedules service.ScheduleRepository
	sessions  service.ClassSessionRepository
	payments  service.PaymentRepository
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting studio bot",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.Bool("auto_generate", cfg.AutoGenerate),
		zap.Int("admins", len(cfg.AdminTelegramIDs)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer cleanup()

	// Сервисы
	userService := service.NewUserService(repos.users, cfg.AdminTelegramIDs, logger)
	scheduleService := service.NewScheduleService(repos.schedules, repos.sessions, logger)
	classService := service.NewClassService(repos.sessions, logger)
	paymentService := service.NewPaymentService(repos.payments, repos.sessions, repos.users, logger)
	reportService := service.NewReportService(repos.payments, repos.sessions, logger)

	botInstance, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(controller.DefaultHandler(logger)))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		botInstance,
		userService,
		scheduleService,
		classService,
		paymentService,
		reportService,
		cfg.Currency,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	if cfg.AutoGenerate {
		scheduler := app.NewScheduler(scheduleService, logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Studio bot stopped")
}

// openRepositories подключает PostgreSQL (с миграциями) или in-memory хранилище
func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data will be lost on restart")
		return &repositories{
			users:     memory.NewUserRepository(),
			schedules: memory.NewScheduleRepository(),
			sessions:  memory.NewClassSessionRepository(),
			payments:  memory.NewPaymentRepository(),
		}, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return &repositories{
		users:     repository.NewUserRepository(pool),
		schedules: repository.NewScheduleRepository(pool, logger),
		sessions:  repository.NewClassSessionRepository(pool),
		payments:  repository.NewPaymentRepository(pool),
	}, pool.Close, nil
}
