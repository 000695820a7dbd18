package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ClassGenerator генерирует недостающие занятия по всем шаблонам за месяц
type ClassGenerator interface {
	GenerateMissingForAll(ctx context.Context, month, year int) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	generator ClassGenerator
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	stopChan  chan struct{}
	done      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(generator ClassGenerator, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		generator: generator,
		interval:  24 * time.Hour,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runGenerationTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прогона
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runGenerationTask периодически догенерирует занятия на текущий и следующий месяц
func (s *Scheduler) runGenerationTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.generateClasses(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.generateClasses(ctx)
		case <-s.stopChan:
			s.logger.Info("Class generation task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Class generation task cancelled")
			return
		}
	}
}

func (s *Scheduler) generateClasses(ctx context.Context) {
	for _, target := range upcomingMonths(s.now()) {
		created, err := s.generator.GenerateMissingForAll(ctx, target.month, target.year)
		if err != nil {
			s.logger.Error("Failed to generate classes",
				zap.Int("month", target.month),
				zap.Int("year", target.year),
				zap.Error(err))
			continue
		}

		s.logger.Info("Automatic class generation completed",
			zap.Int("month", target.month),
			zap.Int("year", target.year),
			zap.Int("created", created))
	}
}

type monthRef struct {
	month int
	year  int
}

// upcomingMonths текущий и следующий месяц
func upcomingMonths(now time.Time) []monthRef {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	return []monthRef{
		{month: int(first.Month()), year: first.Year()},
		{month: int(next.Month()), year: next.Year()},
	}
}
