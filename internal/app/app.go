package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/config"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	metricsNamespace = "clinic"
	saveTimeout      = 10 * time.Second
)

// Run поднимает все компоненты и блокируется до отмены контекста
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	metrics := NewMetrics(metricsNamespace)
	repo := repository.NewSnapshotRepository(pool)

	clock := func() time.Time { return time.Now().In(cfg.Location) }
	schedule := service.NewScheduleService(model.NewPatientBook(), metrics, clock, logger.Named("schedule"))

	snapshot, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	if err := schedule.Restore(snapshot); err != nil {
		return fmt.Errorf("restore schedule: %w", err)
	}

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	saver := NewMeteredSaver(repo, metrics, saveTimeout)
	botController := controller.NewBotController(botInstance, schedule, saver, cfg.AdminChatID, logger.Named("bot"))
	if err := botController.RegisterHandlers(ctx); err != nil {
		// меню команд не критично для работы
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	if cfg.AdminChatID != 0 {
		notifier := controller.NewDigestNotifier(botInstance, cfg.AdminChatID)
		scheduler := NewScheduler(schedule, notifier, cfg.Location, cfg.DigestHour, logger.Named("scheduler"))
		scheduler.Start(ctx)
		defer scheduler.Stop()
	} else {
		logger.Warn("ADMIN_CHAT_ID not set: bot is open to every chat and daily digest is disabled")
	}

	return botController.Start(ctx)
}
