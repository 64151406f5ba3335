package controller

import (
	"context"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/state"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	schedule *service.ScheduleService,
	saver common.SnapshotSaver,
	adminChatID int64,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний диалогов
	stateManager := state.NewManager()
	persister := common.NewPersister(schedule, saver, logger)
	access := common.NewAccess(adminChatID)

	cmdHandlers := handlers.NewHandlers(schedule, persister, stateManager, access, logger)
	callbackHandler := callbacks.NewHandler(schedule, persister, stateManager, access, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Просмотр расписания
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypeExact, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointments", bot.MatchTypeExact, c.handlers.HandleAppointments)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/find", bot.MatchTypePrefix, c.handlers.HandleFind)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/patients", bot.MatchTypePrefix, c.handlers.HandlePatients)

	// Диалоги добавления
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addpatient", bot.MatchTypeExact, c.handlers.HandleAddPatientStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addappointment", bot.MatchTypeExact, c.handlers.HandleAddAppointmentStart)

	// Обычный текст продолжает активный диалог
	c.bot.RegisterHandlerMatchFunc(handlers.IsDialogMessage, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📅 Записи на сегодня"},
		{Command: "appointments", Description: "📋 Все записи"},
		{Command: "find", Description: "🔎 Поиск записей"},
		{Command: "patients", Description: "👥 Пациенты"},
		{Command: "addpatient", Description: "👤 Добавить пациента"},
		{Command: "addappointment", Description: "➕ Добавить запись"},
		{Command: "cancel", Description: "✖️ Отменить операцию"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
