package callbacks

import (
	"context"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/callbackdata"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/state"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	schedule     *service.ScheduleService
	persister    *common.Persister
	stateManager *state.Manager
	access       common.Access
	logger       *zap.Logger
}

// NewHandler создаёт обработчик нажатий на inline кнопки
func NewHandler(
	schedule *service.ScheduleService,
	persister *common.Persister,
	stateManager *state.Manager,
	access common.Access,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		schedule:     schedule,
		persister:    persister,
		stateManager: stateManager,
		access:       access,
		logger:       logger,
	}
}

// HandleCallbackQuery распределяет callback query по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrNoMessage))
		return
	}

	if !h.access.Allowed(msg.Chat.ID) {
		h.logger.Warn("Callback from foreign chat", zap.Int64("chat_id", msg.Chat.ID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.AccessDenied)
		return
	}

	h.logger.Info("Routing callback",
		zap.String("data", callback.Data),
		zap.Int64("chat_id", msg.Chat.ID))

	switch {
	case callbackdata.IsAppointmentData(callback.Data):
		h.handleAppointment(ctx, b, callback, msg)
	case callbackdata.IsPatientData(callback.Data):
		h.handlePatient(ctx, b, callback, msg)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrInvalidFormat))
	}
}

// persist сохраняет изменения и предупреждает чат, если база недоступна
func (h *Handler) persist(ctx context.Context, b *bot.Bot, chatID int64) {
	if err := h.persister.Persist(ctx); err != nil {
		common.SendMessage(ctx, b, h.logger, chatID, common.SaveWarning, nil)
	}
}
