package callbacks

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/callbackdata"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/screens"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/state"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func (h *Handler) handleAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message) {
	data, err := callbackdata.ParseAppointmentData(callback.Data)
	if err != nil {
		h.logger.Error("Failed to parse appointment callback", zap.String("data", callback.Data), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	switch data.Action {
	case callbackdata.ActionOpen:
		h.openAppointment(ctx, b, callback, msg, data)
	case callbackdata.ActionMark, callbackdata.ActionUnmark:
		h.toggleAppointment(ctx, b, callback, msg, data)
	case callbackdata.ActionDelete:
		h.deleteAppointment(ctx, b, callback, msg, data)
	case callbackdata.ActionEditNote:
		h.startEdit(ctx, b, callback, msg, data, state.StateEditAppointmentNote,
			fmt.Sprintf("📝 Введите новую заметку (до %d символов).\n\n"+
				"Отправьте «-», чтобы очистить заметку.\n\n"+
				"Для отмены используйте /cancel", model.NoteCharacterLimit-1))
	case callbackdata.ActionEditTime:
		h.startEdit(ctx, b, callback, msg, data, state.StateEditAppointmentPeriod,
			"🕒 Введите новое время в формате ЧЧ:ММ-ЧЧ:ММ\n\n"+
				"Например: 14:00-14:30\n\n"+
				"Для отмены используйте /cancel")
	}
}

func (h *Handler) openAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, data callbackdata.AppointmentCallback) {
	view, err := h.schedule.Appointment(data.PatientID, data.Date, data.Start)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	text, kb := screens.BuildAppointmentCard(view)
	common.SendMessage(ctx, b, h.logger, msg.Chat.ID, text, kb)
}

func (h *Handler) toggleAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, data callbackdata.AppointmentCallback) {
	var (
		appt   model.Appointment
		err    error
		answer string
	)
	if data.Action == callbackdata.ActionMark {
		appt, err = h.schedule.MarkAppointment(data.PatientID, data.Date, data.Start)
		answer = "✅ Отмечено как выполненное"
	} else {
		appt, err = h.schedule.UnmarkAppointment(data.PatientID, data.Date, data.Start)
		answer = "↩️ Отметка снята"
	}
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	h.persist(ctx, b, msg.Chat.ID)
	common.AnswerCallback(ctx, b, callback.ID, answer)

	text, kb := screens.BuildAppointmentCard(h.schedule.ViewOf(appt))
	common.EditMessage(ctx, b, h.logger, msg, text, kb)
}

func (h *Handler) deleteAppointment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, data callbackdata.AppointmentCallback) {
	appt, err := h.schedule.DeleteAppointment(data.PatientID, data.Date, data.Start)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	h.persist(ctx, b, msg.Chat.ID)
	common.AnswerCallback(ctx, b, callback.ID, "🗑 Запись удалена")
	common.EditMessage(ctx, b, h.logger, msg,
		"🗑 Запись удалена\n\n"+formatting.FormatAppointment(h.schedule.ViewOf(appt)), nil)
}

// startEdit запоминает редактируемую запись и переводит чат в диалог
func (h *Handler) startEdit(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	msg *models.Message,
	data callbackdata.AppointmentCallback,
	next state.UserState,
	prompt string,
) {
	view, err := h.schedule.Appointment(data.PatientID, data.Date, data.Start)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	chatID := msg.Chat.ID
	h.stateManager.ClearState(chatID)
	h.stateManager.Advance(chatID, next, func(d *state.Draft) {
		d.Target = view.Appointment.Key()
	})

	h.logger.Info("Started appointment edit",
		zap.Int64("chat_id", chatID),
		zap.String("state", string(next)),
		zap.Stringer("target", view.Appointment.Key()))

	common.AnswerCallback(ctx, b, callback.ID, "")
	common.SendMessage(ctx, b, h.logger, chatID, prompt, nil)
}
