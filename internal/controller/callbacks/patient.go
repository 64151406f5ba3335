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

func (h *Handler) handlePatient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message) {
	data, err := callbackdata.ParsePatientData(callback.Data)
	if err != nil {
		h.logger.Error("Failed to parse patient callback", zap.String("data", callback.Data), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	switch data.Action {
	case callbackdata.ActionPatientSchedule:
		id := data.PatientID
		views := h.schedule.FindAppointments(model.AppointmentFilter{PatientID: &id})

		common.AnswerCallback(ctx, b, callback.ID, "")
		text, kb := screens.BuildAppointmentList(fmt.Sprintf("📋 Записи пациента %s", id), views)
		common.SendMessage(ctx, b, h.logger, msg.Chat.ID, text, kb)

	case callbackdata.ActionDeletePatient:
		patient, err := h.schedule.DeletePatient(data.PatientID)
		if err != nil {
			common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
			return
		}

		h.persist(ctx, b, msg.Chat.ID)
		common.AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("🗑 %s удалён вместе с записями", patient.Name))

		text, kb := screens.BuildPatientList(h.schedule.Patients())
		common.EditMessage(ctx, b, h.logger, msg, text, kb)

	case callbackdata.ActionEditPatientName:
		h.startPatientEdit(ctx, b, callback, msg, data.PatientID, state.StateEditPatientName,
			"✏️ Введите новое имя пациента\n\nДля отмены используйте /cancel")

	case callbackdata.ActionEditPatientDOB:
		h.startPatientEdit(ctx, b, callback, msg, data.PatientID, state.StateEditPatientBirth,
			"🎂 Введите новую дату рождения (ГГГГ-ММ-ДД или ДД.ММ.ГГГГ)\n\n"+
				"Она не может быть позже записей пациента.\n\n"+
				"Для отмены используйте /cancel")
	}
}

// startPatientEdit запоминает пациента и переводит чат в диалог
func (h *Handler) startPatientEdit(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	msg *models.Message,
	id model.PatientID,
	next state.UserState,
	prompt string,
) {
	patient, err := h.schedule.Patient(id)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(err))
		return
	}

	chatID := msg.Chat.ID
	h.stateManager.ClearState(chatID)
	h.stateManager.Advance(chatID, next, func(d *state.Draft) {
		d.PatientID = patient.ID
		d.Name = patient.Name
	})

	h.logger.Info("Started patient edit",
		zap.Int64("chat_id", chatID),
		zap.String("state", string(next)),
		zap.String("patient_id", patient.ID.String()))

	common.AnswerCallback(ctx, b, callback.ID, "")
	common.SendMessage(ctx, b, h.logger, chatID, formatting.FormatPatient(patient)+"\n\n"+prompt, nil)
}
