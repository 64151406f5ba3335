package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/screens"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/state"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const cancelHint = "\n\nДля отмены используйте /cancel"

// HandleAddPatientStart начинает добавление пациента
func (h *Handlers) HandleAddPatientStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateAddPatientID)

	h.sendMessage(ctx, b, chatID,
		"👤 Новый пациент\n\n"+
			"Шаг 1 из 3: Введите идентификатор пациента\n\n"+
			"Например: S1234567A"+cancelHint, nil)
}

func (h *Handlers) handleAddPatientIDStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	id := model.NormalizePatientID(text)
	if id == "" {
		h.sendError(ctx, b, chatID, "❌ Идентификатор не может быть пустым.\n\nПопробуйте ещё раз:")
		return
	}

	if _, err := h.schedule.Patient(id); err == nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(model.ErrDuplicatePatient)+"\n\nВведите другой идентификатор:")
		return
	}

	h.stateManager.Advance(chatID, state.StateAddPatientName, func(d *state.Draft) { d.PatientID = id })
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ ID: %s\n\nШаг 2 из 3: Введите имя пациента%s", id, cancelHint), nil)
}

func (h *Handlers) handleAddPatientNameStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if text == "" {
		h.sendError(ctx, b, chatID, "❌ Имя не может быть пустым.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.Advance(chatID, state.StateAddPatientBirth, func(d *state.Draft) { d.Name = text })
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Имя: %s\n\nШаг 3 из 3: Введите дату рождения (ГГГГ-ММ-ДД или ДД.ММ.ГГГГ)%s", text, cancelHint), nil)
}

func (h *Handlers) handleAddPatientBirthStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	dateOfBirth, err := parseDate(text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверный формат даты.\n\nПример: 1990-05-01 или 01.05.1990")
		return
	}
	if dateOfBirth.After(h.schedule.Today()) {
		h.sendError(ctx, b, chatID, "❌ Дата рождения не может быть в будущем.\n\nПопробуйте ещё раз:")
		return
	}

	draft := h.stateManager.Draft(chatID)
	patient, err := model.NewPatient(draft.PatientID, draft.Name, dateOfBirth)
	if err == nil {
		err = h.schedule.AddPatient(patient)
	}
	if err != nil {
		h.logger.Warn("Failed to add patient", zap.Int64("chat_id", chatID), zap.Error(err))
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nНачните заново: /addpatient")
		return
	}

	h.stateManager.ClearState(chatID)
	h.persist(ctx, b, chatID)
	h.sendMessage(ctx, b, chatID,
		"✅ Пациент добавлен\n\n"+formatting.FormatPatient(patient)+"\n\nДобавить запись: /addappointment", nil)
}

// HandleAddAppointmentStart начинает добавление записи
func (h *Handlers) HandleAddAppointmentStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateAddAppointmentPatient)

	h.sendMessage(ctx, b, chatID,
		"📅 Новая запись\n\n"+
			"Шаг 1 из 5: Введите ID пациента\n\n"+
			"Список пациентов: /patients"+cancelHint, nil)
}

func (h *Handlers) handleAddAppointmentPatientStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	patient, err := h.schedule.Patient(model.NormalizePatientID(text))
	if err != nil {
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nВведите ID ещё раз:")
		return
	}

	h.stateManager.Advance(chatID, state.StateAddAppointmentDate, func(d *state.Draft) {
		d.PatientID = patient.ID
		d.Name = patient.Name
	})
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Пациент: %s [%s]\n\nШаг 2 из 5: Введите дату (ГГГГ-ММ-ДД или ДД.ММ.ГГГГ)%s",
			patient.Name, patient.ID, cancelHint), nil)
}

func (h *Handlers) handleAddAppointmentDateStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	date, err := parseDate(text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверный формат даты.\n\nПример: 2024-02-20 или 20.02.2024")
		return
	}

	h.stateManager.Advance(chatID, state.StateAddAppointmentPeriod, func(d *state.Draft) { d.Date = date })
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Дата: %s\n\nШаг 3 из 5: Введите время (ЧЧ:ММ-ЧЧ:ММ)\n\nНапример: 11:00-11:30%s",
			formatting.FormatDateWithWeekday(date), cancelHint), nil)
}

func (h *Handlers) handleAddAppointmentPeriodStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	period, err := parsePeriod(text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверное время. Начало должно быть раньше конца.\n\nНапример: 11:00-11:30")
		return
	}

	h.stateManager.Advance(chatID, state.StateAddAppointmentCategory, func(d *state.Draft) { d.Period = period })
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Время: %s\n\nШаг 4 из 5: Введите тип приёма\n\nНапример: Осмотр, Анализ крови%s",
			formatting.FormatTimeRange(period), cancelHint), nil)
}

func (h *Handlers) handleAddAppointmentCategoryStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if err := model.ValidateCategory(text); err != nil {
		h.sendError(ctx, b, chatID, "❌ Тип приёма не может быть пустым.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.Advance(chatID, state.StateAddAppointmentNote, func(d *state.Draft) { d.Category = text })
	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Тип: %s\n\nШаг 5 из 5: Введите заметку (до %d символов) или «-» без заметки%s",
			text, model.NoteCharacterLimit-1, cancelHint), nil)
}

func (h *Handlers) handleAddAppointmentNoteStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	note := parseNote(text)
	if err := model.ValidateNote(note); err != nil {
		h.sendError(ctx, b, chatID,
			fmt.Sprintf("❌ Заметка слишком длинная. Максимум %d символов.\n\nПопробуйте ещё раз:", model.NoteCharacterLimit-1))
		return
	}

	draft := h.stateManager.Draft(chatID)
	appt, err := model.NewAppointment(draft.PatientID, draft.Date, draft.Period, draft.Category, note, false)
	if err == nil {
		appt, err = h.schedule.AddAppointment(appt)
	}

	switch {
	case errors.Is(err, model.ErrOverlappingAppointment), errors.Is(err, model.ErrDuplicateAppointment):
		// пациент и дата остаются, время вводится заново
		h.stateManager.SetState(chatID, state.StateAddAppointmentPeriod)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nВведите другое время (ЧЧ:ММ-ЧЧ:ММ):")
		return
	case errors.Is(err, model.ErrAppointmentBeforeBirth):
		h.stateManager.SetState(chatID, state.StateAddAppointmentDate)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nВведите другую дату:")
		return
	case err != nil:
		h.logger.Warn("Failed to add appointment", zap.Int64("chat_id", chatID), zap.Error(err))
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nНачните заново: /addappointment")
		return
	}

	h.stateManager.ClearState(chatID)
	h.persist(ctx, b, chatID)

	text, kb := screens.BuildAppointmentCard(h.schedule.ViewOf(appt))
	h.sendMessage(ctx, b, chatID, "✅ Запись добавлена\n\n"+text, kb)
}
