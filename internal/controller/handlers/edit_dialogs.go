package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/screens"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func (h *Handlers) handleEditNoteStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	note := parseNote(text)
	if err := model.ValidateNote(note); err != nil {
		h.sendError(ctx, b, chatID,
			fmt.Sprintf("❌ Заметка слишком длинная. Максимум %d символов.\n\nПопробуйте ещё раз:", model.NoteCharacterLimit-1))
		return
	}

	h.applyEdit(ctx, b, chatID, service.EditAppointmentDescriptor{Note: &note})
}

func (h *Handlers) handleEditPeriodStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	period, err := parsePeriod(text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверное время. Начало должно быть раньше конца.\n\nНапример: 14:00-14:30")
		return
	}

	h.applyEdit(ctx, b, chatID, service.EditAppointmentDescriptor{Period: &period})
}

// applyEdit применяет изменения к записи из черновика.
// При конфликте по времени диалог остаётся открытым для повторного ввода.
func (h *Handlers) applyEdit(ctx context.Context, b *bot.Bot, chatID int64, descriptor service.EditAppointmentDescriptor) {
	target := h.stateManager.Draft(chatID).Target

	edited, err := h.schedule.EditAppointment(target.PatientID, target.Date, target.Period.Start(), descriptor)
	switch {
	case err == nil:
	case descriptor.Period != nil && (errors.Is(err, model.ErrOverlappingAppointment) || errors.Is(err, model.ErrDuplicateAppointment)):
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nВведите другое время или /cancel:")
		return
	default:
		h.logger.Warn("Failed to edit appointment",
			zap.Int64("chat_id", chatID),
			zap.Stringer("target", target),
			zap.Error(err))
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(chatID)
	h.persist(ctx, b, chatID)

	text, kb := screens.BuildAppointmentCard(h.schedule.ViewOf(edited))
	h.sendMessage(ctx, b, chatID, "✅ Запись изменена\n\n"+text, kb)
}

func (h *Handlers) handleEditPatientNameStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if text == "" {
		h.sendError(ctx, b, chatID, "❌ Имя не может быть пустым.\n\nПопробуйте ещё раз:")
		return
	}

	h.applyPatientEdit(ctx, b, chatID, service.EditPatientDescriptor{Name: &text})
}

func (h *Handlers) handleEditPatientBirthStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	dateOfBirth, err := parseDate(text)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неверный формат даты.\n\nПример: 1990-05-01 или 01.05.1990")
		return
	}
	if dateOfBirth.After(h.schedule.Today()) {
		h.sendError(ctx, b, chatID, "❌ Дата рождения не может быть в будущем.\n\nПопробуйте ещё раз:")
		return
	}

	h.applyPatientEdit(ctx, b, chatID, service.EditPatientDescriptor{DateOfBirth: &dateOfBirth})
}

// applyPatientEdit меняет пациента из черновика.
// Если дата рождения позже его записей, диалог остаётся открытым.
func (h *Handlers) applyPatientEdit(ctx context.Context, b *bot.Bot, chatID int64, descriptor service.EditPatientDescriptor) {
	id := h.stateManager.Draft(chatID).PatientID

	patient, err := h.schedule.EditPatient(id, descriptor)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrAppointmentBeforeBirth):
		h.sendError(ctx, b, chatID,
			"❌ У пациента есть записи раньше этой даты.\n\nВведите другую дату или /cancel:")
		return
	default:
		h.logger.Warn("Failed to edit patient",
			zap.Int64("chat_id", chatID),
			zap.String("patient_id", id.String()),
			zap.Error(err))
		h.stateManager.ClearState(chatID)
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(chatID)
	h.persist(ctx, b, chatID)
	h.sendMessage(ctx, b, chatID, "✅ Пациент изменён\n\n"+formatting.FormatPatient(patient)+"\n\nСписок: /patients", nil)
}
