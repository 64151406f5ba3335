package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/screens"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const commandList = "/today - Записи на сегодня\n" +
	"/appointments - Все записи\n" +
	"/find [ID] [ГГГГ-ММ-ДД] [ЧЧ:ММ] - Поиск записей\n" +
	"/patients [слова] - Пациенты\n" +
	"/addpatient - Добавить пациента\n" +
	"/addappointment - Добавить запись\n" +
	"/cancel - Отменить текущую операцию\n" +
	"/help - Справка"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	name := "администратор"
	if update.Message.From != nil && update.Message.From.FirstName != "" {
		name = update.Message.From.FirstName
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот записи пациентов клиники. Он следит, чтобы записи одного пациента в один день не пересекались.\n\n"+
			"Доступные команды:\n%s",
		name,
		commandList,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	helpText := "📚 Справка по командам:\n\n" + commandList + "\n\n" +
		"Записи одного пациента в один день не могут пересекаться. " +
		"Соседние интервалы (10:00-11:00 и 11:00-12:00) допустимы.\n\n" +
		"Нажмите на номер записи в списке, чтобы отметить, изменить или удалить её.\n" +
		"В /patients кнопки ✏️ и 🎂 меняют имя и дату рождения пациента."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleToday показывает записи на сегодня
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	title := "📅 Сегодня, " + formatting.FormatDateWithWeekday(h.schedule.Today())
	text, kb := screens.BuildAppointmentList(title, h.schedule.TodayAppointments())
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleAppointments сбрасывает фильтр и показывает все записи
func (h *Handlers) HandleAppointments(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.schedule.UpdateAppointmentFilter(nil)
	text, kb := screens.BuildAppointmentList("📋 Все записи", h.schedule.FilteredAppointments())
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleFind ищет записи по пациенту, дате и времени начала
func (h *Handlers) HandleFind(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	filter, err := parseFindArgs(update.Message.Text)
	if err != nil {
		h.logger.Warn("Invalid find arguments", zap.String("text", update.Message.Text), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			common.ErrorMessage(err)+"\n\nФормат: /find [ID] [ГГГГ-ММ-ДД] [ЧЧ:ММ]\nНапример: /find S1234567A 2024-02-20 11:00")
		return
	}

	views := h.schedule.FindAppointments(filter)
	text, kb := screens.BuildAppointmentList("🔎 Поиск: "+formatting.FormatFilter(filter), views)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandlePatients показывает пациентов, с аргументами ищет по словам имени или ID
func (h *Handlers) HandlePatients(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	patients := h.schedule.Patients()
	if keywords := commandArgs(update.Message.Text); len(keywords) > 0 {
		patients = h.schedule.FindPatients(keywords)
		if len(patients) == 0 {
			h.sendMessage(ctx, b, update.Message.Chat.ID,
				fmt.Sprintf("🔎 По запросу «%s» пациенты не найдены.", strings.Join(keywords, " ")), nil)
			return
		}
	}

	text, kb := screens.BuildPatientList(patients)
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleCancel обрабатывает команду /cancel
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	if h.stateManager.GetState(chatID) == state.StateNone {
		h.sendMessage(ctx, b, chatID, "❌ Нет активных операций для отмены.", nil)
		return
	}

	// Очищаем состояние
	h.stateManager.ClearState(chatID)
	h.sendMessage(ctx, b, chatID, "✅ Операция отменена.", nil)
}

// IsDialogMessage выбирает обычный текст, который продолжает диалог
func IsDialogMessage(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.Text != "" &&
		!strings.HasPrefix(update.Message.Text, "/")
}

// HandleTextMessage продолжает активный диалог
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !IsDialogMessage(update) {
		return
	}

	chatID := update.Message.Chat.ID
	if !h.access.Allowed(chatID) {
		return
	}

	currentState := h.stateManager.GetState(chatID)
	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message", zap.Int64("chat_id", chatID))
		return
	}

	h.logger.Info("Handling dialog step",
		zap.Int64("chat_id", chatID),
		zap.String("state", string(currentState)))

	text := strings.TrimSpace(update.Message.Text)

	switch currentState {
	case state.StateAddPatientID:
		h.handleAddPatientIDStep(ctx, b, chatID, text)
	case state.StateAddPatientName:
		h.handleAddPatientNameStep(ctx, b, chatID, text)
	case state.StateAddPatientBirth:
		h.handleAddPatientBirthStep(ctx, b, chatID, text)
	case state.StateAddAppointmentPatient:
		h.handleAddAppointmentPatientStep(ctx, b, chatID, text)
	case state.StateAddAppointmentDate:
		h.handleAddAppointmentDateStep(ctx, b, chatID, text)
	case state.StateAddAppointmentPeriod:
		h.handleAddAppointmentPeriodStep(ctx, b, chatID, text)
	case state.StateAddAppointmentCategory:
		h.handleAddAppointmentCategoryStep(ctx, b, chatID, text)
	case state.StateAddAppointmentNote:
		h.handleAddAppointmentNoteStep(ctx, b, chatID, text)
	case state.StateEditAppointmentNote:
		h.handleEditNoteStep(ctx, b, chatID, text)
	case state.StateEditAppointmentPeriod:
		h.handleEditPeriodStep(ctx, b, chatID, text)
	case state.StateEditPatientName:
		h.handleEditPatientNameStep(ctx, b, chatID, text)
	case state.StateEditPatientBirth:
		h.handleEditPatientBirthStep(ctx, b, chatID, text)
	default:
		h.logger.Warn("Unknown dialog state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(chatID)
	}
}
