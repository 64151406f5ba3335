package screens

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/callbackdata"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/keyboard"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/go-telegram/bot/models"
)

// maxListButtons ограничивает клавиатуру длинных списков
const maxListButtons = 30

// BuildAppointmentList формирует список записей с кнопками открытия карточек
func BuildAppointmentList(title string, views []model.AppointmentView) (string, *models.InlineKeyboardMarkup) {
	text := formatting.FormatAppointmentList(title, views)

	kb := keyboard.NewBuilder()
	var row []models.InlineKeyboardButton
	for i, v := range views {
		if i == maxListButtons {
			break
		}
		label := fmt.Sprintf("%d. %s", i+1, v.Appointment.StartTime())
		row = append(row, keyboard.Button(label, callbackdata.AppointmentData(callbackdata.ActionOpen, v.Appointment)))
		if len(row) == 3 {
			kb.Row(row...)
			row = nil
		}
	}
	kb.Row(row...)

	if len(views) > maxListButtons {
		text += fmt.Sprintf("\n\nКнопки показаны для первых %d записей. Уточните поиск через /find.", maxListButtons)
	}

	return text, kb.Build()
}

// BuildAppointmentCard формирует карточку записи с действиями
func BuildAppointmentCard(v model.AppointmentView) (string, *models.InlineKeyboardMarkup) {
	appt := v.Appointment
	text := "📌 Запись\n\n" + formatting.FormatAppointment(v)

	toggle := keyboard.Button("✅ Выполнено", callbackdata.AppointmentData(callbackdata.ActionMark, appt))
	if appt.Completed() {
		toggle = keyboard.Button("↩️ Не выполнено", callbackdata.AppointmentData(callbackdata.ActionUnmark, appt))
	}

	kb := keyboard.NewBuilder().
		Row(toggle, keyboard.Button("🗑 Удалить", callbackdata.AppointmentData(callbackdata.ActionDelete, appt))).
		Row(
			keyboard.Button("📝 Заметка", callbackdata.AppointmentData(callbackdata.ActionEditNote, appt)),
			keyboard.Button("🕒 Время", callbackdata.AppointmentData(callbackdata.ActionEditTime, appt)),
		)

	return text, kb.Build()
}

// BuildPatientList формирует список пациентов
func BuildPatientList(patients []model.Patient) (string, *models.InlineKeyboardMarkup) {
	if len(patients) == 0 {
		return "👥 Пациенты\n\nСписок пуст. Добавить: /addpatient", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Пациенты (%d)", len(patients))

	kb := keyboard.NewBuilder()
	for i, p := range patients {
		fmt.Fprintf(&sb, "\n\n%d. %s", i+1, formatting.FormatPatient(p))
		if i < maxListButtons {
			kb.Row(
				keyboard.Button(fmt.Sprintf("📋 %d", i+1), callbackdata.PatientData(callbackdata.ActionPatientSchedule, p.ID)),
				keyboard.Button(fmt.Sprintf("✏️ %d", i+1), callbackdata.PatientData(callbackdata.ActionEditPatientName, p.ID)),
				keyboard.Button(fmt.Sprintf("🎂 %d", i+1), callbackdata.PatientData(callbackdata.ActionEditPatientDOB, p.ID)),
				keyboard.Button(fmt.Sprintf("🗑 %d", i+1), callbackdata.PatientData(callbackdata.ActionDeletePatient, p.ID)),
			)
		}
	}

	return sb.String(), kb.Build()
}
