package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// StatusEmoji отметка выполнения записи
func StatusEmoji(completed bool) string {
	if completed {
		return "✅"
	}
	return "🕒"
}

// FormatAppointment форматирует одну запись
func FormatAppointment(v model.AppointmentView) string {
	a := v.Appointment

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s (%s)\n",
		StatusEmoji(a.Completed()),
		FormatDateWithWeekday(a.Date()),
		FormatTimeRange(a.Period()),
		FormatDuration(a.Period().Duration()),
	)

	name := v.PatientName
	if name == "" {
		name = "—"
	}
	fmt.Fprintf(&sb, "👤 %s [%s]\n", name, a.PatientID())
	fmt.Fprintf(&sb, "🏷 %s", a.Category())
	if a.Note() != "" {
		fmt.Fprintf(&sb, "\n📝 %s", a.Note())
	}
	return sb.String()
}

// FormatAppointmentList форматирует список записей с заголовком
func FormatAppointmentList(title string, views []model.AppointmentView) string {
	if len(views) == 0 {
		return title + "\n\nЗаписей нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\nВсего: %d", title, len(views))
	for i, v := range views {
		fmt.Fprintf(&sb, "\n\n%d. %s", i+1, FormatAppointment(v))
	}
	return sb.String()
}

// FormatPatient форматирует карточку пациента
func FormatPatient(p model.Patient) string {
	return fmt.Sprintf("👤 %s [%s]\n🎂 %s", p.Name, p.ID, FormatDate(p.DateOfBirth))
}

// FormatFilter описывает активный фильтр
func FormatFilter(f model.AppointmentFilter) string {
	if f.IsEmpty() {
		return "все записи"
	}

	var parts []string
	if f.PatientID != nil {
		parts = append(parts, "пациент "+f.PatientID.String())
	}
	if f.Date != nil {
		parts = append(parts, "дата "+FormatDate(*f.Date))
	}
	if f.StartFrom != nil {
		parts = append(parts, "начало с "+f.StartFrom.String())
	}
	return strings.Join(parts, ", ")
}
