package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAppointment(t *testing.T) {
	appt, err := model.NewAppointment("S1234567A", model.MustDate("2024-02-20"), model.MustTimePeriod("11:00", "12:30"), "Check-up", "fasting", true)
	require.NoError(t, err)

	got := FormatAppointment(model.AppointmentView{PatientName: "Alice Tan", Appointment: appt})
	want := "✅ Вт, 20.02.2024 11:00-12:30 (1 ч 30 мин)\n" +
		"👤 Alice Tan [S1234567A]\n" +
		"🏷 Check-up\n" +
		"📝 fasting"
	assert.Equal(t, want, got)
}

func TestFormatAppointmentList(t *testing.T) {
	assert.Equal(t, "📅 Сегодня\n\nЗаписей нет.", FormatAppointmentList("📅 Сегодня", nil))

	appt, err := model.NewAppointment("P1", model.MustDate("2024-02-20"), model.MustTimePeriod("09:00", "09:30"), "X-ray", "", false)
	require.NoError(t, err)

	got := FormatAppointmentList("📋 Записи", []model.AppointmentView{{PatientName: "Bob", Appointment: appt}})
	assert.Contains(t, got, "Всего: 1")
	assert.Contains(t, got, "1. 🕒 Вт, 20.02.2024 09:00-09:30 (30 мин)")
	assert.NotContains(t, got, "📝")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45*time.Minute))
	assert.Equal(t, "2 ч", FormatDuration(2*time.Hour))
	assert.Equal(t, "1 ч 5 мин", FormatDuration(65*time.Minute))
}

func TestFormatFilter(t *testing.T) {
	assert.Equal(t, "все записи", FormatFilter(model.AppointmentFilter{}))

	id := model.PatientID("P1")
	date := model.MustDate("2024-02-20")
	start := model.MustTime(9, 0)
	assert.Equal(t, "пациент P1, дата 20.02.2024, начало с 09:00",
		FormatFilter(model.AppointmentFilter{PatientID: &id, Date: &date, StartFrom: &start}))
}
