package state

import "github.com/Freeeeeet/clinic_scheduler/internal/model"

// UserState представляет текущий шаг диалога в чате
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния для добавления пациента
	StateAddPatientID    UserState = "add_patient_id"
	StateAddPatientName  UserState = "add_patient_name"
	StateAddPatientBirth UserState = "add_patient_birth"

	// Состояния для добавления записи
	StateAddAppointmentPatient  UserState = "add_appointment_patient"
	StateAddAppointmentDate     UserState = "add_appointment_date"
	StateAddAppointmentPeriod   UserState = "add_appointment_period"
	StateAddAppointmentCategory UserState = "add_appointment_category"
	StateAddAppointmentNote     UserState = "add_appointment_note"

	// Состояния для редактирования записи
	StateEditAppointmentNote   UserState = "edit_appointment_note"
	StateEditAppointmentPeriod UserState = "edit_appointment_period"

	// Состояния для редактирования пациента
	StateEditPatientName  UserState = "edit_patient_name"
	StateEditPatientBirth UserState = "edit_patient_birth"
)

// Draft накапливает введённые поля, пока диалог не завершён
type Draft struct {
	PatientID model.PatientID
	Name      string
	Date      model.Date
	Period    model.TimePeriod
	Category  string

	// Target запись, которую редактируем
	Target model.AppointmentKey
}

// ChatData хранит состояние и черновик чата
type ChatData struct {
	State UserState
	Draft Draft
}
