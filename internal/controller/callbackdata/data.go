package callbackdata

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// ========================
// Callback Data Patterns
// ========================
// a|<action>|<patient>|<date>|<start>   a|mark|S1234567A|2024-02-20|11:00
// p|<action>|<patient>                  p|del|S1234567A

const (
	appointmentPrefix = "a"
	patientPrefix     = "p"
	separator         = "|"
)

// AppointmentAction действие над записью
type AppointmentAction string

const (
	ActionOpen     AppointmentAction = "open"
	ActionMark     AppointmentAction = "mark"
	ActionUnmark   AppointmentAction = "unmark"
	ActionDelete   AppointmentAction = "del"
	ActionEditNote AppointmentAction = "note"
	ActionEditTime AppointmentAction = "time"
)

// PatientAction действие над пациентом
type PatientAction string

const (
	ActionDeletePatient   PatientAction = "del"
	ActionPatientSchedule PatientAction = "appts"
	ActionEditPatientName PatientAction = "name"
	ActionEditPatientDOB  PatientAction = "dob"
)

// AppointmentCallback разобранная кнопка записи
type AppointmentCallback struct {
	Action    AppointmentAction
	PatientID model.PatientID
	Date      model.Date
	Start     model.Time
}

// PatientCallback разобранная кнопка пациента
type PatientCallback struct {
	Action    PatientAction
	PatientID model.PatientID
}

// AppointmentData кодирует кнопку записи
func AppointmentData(action AppointmentAction, appt model.Appointment) string {
	return strings.Join([]string{
		appointmentPrefix,
		string(action),
		appt.PatientID().String(),
		appt.Date().String(),
		appt.StartTime().String(),
	}, separator)
}

// PatientData кодирует кнопку пациента
func PatientData(action PatientAction, id model.PatientID) string {
	return strings.Join([]string{patientPrefix, string(action), id.String()}, separator)
}

// IsAppointmentData сообщает, что callback относится к записи
func IsAppointmentData(data string) bool {
	return strings.HasPrefix(data, appointmentPrefix+separator)
}

// IsPatientData сообщает, что callback относится к пациенту
func IsPatientData(data string) bool {
	return strings.HasPrefix(data, patientPrefix+separator)
}

// ParseAppointmentData разбирает кнопку записи. ID пациента может
// содержать разделитель, поэтому дата и время берутся с конца.
func ParseAppointmentData(data string) (AppointmentCallback, error) {
	parts := strings.Split(data, separator)
	if len(parts) < 5 || parts[0] != appointmentPrefix {
		return AppointmentCallback{}, fmt.Errorf("appointment callback %q: %w", data, common.ErrInvalidFormat)
	}

	action := AppointmentAction(parts[1])
	switch action {
	case ActionOpen, ActionMark, ActionUnmark, ActionDelete, ActionEditNote, ActionEditTime:
	default:
		return AppointmentCallback{}, fmt.Errorf("unknown appointment action %q: %w", parts[1], common.ErrInvalidFormat)
	}

	n := len(parts)
	patientID := model.PatientID(strings.Join(parts[2:n-2], separator))
	if patientID == "" {
		return AppointmentCallback{}, fmt.Errorf("appointment callback %q: empty patient: %w", data, common.ErrInvalidFormat)
	}

	date, err := model.ParseDate(parts[n-2])
	if err != nil {
		return AppointmentCallback{}, fmt.Errorf("appointment callback %q: %w", data, common.ErrInvalidFormat)
	}

	start, err := model.ParseTime(parts[n-1])
	if err != nil {
		return AppointmentCallback{}, fmt.Errorf("appointment callback %q: %w", data, common.ErrInvalidFormat)
	}

	return AppointmentCallback{Action: action, PatientID: patientID, Date: date, Start: start}, nil
}

// ParsePatientData разбирает кнопку пациента
func ParsePatientData(data string) (PatientCallback, error) {
	parts := strings.SplitN(data, separator, 3)
	if len(parts) != 3 || parts[0] != patientPrefix || parts[2] == "" {
		return PatientCallback{}, fmt.Errorf("patient callback %q: %w", data, common.ErrInvalidFormat)
	}

	action := PatientAction(parts[1])
	switch action {
	case ActionDeletePatient, ActionPatientSchedule, ActionEditPatientName, ActionEditPatientDOB:
	default:
		return PatientCallback{}, fmt.Errorf("unknown patient action %q: %w", parts[1], common.ErrInvalidFormat)
	}

	return PatientCallback{Action: action, PatientID: model.PatientID(parts[2])}, nil
}
