package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// EditAppointmentDescriptor поля, которые нужно изменить в записи.
// nil означает "оставить как было". Пациента изменить нельзя.
type EditAppointmentDescriptor struct {
	Date     *model.Date
	Period   *model.TimePeriod
	Category *string
	Note     *string
}

// IsAnyFieldEdited сообщает, задано ли хотя бы одно поле
func (d EditAppointmentDescriptor) IsAnyFieldEdited() bool {
	return d.Date != nil || d.Period != nil || d.Category != nil || d.Note != nil
}

// Validate проверяет, что дескриптор не пустой и новые значения корректны
func (d EditAppointmentDescriptor) Validate() error {
	if !d.IsAnyFieldEdited() {
		return fmt.Errorf("%w: at least one field to edit must be provided", model.ErrInvalidArgument)
	}
	if d.Date != nil && d.Date.IsZero() {
		return fmt.Errorf("%w: new date is empty", model.ErrInvalidArgument)
	}
	if d.Period != nil && *d.Period == (model.TimePeriod{}) {
		return fmt.Errorf("%w: new time period is empty", model.ErrInvalidArgument)
	}
	if d.Category != nil {
		if err := model.ValidateCategory(*d.Category); err != nil {
			return err
		}
	}
	if d.Note != nil {
		if err := model.ValidateNote(*d.Note); err != nil {
			return err
		}
	}
	return nil
}

// Apply накладывает заданные поля на запись и возвращает новое значение
func (d EditAppointmentDescriptor) Apply(appt model.Appointment) model.Appointment {
	if d.Date != nil {
		appt = appt.WithDate(*d.Date)
	}
	if d.Period != nil {
		appt = appt.WithPeriod(*d.Period)
	}
	if d.Category != nil {
		appt = appt.WithCategory(*d.Category)
	}
	if d.Note != nil {
		appt = appt.WithNote(*d.Note)
	}
	return appt
}

// EditPatientDescriptor поля пациента, которые нужно изменить.
// Идентификатор пациента не меняется.
type EditPatientDescriptor struct {
	Name        *string
	DateOfBirth *model.Date
}

// IsAnyFieldEdited сообщает, задано ли хотя бы одно поле
func (d EditPatientDescriptor) IsAnyFieldEdited() bool {
	return d.Name != nil || d.DateOfBirth != nil
}

// Apply накладывает заданные поля на пациента и проверяет результат
func (d EditPatientDescriptor) Apply(patient model.Patient) (model.Patient, error) {
	if !d.IsAnyFieldEdited() {
		return model.Patient{}, fmt.Errorf("%w: at least one field to edit must be provided", model.ErrInvalidArgument)
	}

	name, dateOfBirth := patient.Name, patient.DateOfBirth
	if d.Name != nil {
		name = *d.Name
	}
	if d.DateOfBirth != nil {
		dateOfBirth = *d.DateOfBirth
	}
	return model.NewPatient(patient.ID, name, dateOfBirth)
}

const outcomeOK = "ok"

// Outcome метка результата операции для метрик
func Outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, model.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, model.ErrPatientNotFound):
		return "patient_not_found"
	case errors.Is(err, model.ErrDuplicatePatient):
		return "duplicate_patient"
	case errors.Is(err, model.ErrAppointmentNotFound):
		return "appointment_not_found"
	case errors.Is(err, model.ErrDuplicateAppointment):
		return "duplicate_appointment"
	case errors.Is(err, model.ErrOverlappingAppointment):
		return "overlapping_appointment"
	case errors.Is(err, model.ErrAppointmentBeforeBirth):
		return "before_birth"
	default:
		return "error"
	}
}
