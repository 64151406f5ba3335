package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NoteCharacterLimit длина заметки после обрезки пробелов должна быть строго меньше
const NoteCharacterLimit = 70

// AppointmentKey тройка идентичности записи: пациент, дата, период
type AppointmentKey struct {
	PatientID PatientID
	Date      Date
	Period    TimePeriod
}

func (k AppointmentKey) String() string {
	return fmt.Sprintf("%s %s %s", k.PatientID, k.Date, k.Period)
}

// Appointment неизменяемая запись на приём.
// Любое изменение создаёт новое значение через With* методы.
type Appointment struct {
	patientID PatientID
	date      Date
	period    TimePeriod
	category  string
	note      string
	completed bool
}

// NewAppointment создаёт запись с проверкой полей
func NewAppointment(patientID PatientID, date Date, period TimePeriod, category, note string, completed bool) (Appointment, error) {
	patientID = NormalizePatientID(string(patientID))
	if patientID == "" {
		return Appointment{}, fmt.Errorf("%w: patient id is required", ErrInvalidArgument)
	}
	if date.IsZero() {
		return Appointment{}, fmt.Errorf("%w: appointment date is required", ErrInvalidArgument)
	}
	if period == (TimePeriod{}) {
		return Appointment{}, fmt.Errorf("%w: appointment time period is required", ErrInvalidArgument)
	}
	if err := ValidateCategory(category); err != nil {
		return Appointment{}, err
	}
	if err := ValidateNote(note); err != nil {
		return Appointment{}, err
	}

	return Appointment{
		patientID: patientID,
		date:      date,
		period:    period,
		category:  category,
		note:      note,
		completed: completed,
	}, nil
}

// ValidateCategory проверяет что категория не пустая
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: appointment category must not be blank", ErrInvalidArgument)
	}
	return nil
}

// ValidateNote проверяет ограничение длины заметки
func ValidateNote(note string) error {
	if utf8.RuneCountInString(strings.TrimSpace(note)) >= NoteCharacterLimit {
		return fmt.Errorf("%w: note should have less than %d characters", ErrInvalidArgument, NoteCharacterLimit)
	}
	return nil
}

func (a Appointment) PatientID() PatientID { return a.patientID }
func (a Appointment) Date() Date           { return a.date }
func (a Appointment) Period() TimePeriod   { return a.period }
func (a Appointment) StartTime() Time      { return a.period.start }
func (a Appointment) EndTime() Time        { return a.period.end }
func (a Appointment) Category() string     { return a.category }
func (a Appointment) Note() string         { return a.note }
func (a Appointment) Completed() bool      { return a.completed }

// Key возвращает тройку идентичности
func (a Appointment) Key() AppointmentKey {
	return AppointmentKey{PatientID: a.patientID, Date: a.date, Period: a.period}
}

// IsSameAppointment сравнивает записи по тройке идентичности.
// Категория, заметка и отметка о посещении не учитываются.
func (a Appointment) IsSameAppointment(other Appointment) bool {
	return a.Key() == other.Key()
}

// Equal полное сравнение по всем шести полям.
// Используется для поиска конкретной записи при удалении и замене.
func (a Appointment) Equal(other Appointment) bool {
	return a == other
}

// OverlapsWith сообщает, конфликтует ли запись с other по времени:
// тот же пациент, та же дата и пересекающиеся периоды.
func (a Appointment) OverlapsWith(other Appointment) bool {
	return a.patientID == other.patientID &&
		a.date == other.date &&
		a.period.Overlaps(other.period)
}

// WithDate возвращает копию с новой датой
func (a Appointment) WithDate(date Date) Appointment {
	a.date = date
	return a
}

// WithPeriod возвращает копию с новым периодом
func (a Appointment) WithPeriod(period TimePeriod) Appointment {
	a.period = period
	return a
}

// WithCategory возвращает копию с новой категорией
func (a Appointment) WithCategory(category string) Appointment {
	a.category = category
	return a
}

// WithNote возвращает копию с новой заметкой
func (a Appointment) WithNote(note string) Appointment {
	a.note = note
	return a
}

// WithCompleted возвращает копию с новой отметкой о посещении
func (a Appointment) WithCompleted(completed bool) Appointment {
	a.completed = completed
	return a
}

func (a Appointment) String() string {
	status := "pending"
	if a.completed {
		status = "completed"
	}
	return fmt.Sprintf("%s %s %s [%s] %s (%s)", a.patientID, a.date, a.period, a.category, a.note, status)
}
