package model

import (
	"sort"
	"strings"
)

// AppointmentView запись вместе с именем пациента для отображения
type AppointmentView struct {
	PatientName string
	Appointment Appointment
}

// AppointmentPredicate фильтр представления записей
type AppointmentPredicate func(AppointmentView) bool

// ShowAllAppointments фильтр, пропускающий все записи
func ShowAllAppointments(AppointmentView) bool { return true }

// OnDate фильтр записей на конкретную дату
func OnDate(date Date) AppointmentPredicate {
	return func(v AppointmentView) bool {
		return v.Appointment.Date() == date
	}
}

// AppointmentFilter условия поиска записей; пустые поля не участвуют
type AppointmentFilter struct {
	PatientID *PatientID
	Date      *Date
	// StartFrom записи, начинающиеся в это время или позже
	StartFrom *Time
}

// IsEmpty сообщает, что не задано ни одного условия
func (f AppointmentFilter) IsEmpty() bool {
	return f.PatientID == nil && f.Date == nil && f.StartFrom == nil
}

// Matches проверяет запись на соответствие всем заданным условиям
func (f AppointmentFilter) Matches(v AppointmentView) bool {
	appt := v.Appointment
	if f.PatientID != nil && appt.PatientID() != *f.PatientID {
		return false
	}
	if f.Date != nil && appt.Date() != *f.Date {
		return false
	}
	if f.StartFrom != nil && appt.StartTime().Before(*f.StartFrom) {
		return false
	}
	return true
}

// Predicate возвращает фильтр как предикат
func (f AppointmentFilter) Predicate() AppointmentPredicate {
	return f.Matches
}

// PatientMatchesKeywords проверяет, совпадает ли любое ключевое слово с целым словом
// имени (без учёта регистра) или с идентификатором пациента
func PatientMatchesKeywords(p Patient, keywords []string) bool {
	words := strings.Fields(strings.ToLower(p.Name))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if NormalizePatientID(kw) == p.ID {
			return true
		}
		for _, w := range words {
			if w == strings.ToLower(kw) {
				return true
			}
		}
	}
	return false
}

// SortAppointmentViews сортирует по дате, затем по началу периода.
// Сортировка стабильная: записи с одинаковым началом сохраняют исходный порядок.
func SortAppointmentViews(views []AppointmentView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Appointment, views[j].Appointment
		if c := a.Date().Compare(b.Date()); c != 0 {
			return c < 0
		}
		return a.Period().Compare(b.Period()) < 0
	})
}
