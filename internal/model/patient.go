package model

import (
	"fmt"
	"strings"
)

// PatientID внешний идентификатор пациента (NRIC). Формат проверяет слой команд.
type PatientID string

// NormalizePatientID приводит идентификатор к каноническому виду
func NormalizePatientID(raw string) PatientID {
	return PatientID(strings.ToUpper(strings.TrimSpace(raw)))
}

func (id PatientID) String() string { return string(id) }

// Patient пациент клиники
type Patient struct {
	ID          PatientID
	Name        string
	DateOfBirth Date
}

// NewPatient создаёт пациента с проверкой обязательных полей
func NewPatient(id PatientID, name string, dateOfBirth Date) (Patient, error) {
	id = NormalizePatientID(string(id))
	name = strings.TrimSpace(name)

	if id == "" {
		return Patient{}, fmt.Errorf("%w: patient id is required", ErrInvalidArgument)
	}
	if name == "" {
		return Patient{}, fmt.Errorf("%w: patient name is required", ErrInvalidArgument)
	}
	if dateOfBirth.IsZero() {
		return Patient{}, fmt.Errorf("%w: date of birth is required", ErrInvalidArgument)
	}

	return Patient{ID: id, Name: name, DateOfBirth: dateOfBirth}, nil
}
