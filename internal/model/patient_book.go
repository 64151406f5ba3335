package model

import "fmt"

// PatientBook список пациентов, уникальных по идентификатору
type PatientBook struct {
	patients []Patient
}

// NewPatientBook создаёт пустой список пациентов
func NewPatientBook() *PatientBook {
	return &PatientBook{}
}

// Add добавляет пациента
func (b *PatientBook) Add(patient Patient) error {
	if b.Exists(patient.ID) {
		return fmt.Errorf("add patient %s: %w", patient.ID, ErrDuplicatePatient)
	}
	b.patients = append(b.patients, patient)
	return nil
}

// Exists проверяет наличие пациента
func (b *PatientBook) Exists(id PatientID) bool {
	return b.indexOf(id) != -1
}

// Patient возвращает пациента по идентификатору
func (b *PatientBook) Patient(id PatientID) (Patient, error) {
	index := b.indexOf(id)
	if index == -1 {
		return Patient{}, fmt.Errorf("get patient %s: %w", id, ErrPatientNotFound)
	}
	return b.patients[index], nil
}

// DateOfBirth возвращает дату рождения пациента
func (b *PatientBook) DateOfBirth(id PatientID) (Date, error) {
	patient, err := b.Patient(id)
	if err != nil {
		return Date{}, err
	}
	return patient.DateOfBirth, nil
}

// Set заменяет пациента с тем же идентификатором, позиция в списке сохраняется
func (b *PatientBook) Set(patient Patient) error {
	index := b.indexOf(patient.ID)
	if index == -1 {
		return fmt.Errorf("set patient %s: %w", patient.ID, ErrPatientNotFound)
	}
	b.patients[index] = patient
	return nil
}

// Delete удаляет пациента
func (b *PatientBook) Delete(id PatientID) error {
	index := b.indexOf(id)
	if index == -1 {
		return fmt.Errorf("delete patient %s: %w", id, ErrPatientNotFound)
	}
	b.patients = append(b.patients[:index], b.patients[index+1:]...)
	return nil
}

// SetAll заменяет список целиком, повторяющиеся идентификаторы отклоняются
func (b *PatientBook) SetAll(patients []Patient) error {
	seen := make(map[PatientID]struct{}, len(patients))
	for _, p := range patients {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("set all patients: %s: %w", p.ID, ErrDuplicatePatient)
		}
		seen[p.ID] = struct{}{}
	}

	items := make([]Patient, len(patients))
	copy(items, patients)
	b.patients = items
	return nil
}

// All возвращает копию списка в порядке добавления
func (b *PatientBook) All() []Patient {
	out := make([]Patient, len(b.patients))
	copy(out, b.patients)
	return out
}

func (b *PatientBook) indexOf(id PatientID) int {
	for i, p := range b.patients {
		if p.ID == id {
			return i
		}
	}
	return -1
}
