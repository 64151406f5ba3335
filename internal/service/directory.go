package service

import "github.com/Freeeeeet/clinic_scheduler/internal/model"

// PatientDirectory справочник пациентов, с которым работает ScheduleService.
// Ошибки поиска должны оборачивать model.ErrPatientNotFound.
type PatientDirectory interface {
	Exists(id model.PatientID) bool
	Patient(id model.PatientID) (model.Patient, error)
	DateOfBirth(id model.PatientID) (model.Date, error)
	Delete(id model.PatientID) error
}

// PatientRegistry справочник, который умеет добавлять пациентов и загружаться целиком
type PatientRegistry interface {
	PatientDirectory
	Add(patient model.Patient) error
	Set(patient model.Patient) error
	SetAll(patients []model.Patient) error
	All() []model.Patient
}

// OperationRecorder принимает результат каждой операции над записями
type OperationRecorder interface {
	RecordOperation(operation, outcome string)
	SetAppointmentsStored(count int)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string) {}
func (nopRecorder) SetAppointmentsStored(int)      {}

var _ PatientRegistry = (*model.PatientBook)(nil)
