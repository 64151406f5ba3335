package model

import "errors"

// Ошибки доменной модели. Вызывающий код сравнивает их через errors.Is,
// конкретные значения всегда оборачиваются контекстом через fmt.Errorf.
var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrDuplicatePatient       = errors.New("patient already exists")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrDuplicateAppointment   = errors.New("appointment already exists")
	ErrOverlappingAppointment = errors.New("appointment overlaps with an existing appointment of the same patient")
	ErrAppointmentBeforeBirth = errors.New("appointment date is before patient's date of birth")
)
