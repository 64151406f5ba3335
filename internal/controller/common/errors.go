package common

import (
	"errors"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
)

// Ошибки разбора пользовательского ввода
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrPatientNotFound):
		return "❌ Пациент не найден"
	case errors.Is(err, model.ErrDuplicatePatient):
		return "❌ Пациент с таким ID уже есть"
	case errors.Is(err, model.ErrAppointmentNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, model.ErrDuplicateAppointment):
		return "❌ Такая запись уже существует"
	case errors.Is(err, model.ErrOverlappingAppointment):
		return "❌ Время пересекается с другой записью пациента в этот день"
	case errors.Is(err, model.ErrAppointmentBeforeBirth):
		return "❌ Дата записи раньше даты рождения пациента"
	case errors.Is(err, model.ErrInvalidArgument):
		return "❌ Неверные данные"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
