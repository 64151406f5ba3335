package model

import "fmt"

// AppointmentStore упорядоченный набор записей, который поддерживает инварианты:
//   - нет двух записей с одинаковой тройкой (пациент, дата, период);
//   - нет двух записей одного пациента на одну дату с пересекающимися периодами.
//
// Добавление и замена сравнивают записи по тройке идентичности,
// удаление и поиск цели замены — полным равенством всех полей.
// Все проверки выполняются до изменения: неуспешный вызов не меняет набор.
//
// Store не потокобезопасен, синхронизацию обеспечивает владелец (ScheduleService).
type AppointmentStore struct {
	items []Appointment
}

// NewAppointmentStore создаёт пустой набор
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{}
}

// Len количество записей
func (s *AppointmentStore) Len() int {
	return len(s.items)
}

// All возвращает копию записей в порядке добавления
func (s *AppointmentStore) All() []Appointment {
	out := make([]Appointment, len(s.items))
	copy(out, s.items)
	return out
}

// Contains сообщает, есть ли запись с той же тройкой идентичности
func (s *AppointmentStore) Contains(appt Appointment) bool {
	for _, existing := range s.items {
		if existing.IsSameAppointment(appt) {
			return true
		}
	}
	return false
}

// Add добавляет запись в конец набора
func (s *AppointmentStore) Add(appt Appointment) error {
	if s.Contains(appt) {
		return fmt.Errorf("add %s: %w", appt.Key(), ErrDuplicateAppointment)
	}
	if s.HasOverlap(appt.PatientID(), appt.Date(), appt.Period()) {
		return fmt.Errorf("add %s: %w", appt.Key(), ErrOverlappingAppointment)
	}

	s.items = append(s.items, appt)
	return nil
}

// Replace заменяет target на replacement, сохраняя позицию.
// target ищется полным равенством.
func (s *AppointmentStore) Replace(target, replacement Appointment) error {
	index := s.indexOf(target)
	if index == -1 {
		return fmt.Errorf("replace %s: %w", target.Key(), ErrAppointmentNotFound)
	}

	if !target.IsSameAppointment(replacement) && s.Contains(replacement) {
		return fmt.Errorf("replace %s with %s: %w", target.Key(), replacement.Key(), ErrDuplicateAppointment)
	}

	if s.HasOverlapExcluding(target, replacement) {
		return fmt.Errorf("replace %s with %s: %w", target.Key(), replacement.Key(), ErrOverlappingAppointment)
	}

	s.items[index] = replacement
	return nil
}

// Remove удаляет запись, полностью равную appt
func (s *AppointmentStore) Remove(appt Appointment) error {
	index := s.indexOf(appt)
	if index == -1 {
		return fmt.Errorf("remove %s: %w", appt.Key(), ErrAppointmentNotFound)
	}

	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// RemoveAllForPatient удаляет все записи пациента и возвращает их количество.
// Никогда не завершается ошибкой, в том числе если записей нет.
func (s *AppointmentStore) RemoveAllForPatient(patientID PatientID) int {
	kept := s.items[:0]
	removed := 0
	for _, appt := range s.items {
		if appt.PatientID() == patientID {
			removed++
			continue
		}
		kept = append(kept, appt)
	}
	// обнуляем хвост, чтобы не держать удалённые значения
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = Appointment{}
	}
	s.items = kept
	return removed
}

// FindByIdentity ищет запись по полной тройке идентичности
func (s *AppointmentStore) FindByIdentity(patientID PatientID, date Date, period TimePeriod) (Appointment, error) {
	key := AppointmentKey{PatientID: patientID, Date: date, Period: period}
	for _, appt := range s.items {
		if appt.Key() == key {
			return appt, nil
		}
	}
	return Appointment{}, fmt.Errorf("find %s: %w", key, ErrAppointmentNotFound)
}

// FindByStart ищет запись по частичному ключу (пациент, дата, время начала).
// Записи, добавленные через Add и Replace, не пересекаются, и совпадение одно.
// SetAll пересечения не проверяет; тогда возвращается первая запись в порядке хранения.
func (s *AppointmentStore) FindByStart(patientID PatientID, date Date, start Time) (Appointment, error) {
	for _, appt := range s.items {
		if matchesStart(appt, patientID, date, start) {
			return appt, nil
		}
	}
	return Appointment{}, fmt.Errorf("find %s %s %s: %w", patientID, date, start, ErrAppointmentNotFound)
}

// ExistsByStart проверяет наличие записи по частичному ключу
func (s *AppointmentStore) ExistsByStart(patientID PatientID, date Date, start Time) bool {
	for _, appt := range s.items {
		if matchesStart(appt, patientID, date, start) {
			return true
		}
	}
	return false
}

// HasOverlap сообщает, есть ли у пациента на эту дату запись, пересекающаяся с period
func (s *AppointmentStore) HasOverlap(patientID PatientID, date Date, period TimePeriod) bool {
	for _, appt := range s.items {
		if appt.PatientID() == patientID && appt.Date() == date && appt.Period().Overlaps(period) {
			return true
		}
	}
	return false
}

// HasOverlapExcluding как HasOverlap для candidate, но пропускает запись,
// полностью равную excluded: редактируемая запись не конфликтует сама с собой.
func (s *AppointmentStore) HasOverlapExcluding(excluded, candidate Appointment) bool {
	for _, appt := range s.items {
		if appt.Equal(excluded) {
			continue
		}
		if appt.OverlapsWith(candidate) {
			return true
		}
	}
	return false
}

// SetAll заменяет содержимое набора. Пересечения не проверяются (доверенная загрузка),
// но список с повторяющимися тройками идентичности отклоняется.
func (s *AppointmentStore) SetAll(appointments []Appointment) error {
	seen := make(map[AppointmentKey]struct{}, len(appointments))
	for _, appt := range appointments {
		key := appt.Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("set all: %s: %w", key, ErrDuplicateAppointment)
		}
		seen[key] = struct{}{}
	}

	items := make([]Appointment, len(appointments))
	copy(items, appointments)
	s.items = items
	return nil
}

func (s *AppointmentStore) indexOf(appt Appointment) int {
	for i, existing := range s.items {
		if existing.Equal(appt) {
			return i
		}
	}
	return -1
}

func matchesStart(appt Appointment, patientID PatientID, date Date, start Time) bool {
	return appt.PatientID() == patientID && appt.Date() == date && appt.StartTime() == start
}
