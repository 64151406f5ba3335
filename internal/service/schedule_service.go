package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"go.uber.org/zap"
)

// Snapshot полный набор данных клиники для сохранения и восстановления
type Snapshot struct {
	Patients     []model.Patient
	Appointments []model.Appointment
}

// ScheduleService объединяет набор записей со справочником пациентов и
// поддерживает отфильтрованные представления записей.
//
// Порядок проверок во всех операциях: существование пациента, затем
// существование целевой записи, затем доменные инварианты. Неуспешная операция
// ничего не меняет.
type ScheduleService struct {
	mu       sync.RWMutex
	patients PatientRegistry
	store    *model.AppointmentStore
	filter   model.AppointmentPredicate
	clock    func() time.Time
	recorder OperationRecorder
	logger   *zap.Logger
}

// NewScheduleService создаёт сервис расписания.
// clock задаёт "сейчас" в часовом поясе клиники; nil означает time.Now.
func NewScheduleService(
	patients PatientRegistry,
	recorder OperationRecorder,
	clock func() time.Time,
	logger *zap.Logger,
) *ScheduleService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScheduleService{
		patients: patients,
		store:    model.NewAppointmentStore(),
		filter:   model.ShowAllAppointments,
		clock:    clock,
		recorder: recorder,
		logger:   logger,
	}
}

// AddPatient регистрирует нового пациента
func (s *ScheduleService) AddPatient(patient model.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.patients.Add(patient); err != nil {
		s.reject("add_patient", err, zap.String("patient_id", patient.ID.String()))
		return err
	}

	s.recorder.RecordOperation("add_patient", outcomeOK)
	s.logger.Info("Patient added",
		zap.String("patient_id", patient.ID.String()),
		zap.String("date_of_birth", patient.DateOfBirth.String()),
	)
	return nil
}

// EditPatient меняет имя или дату рождения пациента.
// Новая дата рождения не может быть позже ни одной из его записей.
func (s *ScheduleService) EditPatient(id model.PatientID, descriptor EditPatientDescriptor) (model.Patient, error) {
	id = model.NormalizePatientID(id.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := []zap.Field{zap.String("patient_id", id.String())}

	patient, err := s.patients.Patient(id)
	if err != nil {
		s.reject("edit_patient", err, fields...)
		return model.Patient{}, err
	}

	edited, err := descriptor.Apply(patient)
	if err != nil {
		s.reject("edit_patient", err, fields...)
		return model.Patient{}, err
	}

	if earliest, ok := s.earliestAppointmentDate(id); ok && earliest.Before(edited.DateOfBirth) {
		err := fmt.Errorf("edit patient %s: date of birth %s is after appointment on %s: %w",
			id, edited.DateOfBirth, earliest, model.ErrAppointmentBeforeBirth)
		s.reject("edit_patient", err, fields...)
		return model.Patient{}, err
	}

	if err := s.patients.Set(edited); err != nil {
		s.reject("edit_patient", err, fields...)
		return model.Patient{}, err
	}

	s.recorder.RecordOperation("edit_patient", outcomeOK)
	s.logger.Info("Patient edited",
		zap.String("patient_id", id.String()),
		zap.String("date_of_birth", edited.DateOfBirth.String()),
		zap.String("previous_date_of_birth", patient.DateOfBirth.String()),
	)
	return edited, nil
}

// earliestAppointmentDate самая ранняя дата записи пациента. Вызывается под блокировкой.
func (s *ScheduleService) earliestAppointmentDate(id model.PatientID) (model.Date, bool) {
	var (
		earliest model.Date
		found    bool
	)
	for _, appt := range s.store.All() {
		if appt.PatientID() != id {
			continue
		}
		if !found || appt.Date().Before(earliest) {
			earliest, found = appt.Date(), true
		}
	}
	return earliest, found
}

// DeletePatient удаляет пациента и все его записи.
// Если пациента нет, ничего не удаляется.
func (s *ScheduleService) DeletePatient(id model.PatientID) (model.Patient, error) {
	id = model.NormalizePatientID(id.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.patients.Patient(id)
	if err != nil {
		s.reject("delete_patient", err, zap.String("patient_id", id.String()))
		return model.Patient{}, err
	}

	if err := s.patients.Delete(id); err != nil {
		s.reject("delete_patient", err, zap.String("patient_id", id.String()))
		return model.Patient{}, err
	}
	removed := s.store.RemoveAllForPatient(id)

	s.committed("delete_patient")
	s.logger.Info("Patient deleted",
		zap.String("patient_id", id.String()),
		zap.Int("appointments_removed", removed),
	)
	return patient, nil
}

// Patients возвращает всех пациентов
func (s *ScheduleService) Patients() []model.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.patients.All()
}

// Patient возвращает пациента по идентификатору
func (s *ScheduleService) Patient(id model.PatientID) (model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.patients.Patient(model.NormalizePatientID(id.String()))
}

// FindPatients ищет пациентов по словам имени или идентификатору
func (s *ScheduleService) FindPatients(keywords []string) []model.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []model.Patient
	for _, p := range s.patients.All() {
		if model.PatientMatchesKeywords(p, keywords) {
			found = append(found, p)
		}
	}
	return found
}

// HasAppointment сообщает, есть ли запись с той же тройкой идентичности
func (s *ScheduleService) HasAppointment(appt model.Appointment) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Contains(appt)
}

// AddAppointment добавляет запись для существующего пациента
func (s *ScheduleService) AddAppointment(appt model.Appointment) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := appointmentFields(appt)

	dateOfBirth, err := s.patients.DateOfBirth(appt.PatientID())
	if err != nil {
		err = notFoundPatient(appt.PatientID(), err)
		s.reject("add_appointment", err, fields...)
		return model.Appointment{}, err
	}

	if appt.Date().Before(dateOfBirth) {
		err := fmt.Errorf("add appointment on %s for patient born %s: %w", appt.Date(), dateOfBirth, model.ErrAppointmentBeforeBirth)
		s.reject("add_appointment", err, fields...)
		return model.Appointment{}, err
	}

	if err := s.store.Add(appt); err != nil {
		s.reject("add_appointment", err, fields...)
		return model.Appointment{}, err
	}

	s.committed("add_appointment")
	s.logger.Info("Appointment added", fields...)
	return appt, nil
}

// DeleteAppointment удаляет запись, найденную по пациенту, дате и времени начала
func (s *ScheduleService) DeleteAppointment(id model.PatientID, date model.Date, start model.Time) (model.Appointment, error) {
	id = model.NormalizePatientID(id.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.resolve(id, date, start)
	if err != nil {
		s.reject("delete_appointment", err, targetFields(id, date, start)...)
		return model.Appointment{}, err
	}

	if err := s.store.Remove(target); err != nil {
		s.reject("delete_appointment", err, appointmentFields(target)...)
		return model.Appointment{}, err
	}

	s.committed("delete_appointment")
	s.logger.Info("Appointment deleted", appointmentFields(target)...)
	return target, nil
}

// EditAppointment заменяет запись новой, в которой изменены только заданные поля.
// Пересечение проверяется для новых даты и периода против всех остальных записей,
// сама редактируемая запись при этом исключается.
func (s *ScheduleService) EditAppointment(
	id model.PatientID,
	date model.Date,
	start model.Time,
	descriptor EditAppointmentDescriptor,
) (model.Appointment, error) {
	if err := descriptor.Validate(); err != nil {
		return model.Appointment{}, err
	}
	id = model.NormalizePatientID(id.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.resolve(id, date, start)
	if err != nil {
		s.reject("edit_appointment", err, targetFields(id, date, start)...)
		return model.Appointment{}, err
	}

	edited := descriptor.Apply(target)

	if descriptor.Date != nil {
		dateOfBirth, err := s.patients.DateOfBirth(id)
		if err != nil {
			err = notFoundPatient(id, err)
			s.reject("edit_appointment", err, appointmentFields(target)...)
			return model.Appointment{}, err
		}
		if edited.Date().Before(dateOfBirth) {
			err := fmt.Errorf("edit appointment to %s for patient born %s: %w", edited.Date(), dateOfBirth, model.ErrAppointmentBeforeBirth)
			s.reject("edit_appointment", err, appointmentFields(edited)...)
			return model.Appointment{}, err
		}
	}

	replaced, err := s.replace("edit_appointment", target, edited)
	if err != nil {
		return model.Appointment{}, err
	}

	s.logger.Info("Appointment edited",
		append(appointmentFields(replaced), zap.String("previous_period", target.Period().String()))...)
	return replaced, nil
}

// MarkAppointment отмечает запись как состоявшуюся
func (s *ScheduleService) MarkAppointment(id model.PatientID, date model.Date, start model.Time) (model.Appointment, error) {
	return s.setCompleted("mark_appointment", id, date, start, true)
}

// UnmarkAppointment снимает отметку о посещении
func (s *ScheduleService) UnmarkAppointment(id model.PatientID, date model.Date, start model.Time) (model.Appointment, error) {
	return s.setCompleted("unmark_appointment", id, date, start, false)
}

func (s *ScheduleService) setCompleted(op string, id model.PatientID, date model.Date, start model.Time, completed bool) (model.Appointment, error) {
	id = model.NormalizePatientID(id.String())

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.resolve(id, date, start)
	if err != nil {
		s.reject(op, err, targetFields(id, date, start)...)
		return model.Appointment{}, err
	}

	replaced, err := s.replace(op, target, target.WithCompleted(completed))
	if err != nil {
		return model.Appointment{}, err
	}

	s.logger.Info("Appointment completion changed", append(appointmentFields(replaced), zap.String("operation", op))...)
	return replaced, nil
}

// replace выполняет проверку пересечения с исключением цели и замену.
// Вызывается под блокировкой на запись.
func (s *ScheduleService) replace(op string, target, edited model.Appointment) (model.Appointment, error) {
	if s.store.HasOverlapExcluding(target, edited) {
		err := fmt.Errorf("%s %s: %w", op, edited.Key(), model.ErrOverlappingAppointment)
		s.reject(op, err, appointmentFields(edited)...)
		return model.Appointment{}, err
	}

	if err := s.store.Replace(target, edited); err != nil {
		s.reject(op, err, appointmentFields(edited)...)
		return model.Appointment{}, err
	}

	s.committed(op)
	return edited, nil
}

// resolve находит целевую запись: сначала пациент, затем сама запись.
// id уже приведён к каноническому виду.
func (s *ScheduleService) resolve(id model.PatientID, date model.Date, start model.Time) (model.Appointment, error) {
	if !s.patients.Exists(id) {
		return model.Appointment{}, fmt.Errorf("patient %s: %w", id, model.ErrPatientNotFound)
	}
	return s.store.FindByStart(id, date, start)
}

// UpdateAppointmentFilter меняет фильтр общего представления записей
func (s *ScheduleService) UpdateAppointmentFilter(predicate model.AppointmentPredicate) {
	if predicate == nil {
		predicate = model.ShowAllAppointments
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = predicate
}

// FindAppointments применяет фильтр поиска к общему представлению и возвращает результат
func (s *ScheduleService) FindAppointments(filter model.AppointmentFilter) []model.AppointmentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter.Predicate()
	return s.viewsLocked(s.filter)
}

// FilteredAppointments текущее общее представление записей
func (s *ScheduleService) FilteredAppointments() []model.AppointmentView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.viewsLocked(s.filter)
}

// TodayAppointments записи на сегодняшнюю дату клиники
func (s *ScheduleService) TodayAppointments() []model.AppointmentView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.viewsLocked(model.OnDate(s.Today()))
}

// Appointment возвращает запись вместе с именем пациента
func (s *ScheduleService) Appointment(id model.PatientID, date model.Date, start model.Time) (model.AppointmentView, error) {
	id = model.NormalizePatientID(id.String())

	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, err := s.resolve(id, date, start)
	if err != nil {
		return model.AppointmentView{}, err
	}
	return s.viewLocked(appt), nil
}

// ViewOf дополняет запись именем пациента
func (s *ScheduleService) ViewOf(appt model.Appointment) model.AppointmentView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.viewLocked(appt)
}

// Today сегодняшняя дата в часовом поясе клиники
func (s *ScheduleService) Today() model.Date {
	return model.DateOf(s.clock())
}

// viewsLocked строит представление из текущего состояния. Вызывается под блокировкой.
func (s *ScheduleService) viewsLocked(predicate model.AppointmentPredicate) []model.AppointmentView {
	views := make([]model.AppointmentView, 0, s.store.Len())
	for _, appt := range s.store.All() {
		if view := s.viewLocked(appt); predicate(view) {
			views = append(views, view)
		}
	}
	model.SortAppointmentViews(views)
	return views
}

func (s *ScheduleService) viewLocked(appt model.Appointment) model.AppointmentView {
	view := model.AppointmentView{Appointment: appt}
	if patient, err := s.patients.Patient(appt.PatientID()); err == nil {
		view.PatientName = patient.Name
	}
	return view
}

// Snapshot возвращает копию всех данных для сохранения
func (s *ScheduleService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Patients:     s.patients.All(),
		Appointments: s.store.All(),
	}
}

// Restore загружает сохранённые данные. Пересечения не перепроверяются,
// но повторяющиеся пациенты и тройки идентичности записей отклоняются.
func (s *ScheduleService) Restore(snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store := model.NewAppointmentStore()
	if err := store.SetAll(snapshot.Appointments); err != nil {
		return fmt.Errorf("restore appointments: %w", err)
	}
	if err := s.patients.SetAll(snapshot.Patients); err != nil {
		return fmt.Errorf("restore patients: %w", err)
	}
	s.store = store
	s.filter = model.ShowAllAppointments
	s.recorder.SetAppointmentsStored(store.Len())

	s.logger.Info("Schedule restored",
		zap.Int("patients", len(snapshot.Patients)),
		zap.Int("appointments", len(snapshot.Appointments)),
	)
	return nil
}

func (s *ScheduleService) committed(op string) {
	s.recorder.RecordOperation(op, outcomeOK)
	s.recorder.SetAppointmentsStored(s.store.Len())
}

func (s *ScheduleService) reject(op string, err error, fields ...zap.Field) {
	s.recorder.RecordOperation(op, Outcome(err))
	s.logger.Warn("Operation rejected", append(fields, zap.String("operation", op), zap.Error(err))...)
}

func notFoundPatient(id model.PatientID, err error) error {
	if errors.Is(err, model.ErrPatientNotFound) {
		return err
	}
	return fmt.Errorf("patient %s: %v: %w", id, err, model.ErrPatientNotFound)
}

func appointmentFields(appt model.Appointment) []zap.Field {
	return []zap.Field{
		zap.String("patient_id", appt.PatientID().String()),
		zap.String("date", appt.Date().String()),
		zap.String("period", appt.Period().String()),
		zap.String("category", appt.Category()),
		zap.Bool("completed", appt.Completed()),
	}
}

func targetFields(id model.PatientID, date model.Date, start model.Time) []zap.Field {
	return []zap.Field{
		zap.String("patient_id", id.String()),
		zap.String("date", date.String()),
		zap.String("start_time", start.String()),
	}
}
