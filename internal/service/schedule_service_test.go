package service

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedOp struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu     sync.Mutex
	ops    []recordedOp
	stored int
}

func (r *fakeRecorder) RecordOperation(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{operation, outcome})
}

func (r *fakeRecorder) SetAppointmentsStored(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = count
}

func (r *fakeRecorder) last() recordedOp {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ops[len(r.ops)-1]
}

var fixedNow = time.Date(2024, time.February, 20, 9, 15, 0, 0, time.UTC)

func newTestService(t *testing.T, patients ...model.Patient) (*ScheduleService, *fakeRecorder) {
	t.Helper()
	recorder := &fakeRecorder{}
	svc := NewScheduleService(model.NewPatientBook(), recorder, func() time.Time { return fixedNow }, zap.NewNop())
	for _, p := range patients {
		require.NoError(t, svc.AddPatient(p))
	}
	return svc, recorder
}

func mustPatient(t *testing.T, id, name, dob string) model.Patient {
	t.Helper()
	p, err := model.NewPatient(model.PatientID(id), name, model.MustDate(dob))
	require.NoError(t, err)
	return p
}

func mustAppt(t *testing.T, patient, date, start, end string) model.Appointment {
	t.Helper()
	appt, err := model.NewAppointment(model.PatientID(patient), model.MustDate(date), model.MustTimePeriod(start, end), "Check-up", "", false)
	require.NoError(t, err)
	return appt
}

func ptr[T any](v T) *T { return &v }

func TestScheduleService_AddAppointment(t *testing.T) {
	alice := mustPatient(t, "P1", "Alice", "1990-01-01")

	t.Run("unknown patient", func(t *testing.T) {
		svc, rec := newTestService(t, alice)
		_, err := svc.AddAppointment(mustAppt(t, "P9", "2024-02-20", "11:00", "11:30"))
		assert.ErrorIs(t, err, model.ErrPatientNotFound)
		assert.Equal(t, recordedOp{"add_appointment", "patient_not_found"}, rec.last())
		assert.Empty(t, svc.Snapshot().Appointments)
	})

	t.Run("before date of birth", func(t *testing.T) {
		svc, _ := newTestService(t, alice)
		_, err := svc.AddAppointment(mustAppt(t, "P1", "1989-12-31", "11:00", "11:30"))
		assert.ErrorIs(t, err, model.ErrAppointmentBeforeBirth)
		assert.Empty(t, svc.Snapshot().Appointments)
	})

	t.Run("on date of birth", func(t *testing.T) {
		svc, _ := newTestService(t, alice)
		_, err := svc.AddAppointment(mustAppt(t, "P1", "1990-01-01", "11:00", "11:30"))
		assert.NoError(t, err)
	})

	t.Run("birth-date check runs before duplicate check", func(t *testing.T) {
		svc, _ := newTestService(t, alice)
		require.NoError(t, svc.Restore(Snapshot{
			Patients:     []model.Patient{alice},
			Appointments: []model.Appointment{mustAppt(t, "P1", "1980-01-01", "11:00", "11:30")},
		}))
		_, err := svc.AddAppointment(mustAppt(t, "P1", "1980-01-01", "11:00", "11:30"))
		assert.ErrorIs(t, err, model.ErrAppointmentBeforeBirth)
	})

	t.Run("duplicate and overlap surface unchanged", func(t *testing.T) {
		svc, rec := newTestService(t, alice)
		first := mustAppt(t, "P1", "2024-02-20", "11:00", "11:30")
		_, err := svc.AddAppointment(first)
		require.NoError(t, err)

		_, err = svc.AddAppointment(first.WithNote("again"))
		assert.ErrorIs(t, err, model.ErrDuplicateAppointment)
		assert.Equal(t, recordedOp{"add_appointment", "duplicate_appointment"}, rec.last())

		_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "11:15", "11:45"))
		assert.ErrorIs(t, err, model.ErrOverlappingAppointment)
		assert.Equal(t, 1, rec.stored)
	})

	t.Run("different patients may share a slot", func(t *testing.T) {
		bob := mustPatient(t, "P2", "Bob", "1985-03-03")
		svc, _ := newTestService(t, alice, bob)
		_, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "11:00", "11:30"))
		require.NoError(t, err)
		_, err = svc.AddAppointment(mustAppt(t, "P2", "2024-02-20", "11:00", "11:30"))
		assert.NoError(t, err)
	})
}

func TestScheduleService_Scenario(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"), mustPatient(t, "P2", "Bob", "1991-01-01"))
	date := model.MustDate("2024-02-20")

	_, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "11:00", "11:30"))
	require.NoError(t, err)

	_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "11:15", "11:45"))
	require.ErrorIs(t, err, model.ErrOverlappingAppointment)

	_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "11:30", "12:00"))
	require.NoError(t, err)

	other, err := svc.AddAppointment(mustAppt(t, "P2", "2024-02-20", "11:00", "11:30"))
	require.NoError(t, err)

	_, err = svc.EditAppointment("P1", date, model.MustTime(11, 0), EditAppointmentDescriptor{
		Period: ptr(model.MustTimePeriod("11:00", "12:00")),
	})
	require.ErrorIs(t, err, model.ErrOverlappingAppointment)
	assert.Len(t, svc.Snapshot().Appointments, 3)

	_, err = svc.DeletePatient("P1")
	require.NoError(t, err)
	assert.Equal(t, []model.Appointment{other}, svc.Snapshot().Appointments)
}

func TestScheduleService_EditAppointment(t *testing.T) {
	alice := mustPatient(t, "P1", "Alice", "1990-01-01")
	date := model.MustDate("2024-02-20")

	setup := func(t *testing.T) *ScheduleService {
		svc, _ := newTestService(t, alice)
		_, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "09:00", "10:00"))
		require.NoError(t, err)
		_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "11:00", "12:00"))
		require.NoError(t, err)
		_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-02-21", "09:00", "10:00"))
		require.NoError(t, err)
		return svc
	}

	t.Run("empty descriptor", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.EditAppointment("P1", date, model.MustTime(9, 0), EditAppointmentDescriptor{})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("note only never overlaps with itself", func(t *testing.T) {
		svc := setup(t)
		edited, err := svc.EditAppointment("P1", date, model.MustTime(9, 0), EditAppointmentDescriptor{Note: ptr("fasting")})
		require.NoError(t, err)
		assert.Equal(t, "fasting", edited.Note())
		assert.Equal(t, model.MustTimePeriod("09:00", "10:00"), edited.Period())
		assert.Equal(t, edited, svc.Snapshot().Appointments[0])
	})

	t.Run("validation order: patient, then target", func(t *testing.T) {
		svc := setup(t)
		desc := EditAppointmentDescriptor{Note: ptr("x")}

		_, err := svc.EditAppointment("P9", date, model.MustTime(9, 30), desc)
		assert.ErrorIs(t, err, model.ErrPatientNotFound)

		_, err = svc.EditAppointment("P1", date, model.MustTime(9, 30), desc)
		assert.ErrorIs(t, err, model.ErrAppointmentNotFound)
	})

	t.Run("moving to another date checks that date", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.EditAppointment("P1", date, model.MustTime(11, 0), EditAppointmentDescriptor{
			Date: ptr(model.MustDate("2024-02-21")),
		})
		assert.NoError(t, err)

		_, err = svc.EditAppointment("P1", date, model.MustTime(9, 0), EditAppointmentDescriptor{
			Date: ptr(model.MustDate("2024-02-21")),
		})
		assert.ErrorIs(t, err, model.ErrOverlappingAppointment)
	})

	t.Run("moving before birth", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.EditAppointment("P1", date, model.MustTime(9, 0), EditAppointmentDescriptor{
			Date: ptr(model.MustDate("1989-06-01")),
		})
		assert.ErrorIs(t, err, model.ErrAppointmentBeforeBirth)
	})

	t.Run("invalid note is rejected before lookup", func(t *testing.T) {
		svc := setup(t)
		_, err := svc.EditAppointment("P9", date, model.MustTime(9, 0), EditAppointmentDescriptor{
			Note: ptr(strings.Repeat("x", model.NoteCharacterLimit)),
		})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})
}

func TestScheduleService_MarkAndUnmark(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"))
	date := model.MustDate("2024-02-20")
	_, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "10:00", "11:00"))
	require.NoError(t, err)

	marked, err := svc.MarkAppointment("P1", date, model.MustTime(9, 0))
	require.NoError(t, err)
	assert.True(t, marked.Completed())

	// повторная отметка не ломает инварианты
	marked, err = svc.MarkAppointment("P1", date, model.MustTime(9, 0))
	require.NoError(t, err)
	assert.True(t, marked.Completed())

	unmarked, err := svc.UnmarkAppointment("P1", date, model.MustTime(9, 0))
	require.NoError(t, err)
	assert.False(t, unmarked.Completed())

	_, err = svc.MarkAppointment("P1", date, model.MustTime(12, 0))
	assert.ErrorIs(t, err, model.ErrAppointmentNotFound)

	_, err = svc.UnmarkAppointment("P2", date, model.MustTime(9, 0))
	assert.ErrorIs(t, err, model.ErrPatientNotFound)
}

func TestScheduleService_DeleteAppointment(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"))
	date := model.MustDate("2024-02-20")
	appt, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.DeleteAppointment("P2", date, model.MustTime(9, 0))
	assert.ErrorIs(t, err, model.ErrPatientNotFound)

	_, err = svc.DeleteAppointment("P1", date, model.MustTime(9, 30))
	assert.ErrorIs(t, err, model.ErrAppointmentNotFound)

	deleted, err := svc.DeleteAppointment("P1", date, model.MustTime(9, 0))
	require.NoError(t, err)
	assert.Equal(t, appt, deleted)
	assert.False(t, svc.HasAppointment(appt))
}

func TestScheduleService_DeletePatient(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"), mustPatient(t, "P2", "Bob", "1990-01-01"))
	_, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-03-20", "09:00", "10:00"))
	require.NoError(t, err)
	bobs, err := svc.AddAppointment(mustAppt(t, "P2", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.DeletePatient("P3")
	assert.ErrorIs(t, err, model.ErrPatientNotFound)
	assert.Len(t, svc.Snapshot().Appointments, 3)

	deleted, err := svc.DeletePatient("P1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", deleted.Name)

	snap := svc.Snapshot()
	assert.Equal(t, []model.Appointment{bobs}, snap.Appointments)
	require.Len(t, snap.Patients, 1)
	assert.Equal(t, model.PatientID("P2"), snap.Patients[0].ID)
}

func TestScheduleService_Views(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"), mustPatient(t, "P2", "Bob", "1990-01-01"))
	tomorrow, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-21", "09:00", "10:00"))
	require.NoError(t, err)
	todayLate, err := svc.AddAppointment(mustAppt(t, "P2", "2024-02-20", "15:00", "16:00"))
	require.NoError(t, err)
	todayEarly, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "08:00", "08:30"))
	require.NoError(t, err)

	today := svc.TodayAppointments()
	require.Len(t, today, 2)
	assert.Equal(t, todayEarly, today[0].Appointment)
	assert.Equal(t, "Alice", today[0].PatientName)
	assert.Equal(t, todayLate, today[1].Appointment)
	assert.Equal(t, "Bob", today[1].PatientName)

	all := svc.FilteredAppointments()
	require.Len(t, all, 3)
	assert.Equal(t, tomorrow, all[2].Appointment)

	p1 := model.PatientID("P1")
	found := svc.FindAppointments(model.AppointmentFilter{PatientID: &p1})
	assert.Len(t, found, 2)
	assert.Len(t, svc.FilteredAppointments(), 2, "filter stays applied to the live view")

	// мутация сразу видна в обоих представлениях
	_, err = svc.DeleteAppointment("P1", model.MustDate("2024-02-20"), model.MustTime(8, 0))
	require.NoError(t, err)
	assert.Len(t, svc.FilteredAppointments(), 1)
	assert.Len(t, svc.TodayAppointments(), 1)

	svc.UpdateAppointmentFilter(nil)
	assert.Len(t, svc.FilteredAppointments(), 2)
}

func TestScheduleService_FindPatients(t *testing.T) {
	svc, _ := newTestService(t,
		mustPatient(t, "S1234567A", "Alice Tan", "1990-01-01"),
		mustPatient(t, "T7654321B", "Bob Lim", "1990-01-01"),
	)

	found := svc.FindPatients([]string{"tan"})
	require.Len(t, found, 1)
	assert.Equal(t, "Alice Tan", found[0].Name)

	assert.Len(t, svc.FindPatients([]string{"t7654321b", "alice"}), 2)
	assert.Empty(t, svc.FindPatients([]string{"carol"}))
}

func TestScheduleService_Restore(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"))
	existing, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)

	dup := mustAppt(t, "P2", "2024-02-20", "09:00", "10:00")
	err = svc.Restore(Snapshot{
		Patients:     []model.Patient{mustPatient(t, "P2", "Bob", "1990-01-01")},
		Appointments: []model.Appointment{dup, dup.WithNote("copy")},
	})
	assert.ErrorIs(t, err, model.ErrDuplicateAppointment)

	snap := svc.Snapshot()
	assert.Equal(t, []model.Appointment{existing}, snap.Appointments)
	require.Len(t, snap.Patients, 1)
	assert.Equal(t, model.PatientID("P1"), snap.Patients[0].ID)

	require.NoError(t, svc.Restore(Snapshot{
		Patients:     []model.Patient{mustPatient(t, "P2", "Bob", "1990-01-01")},
		Appointments: []model.Appointment{dup},
	}))
	assert.Equal(t, []model.Appointment{dup}, svc.Snapshot().Appointments)
}

func TestScheduleService_ConcurrentAddsKeepInvariant(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"))

	appt := mustAppt(t, "P1", "2024-02-20", "09:00", "10:00")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddAppointment(appt)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.Snapshot().Appointments, 1)
}

func TestScheduleService_AppointmentLookup(t *testing.T) {
	alice := mustPatient(t, "P1", "Alice", "1990-01-01")
	svc, _ := newTestService(t, alice)
	appt := mustAppt(t, "P1", "2024-02-20", "11:00", "11:30")
	_, err := svc.AddAppointment(appt)
	require.NoError(t, err)

	view, err := svc.Appointment("P1", model.MustDate("2024-02-20"), model.MustTime(11, 0))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentView{PatientName: "Alice", Appointment: appt}, view)

	_, err = svc.Appointment("P2", model.MustDate("2024-02-20"), model.MustTime(11, 0))
	assert.ErrorIs(t, err, model.ErrPatientNotFound)

	_, err = svc.Appointment("P1", model.MustDate("2024-02-20"), model.MustTime(12, 0))
	assert.ErrorIs(t, err, model.ErrAppointmentNotFound)

	assert.Equal(t, "Alice", svc.ViewOf(appt).PatientName)

	patient, err := svc.Patient("P1")
	require.NoError(t, err)
	assert.Equal(t, alice, patient)

	_, err = svc.Patient("P2")
	assert.ErrorIs(t, err, model.ErrPatientNotFound)
}

func TestScheduleService_EditPatient(t *testing.T) {
	svc, recorder := newTestService(t, mustPatient(t, "P1", "Alice", "1990-01-01"), mustPatient(t, "P2", "Bob", "1990-01-01"))
	first, err := svc.AddAppointment(mustAppt(t, "P1", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.AddAppointment(mustAppt(t, "P1", "2024-03-20", "09:00", "10:00"))
	require.NoError(t, err)

	t.Run("rename keeps appointments", func(t *testing.T) {
		edited, err := svc.EditPatient("P1", EditPatientDescriptor{Name: ptr("Alice Tan")})
		require.NoError(t, err)
		assert.Equal(t, "Alice Tan", edited.Name)
		assert.Equal(t, model.MustDate("1990-01-01"), edited.DateOfBirth)

		view, err := svc.Appointment("P1", first.Date(), first.StartTime())
		require.NoError(t, err)
		assert.Equal(t, "Alice Tan", view.PatientName)
		assert.Equal(t, recordedOp{"edit_patient", "ok"}, recorder.last())
	})

	t.Run("birth on the earliest appointment date is accepted", func(t *testing.T) {
		edited, err := svc.EditPatient("P1", EditPatientDescriptor{DateOfBirth: ptr(model.MustDate("2024-02-20"))})
		require.NoError(t, err)
		assert.Equal(t, model.MustDate("2024-02-20"), edited.DateOfBirth)
	})

	t.Run("birth after an appointment is rejected and nothing changes", func(t *testing.T) {
		before := svc.Snapshot()

		_, err := svc.EditPatient("P1", EditPatientDescriptor{
			Name:        ptr("Someone Else"),
			DateOfBirth: ptr(model.MustDate("2024-02-21")),
		})
		assert.ErrorIs(t, err, model.ErrAppointmentBeforeBirth)
		assert.Equal(t, recordedOp{"edit_patient", "before_birth"}, recorder.last())
		assert.Equal(t, before, svc.Snapshot())
	})

	t.Run("other patients' appointments are ignored", func(t *testing.T) {
		edited, err := svc.EditPatient("P2", EditPatientDescriptor{DateOfBirth: ptr(model.MustDate("2024-12-31"))})
		require.NoError(t, err)
		assert.Equal(t, model.MustDate("2024-12-31"), edited.DateOfBirth)
	})

	t.Run("unknown patient and empty descriptor", func(t *testing.T) {
		_, err := svc.EditPatient("P3", EditPatientDescriptor{Name: ptr("Carol")})
		assert.ErrorIs(t, err, model.ErrPatientNotFound)

		_, err = svc.EditPatient("P1", EditPatientDescriptor{})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)

		_, err = svc.EditPatient("P1", EditPatientDescriptor{Name: ptr("  ")})
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})
}

func TestScheduleService_PatientIDIsNormalizedOnEveryOperation(t *testing.T) {
	svc, _ := newTestService(t, mustPatient(t, "p1", "Alice", "1990-01-01"))

	appt, err := svc.AddAppointment(mustAppt(t, "p1", "2024-02-20", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, model.PatientID("P1"), appt.PatientID())

	_, err = svc.Patient("p1")
	require.NoError(t, err)

	_, err = svc.Appointment(" p1 ", appt.Date(), appt.StartTime())
	require.NoError(t, err)

	marked, err := svc.MarkAppointment("p1", appt.Date(), appt.StartTime())
	require.NoError(t, err)
	assert.True(t, marked.Completed())

	edited, err := svc.EditAppointment("p1", appt.Date(), appt.StartTime(), EditAppointmentDescriptor{Note: ptr("fasting")})
	require.NoError(t, err)
	assert.Equal(t, "fasting", edited.Note())

	_, err = svc.DeleteAppointment("p1", appt.Date(), appt.StartTime())
	require.NoError(t, err)

	_, err = svc.EditPatient("p1", EditPatientDescriptor{Name: ptr("Alice Tan")})
	require.NoError(t, err)

	deleted, err := svc.DeletePatient("p1")
	require.NoError(t, err)
	assert.Equal(t, model.PatientID("P1"), deleted.ID)
	assert.Empty(t, svc.Patients())
}
