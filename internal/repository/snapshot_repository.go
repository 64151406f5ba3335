package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository/base"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotRepository хранит пациентов и записи целиком.
// Порядок строк сохраняется в колонке position.
type SnapshotRepository struct {
	*base.Repository
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{Repository: base.NewRepository(pool)}
}

// Load читает полный снимок расписания
func (r *SnapshotRepository) Load(ctx context.Context) (service.Snapshot, error) {
	patients, err := r.loadPatients(ctx)
	if err != nil {
		return service.Snapshot{}, err
	}

	appointments, err := r.loadAppointments(ctx)
	if err != nil {
		return service.Snapshot{}, err
	}

	return service.Snapshot{Patients: patients, Appointments: appointments}, nil
}

func (r *SnapshotRepository) loadPatients(ctx context.Context) ([]model.Patient, error) {
	query := `
		SELECT id, name, date_of_birth
		FROM patients
		ORDER BY position
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var patients []model.Patient
	for rows.Next() {
		var (
			id   string
			name string
			dob  time.Time
		)
		if err := rows.Scan(&id, &name, &dob); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}

		patient, err := model.NewPatient(model.PatientID(id), name, model.DateOf(dob))
		if err != nil {
			return nil, fmt.Errorf("decode patient %s: %w", id, err)
		}
		patients = append(patients, patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}

	return patients, nil
}

func (r *SnapshotRepository) loadAppointments(ctx context.Context) ([]model.Appointment, error) {
	query := `
		SELECT patient_id, appointment_date, start_minute, end_minute, category, note, completed
		FROM appointments
		ORDER BY position
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		var (
			patientID   string
			date        time.Time
			startMinute int32
			endMinute   int32
			category    string
			note        string
			completed   bool
		)
		if err := rows.Scan(&patientID, &date, &startMinute, &endMinute, &category, &note, &completed); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}

		period, err := periodFromMinutes(int(startMinute), int(endMinute))
		if err != nil {
			return nil, fmt.Errorf("decode appointment of %s: %w", patientID, err)
		}

		appt, err := model.NewAppointment(model.PatientID(patientID), model.DateOf(date), period, category, note, completed)
		if err != nil {
			return nil, fmt.Errorf("decode appointment of %s: %w", patientID, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}

// Save заменяет сохранённое состояние снимком в одной транзакции
func (r *SnapshotRepository) Save(ctx context.Context, snapshot service.Snapshot) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM appointments`); err != nil {
			return fmt.Errorf("clear appointments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM patients`); err != nil {
			return fmt.Errorf("clear patients: %w", err)
		}

		for i, p := range snapshot.Patients {
			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, date_of_birth, position)
				VALUES ($1, $2, $3, $4)
			`, string(p.ID), p.Name, p.DateOfBirth.Time(), i)
			if err != nil {
				return fmt.Errorf("insert patient %s: %w", p.ID, err)
			}
		}

		for i, a := range snapshot.Appointments {
			_, err := tx.Exec(ctx, `
				INSERT INTO appointments (id, patient_id, appointment_date, start_minute, end_minute, category, note, completed, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
				uuid.New(),
				string(a.PatientID()),
				a.Date().Time(),
				int16(a.StartTime().Minutes()),
				int16(a.EndTime().Minutes()),
				a.Category(),
				a.Note(),
				a.Completed(),
				i,
			)
			if err != nil {
				return fmt.Errorf("insert appointment %s: %w", a.Key(), err)
			}
		}

		return nil
	})
}

func periodFromMinutes(start, end int) (model.TimePeriod, error) {
	startTime, err := model.NewTime(start/60, start%60)
	if err != nil {
		return model.TimePeriod{}, err
	}
	endTime, err := model.NewTime(end/60, end%60)
	if err != nil {
		return model.TimePeriod{}, err
	}
	return model.NewTimePeriod(startTime, endTime)
}
