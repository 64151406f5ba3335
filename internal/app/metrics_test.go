package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordOperation(t *testing.T) {
	m := NewMetrics("clinic")

	m.RecordOperation("add_appointment", "ok")
	m.RecordOperation("add_appointment", "ok")
	m.RecordOperation("add_appointment", "overlapping_appointment")
	m.SetAppointmentsStored(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentOperations.WithLabelValues("add_appointment", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentOperations.WithLabelValues("add_appointment", "overlapping_appointment")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AppointmentsStored))
}

func TestMetrics_ObserveSnapshotSave(t *testing.T) {
	m := NewMetrics("clinic")

	m.ObserveSnapshotSave(time.Now(), nil)
	m.ObserveSnapshotSave(time.Now(), errors.New("tx aborted"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotSaveFailures))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("clinic")
	m.SetAppointmentsStored(5)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "clinic_schedule_appointments_stored 5"))
}
