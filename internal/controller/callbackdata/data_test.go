package callbackdata

import (
	"testing"

	"github.com/Freeeeeet/clinic_scheduler/internal/controller/common"
	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentData_RoundTrip(t *testing.T) {
	appt, err := model.NewAppointment("S1234567A", model.MustDate("2024-02-20"), model.MustTimePeriod("11:00", "11:30"), "Check-up", "", false)
	require.NoError(t, err)

	data := AppointmentData(ActionMark, appt)
	assert.Equal(t, "a|mark|S1234567A|2024-02-20|11:00", data)
	assert.True(t, IsAppointmentData(data))
	assert.False(t, IsPatientData(data))

	got, err := ParseAppointmentData(data)
	require.NoError(t, err)
	assert.Equal(t, AppointmentCallback{
		Action:    ActionMark,
		PatientID: "S1234567A",
		Date:      model.MustDate("2024-02-20"),
		Start:     model.MustTime(11, 0),
	}, got)
}

func TestParseAppointmentData_PatientWithSeparator(t *testing.T) {
	got, err := ParseAppointmentData("a|del|A|B|2024-02-20|09:00")
	require.NoError(t, err)
	assert.Equal(t, model.PatientID("A|B"), got.PatientID)
	assert.Equal(t, ActionDelete, got.Action)
}

func TestParseAppointmentData_Invalid(t *testing.T) {
	for _, data := range []string{
		"",
		"a|mark|P1|2024-02-20",
		"a|fly|P1|2024-02-20|09:00",
		"a|mark||2024-02-20|09:00",
		"a|mark|P1|2024-02-30|09:00",
		"a|mark|P1|2024-02-20|9:00",
		"p|mark|P1|2024-02-20|09:00",
	} {
		_, err := ParseAppointmentData(data)
		assert.ErrorIs(t, err, common.ErrInvalidFormat, data)
	}
}

func TestPatientData(t *testing.T) {
	data := PatientData(ActionDeletePatient, "S1234567A")
	assert.Equal(t, "p|del|S1234567A", data)
	assert.True(t, IsPatientData(data))

	got, err := ParsePatientData(data)
	require.NoError(t, err)
	assert.Equal(t, PatientCallback{Action: ActionDeletePatient, PatientID: "S1234567A"}, got)

	got, err = ParsePatientData(PatientData(ActionEditPatientDOB, "S1234567A"))
	require.NoError(t, err)
	assert.Equal(t, PatientCallback{Action: ActionEditPatientDOB, PatientID: "S1234567A"}, got)

	for _, bad := range []string{"p|del|", "p|drop|P1", "a|del|P1"} {
		_, err := ParsePatientData(bad)
		assert.ErrorIs(t, err, common.ErrInvalidFormat, bad)
	}
}
