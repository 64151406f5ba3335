package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentFilter_Matches(t *testing.T) {
	view := AppointmentView{
		PatientName: "Alice Tan",
		Appointment: newAppt(t, "S1234567A", "2024-02-20", "11:00", "11:30"),
	}

	id := PatientID("S1234567A")
	other := PatientID("T7654321B")
	date := MustDate("2024-02-20")
	earlier := MustTime(10, 0)
	exact := MustTime(11, 0)
	later := MustTime(11, 1)

	assert.True(t, AppointmentFilter{}.Matches(view))
	assert.True(t, AppointmentFilter{}.IsEmpty())
	assert.True(t, AppointmentFilter{PatientID: &id}.Matches(view))
	assert.False(t, AppointmentFilter{PatientID: &other}.Matches(view))
	assert.True(t, AppointmentFilter{PatientID: &id, Date: &date, StartFrom: &earlier}.Matches(view))
	assert.True(t, AppointmentFilter{StartFrom: &exact}.Matches(view))
	assert.False(t, AppointmentFilter{StartFrom: &later}.Matches(view))
}

func TestSortAppointmentViews_StableOnEqualStart(t *testing.T) {
	long := newAppt(t, "P1", "2024-02-20", "10:00", "12:00")
	short := newAppt(t, "P2", "2024-02-20", "10:00", "10:30")
	early := newAppt(t, "P3", "2024-02-20", "09:00", "09:30")
	yesterday := newAppt(t, "P1", "2024-02-19", "18:00", "19:00")

	views := []AppointmentView{{Appointment: long}, {Appointment: short}, {Appointment: early}, {Appointment: yesterday}}
	SortAppointmentViews(views)

	got := make([]Appointment, 0, len(views))
	for _, v := range views {
		got = append(got, v.Appointment)
	}
	assert.Equal(t, []Appointment{yesterday, early, long, short}, got)
}

func TestPatientMatchesKeywords(t *testing.T) {
	p, err := NewPatient("s1234567a", "Alice Pauline Tan", MustDate("1990-05-01"))
	require.NoError(t, err)

	assert.True(t, PatientMatchesKeywords(p, []string{"alice"}))
	assert.True(t, PatientMatchesKeywords(p, []string{"bob", "TAN"}))
	assert.True(t, PatientMatchesKeywords(p, []string{"S1234567A"}))
	assert.False(t, PatientMatchesKeywords(p, []string{"ali"}))
	assert.False(t, PatientMatchesKeywords(p, nil))
}

func TestPatientBook(t *testing.T) {
	book := NewPatientBook()
	alice, err := NewPatient("P1", "Alice", MustDate("1990-01-01"))
	require.NoError(t, err)

	require.NoError(t, book.Add(alice))
	assert.ErrorIs(t, book.Add(alice), ErrDuplicatePatient)
	assert.True(t, book.Exists("P1"))

	dob, err := book.DateOfBirth("P1")
	require.NoError(t, err)
	assert.Equal(t, MustDate("1990-01-01"), dob)

	_, err = book.DateOfBirth("P2")
	assert.ErrorIs(t, err, ErrPatientNotFound)

	assert.ErrorIs(t, book.SetAll([]Patient{alice, alice}), ErrDuplicatePatient)
	assert.Equal(t, []Patient{alice}, book.All())

	bob, err := NewPatient("P2", "Bob", MustDate("1985-03-03"))
	require.NoError(t, err)
	assert.ErrorIs(t, book.Set(bob), ErrPatientNotFound)
	assert.Equal(t, []Patient{alice}, book.All())

	renamed, err := NewPatient("P1", "Alice Tan", MustDate("1991-01-01"))
	require.NoError(t, err)
	require.NoError(t, book.Set(renamed))
	assert.Equal(t, []Patient{renamed}, book.All())

	require.NoError(t, book.Delete("P1"))
	assert.ErrorIs(t, book.Delete("P1"), ErrPatientNotFound)
	assert.Empty(t, book.All())

	_, err = NewPatient("P9", " ", MustDate("1990-01-01"))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
