package common

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedSource struct{ snapshot service.Snapshot }

func (s fixedSource) Snapshot() service.Snapshot { return s.snapshot }

type memorySaver struct {
	saved []service.Snapshot
	err   error
}

func (m *memorySaver) Save(_ context.Context, snapshot service.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, snapshot)
	return nil
}

func TestPersister_Persist(t *testing.T) {
	alice, err := model.NewPatient("S1234567A", "Alice Tan", model.MustDate("1990-05-01"))
	require.NoError(t, err)
	snapshot := service.Snapshot{Patients: []model.Patient{alice}}

	saver := &memorySaver{}
	p := NewPersister(fixedSource{snapshot: snapshot}, saver, zap.NewNop())

	require.NoError(t, p.Persist(context.Background()))
	assert.Equal(t, []service.Snapshot{snapshot}, saver.saved)

	saver.err = errors.New("db down")
	assert.ErrorIs(t, p.Persist(context.Background()), saver.err)
}

func TestAccess_Allowed(t *testing.T) {
	assert.True(t, NewAccess(0).Allowed(123))
	assert.True(t, NewAccess(123).Allowed(123))
	assert.False(t, NewAccess(123).Allowed(456))
}
