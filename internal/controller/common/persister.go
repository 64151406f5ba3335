package common

import (
	"context"
	"sync"

	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"go.uber.org/zap"
)

// SnapshotSource отдаёт текущее состояние расписания
type SnapshotSource interface {
	Snapshot() service.Snapshot
}

// SnapshotSaver сохраняет снимок в хранилище
type SnapshotSaver interface {
	Save(ctx context.Context, snapshot service.Snapshot) error
}

// Persister сохраняет расписание после каждого изменения.
// Снимок берётся под той же блокировкой, что и запись, поэтому
// последнее сохранение всегда содержит последнее состояние.
type Persister struct {
	mu     sync.Mutex
	source SnapshotSource
	saver  SnapshotSaver
	logger *zap.Logger
}

func NewPersister(source SnapshotSource, saver SnapshotSaver, logger *zap.Logger) *Persister {
	return &Persister{source: source, saver: saver, logger: logger}
}

// Persist сохраняет текущий снимок
func (p *Persister) Persist(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := p.source.Snapshot()
	if err := p.saver.Save(ctx, snapshot); err != nil {
		p.logger.Error("Failed to persist schedule",
			zap.Int("patients", len(snapshot.Patients)),
			zap.Int("appointments", len(snapshot.Appointments)),
			zap.Error(err))
		return err
	}
	return nil
}
