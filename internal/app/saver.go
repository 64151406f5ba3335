package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/service"
)

// SnapshotSaver сохраняет снимок расписания
type SnapshotSaver interface {
	Save(ctx context.Context, snapshot service.Snapshot) error
}

// MeteredSaver учитывает длительность и ошибки сохранения
type MeteredSaver struct {
	next    SnapshotSaver
	metrics *Metrics
	timeout time.Duration
}

// NewMeteredSaver оборачивает хранилище метриками. Каждое сохранение
// ограничено timeout, чтобы медленная база не держала обработчик бота.
func NewMeteredSaver(next SnapshotSaver, metrics *Metrics, timeout time.Duration) *MeteredSaver {
	return &MeteredSaver{next: next, metrics: metrics, timeout: timeout}
}

func (s *MeteredSaver) Save(ctx context.Context, snapshot service.Snapshot) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	err := s.next.Save(ctx, snapshot)
	s.metrics.ObserveSnapshotSave(started, err)
	return err
}
