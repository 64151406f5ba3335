package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/model"
	"go.uber.org/zap"
)

// DigestSender отправляет утреннюю сводку записей
type DigestSender interface {
	SendDigest(ctx context.Context, date model.Date, views []model.AppointmentView) error
}

// TodaySource источник записей на сегодня
type TodaySource interface {
	TodayAppointments() []model.AppointmentView
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	source     TodaySource
	sender     DigestSender
	location   *time.Location
	digestHour int
	interval   time.Duration
	now        func() time.Time
	logger     *zap.Logger

	mu       sync.Mutex
	lastSent model.Date

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(source TodaySource, sender DigestSender, location *time.Location, digestHour int, logger *zap.Logger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		source:     source,
		sender:     sender,
		location:   location,
		digestHour: digestHour,
		interval:   time.Hour,
		now:        time.Now,
		logger:     logger,
		stopChan:   make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Int("digest_hour", s.digestHour),
		zap.String("location", s.location.String()),
	)

	go s.runDigestTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
}

func (s *Scheduler) runDigestTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.tick(ctx, s.now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx, s.now())
		case <-s.stopChan:
			s.logger.Info("Digest task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Digest task cancelled")
			return
		}
	}
}

// tick отправляет сводку не более одного раза в сутки, начиная с digestHour
func (s *Scheduler) tick(ctx context.Context, now time.Time) bool {
	local := now.In(s.location)
	if local.Hour() < s.digestHour {
		return false
	}

	today := model.DateOf(local)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSent == today {
		return false
	}

	views := s.source.TodayAppointments()
	if err := s.sender.SendDigest(ctx, today, views); err != nil {
		s.logger.Error("Failed to send daily digest", zap.Stringer("date", today), zap.Error(err))
		return false
	}

	s.lastSent = today
	s.logger.Info("Daily digest sent", zap.Stringer("date", today), zap.Int("appointments", len(views)))
	return true
}
