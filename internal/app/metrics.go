package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics метрики операций над расписанием
type Metrics struct {
	registry *prometheus.Registry

	AppointmentOperations *prometheus.CounterVec
	AppointmentsStored    prometheus.Gauge
	SnapshotSaveDuration  prometheus.Histogram
	SnapshotSaveFailures  prometheus.Counter
}

// NewMetrics создаёт метрики в собственном реестре
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,

		AppointmentOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "appointment_operations_total",
			Help:      "Schedule operations by operation and outcome.",
		}, []string{"operation", "outcome"}),

		AppointmentsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "schedule",
			Name:      "appointments_stored",
			Help:      "Current number of appointments in the store.",
		}),

		SnapshotSaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "snapshot_save_duration_seconds",
			Help:      "Time to persist the full patient and appointment snapshot.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),

		SnapshotSaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "snapshot_save_failures_total",
			Help:      "Snapshot saves that failed.",
		}),
	}

	registry.MustRegister(
		m.AppointmentOperations,
		m.AppointmentsStored,
		m.SnapshotSaveDuration,
		m.SnapshotSaveFailures,
	)
	return m
}

// RecordOperation учитывает результат операции
func (m *Metrics) RecordOperation(operation, outcome string) {
	m.AppointmentOperations.WithLabelValues(operation, outcome).Inc()
}

// SetAppointmentsStored обновляет количество записей
func (m *Metrics) SetAppointmentsStored(count int) {
	m.AppointmentsStored.Set(float64(count))
}

// ObserveSnapshotSave учитывает сохранение снимка
func (m *Metrics) ObserveSnapshotSave(started time.Time, err error) {
	m.SnapshotSaveDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.SnapshotSaveFailures.Inc()
	}
}

// Handler HTTP обработчик /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve поднимает HTTP сервер метрик до отмены контекста
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
