// Package metrics содержит счётчики Prometheus дашборда.
//
// Коллекторы регистрируются в собственном реестре, HTTP‑обработчик не
// поднимается: значения можно сбросить в текстовый файл для node_exporter
// через WriteTextfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы попытки входа.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomePendingApproval    = "pending_approval"
	OutcomeRateLimited        = "rate_limited"
	OutcomeError              = "error"
)

// Metrics объединяет счётчики и их реестр.
type Metrics struct {
	registry      *prometheus.Registry
	logins        *prometheus.CounterVec
	registrations prometheus.Counter
	storeWrites   *prometheus.CounterVec
}

// New создаёт счётчики в новом реестре.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "desk",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "desk",
			Name:      "registrations_total",
			Help:      "Successful student registrations.",
		}),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "desk",
			Name:      "store_writes_total",
			Help:      "Whole-collection writes by storage key.",
		}, []string{"collection"}),
	}
	m.registry.MustRegister(m.logins, m.registrations, m.storeWrites)
	return m
}

// Registry возвращает реестр с коллекторами.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LoginAttempt учитывает попытку входа с указанным исходом.
func (m *Metrics) LoginAttempt(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

// Registration учитывает успешную регистрацию.
func (m *Metrics) Registration() {
	m.registrations.Inc()
}

// StoreWrite учитывает запись коллекции. Подходит для repository.WithObserver.
func (m *Metrics) StoreWrite(key string) {
	m.storeWrites.WithLabelValues(key).Inc()
}

// WriteTextfile сохраняет текущие значения в формате textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	const op = "metrics.WriteTextfile"
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
