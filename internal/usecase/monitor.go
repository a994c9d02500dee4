package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/threat-monitor/internal/adapter/metrics"
	"github.com/user/threat-monitor/internal/adapter/redact"
	"github.com/user/threat-monitor/internal/domain"
)

// DefaultAlertLimit is applied at the HTTP boundary when no limit is given.
const DefaultAlertLimit = 10

// SecurityMonitor orchestrates the event-to-alert pipeline: it owns the
// EventStore, sequences the two persisted mutations of each logged event,
// and exposes the read operations.
//
// Mutations are serialized: one LogEvent pipeline is in flight at a time
// against the store, so the persisted snapshot never interleaves the
// append/persist steps of two calls. Reads go through the store's own lock
// and are not blocked by a suspended classification call.
type SecurityMonitor struct {
	store      *EventStore
	classifier *ThreatClassifier
	redactor   *redact.Redactor
	metrics    *metrics.MonitorMetrics
	logger     *slog.Logger

	classifyTimeout time.Duration

	mu sync.Mutex // serializes LogEvent pipelines
}

// NewSecurityMonitor wires the orchestrator. Metrics may be nil.
func NewSecurityMonitor(
	store *EventStore,
	classifier *ThreatClassifier,
	redactor *redact.Redactor,
	m *metrics.MonitorMetrics,
	classifyTimeout time.Duration,
	logger *slog.Logger,
) *SecurityMonitor {
	return &SecurityMonitor{
		store:           store,
		classifier:      classifier,
		redactor:        redactor,
		metrics:         m,
		classifyTimeout: classifyTimeout,
		logger:          logger.With("component", "security_monitor"),
	}
}

// LogEvent validates and records a raw event, classifies it, and records
// the resulting alert. Event-append and alert-append are two independent
// persisted mutations, not one transaction: a crash between them leaves an
// event with no alert, an accepted at-least-once semantic.
//
// A StorageError before classification aborts the pipeline; an event is
// never classified unpersisted. A ClassificationError leaves the event
// persisted with no alert. A StorageError on the alert persist still
// returns the alert alongside the error: an alert may be lost on crash,
// an event never is.
func (m *SecurityMonitor) LogEvent(ctx context.Context, raw domain.SecurityEvent) (domain.SecurityAlert, error) {
	if err := raw.Validate(); err != nil {
		return domain.SecurityAlert{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Initialize(ctx); err != nil {
		return domain.SecurityAlert{}, err
	}

	event := raw
	event.ID = "event_" + uuid.NewString()
	event.Timestamp = time.Now().UnixMilli()

	if m.redactor != nil {
		if err := m.redactor.Redact(&event); err != nil {
			// Non-fatal: the event is still logged with its original metadata.
			m.logger.Warn("metadata redaction failed, storing event as-is", "error", err, "event_id", event.ID)
		}
	}

	m.store.AppendEvent(event)
	if err := m.store.Persist(ctx); err != nil {
		if m.metrics != nil {
			m.metrics.PersistFailures.Inc()
		}
		m.logger.Error("failed to persist event", "error", err, "event_id", event.ID)
		return domain.SecurityAlert{}, err
	}

	if m.metrics != nil {
		m.metrics.EventsTotal.WithLabelValues(string(event.Type)).Inc()
	}

	cctx := ctx
	if m.classifyTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, m.classifyTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := m.classifier.Classify(cctx, event)
	if m.metrics != nil {
		m.metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if m.metrics != nil {
			m.metrics.ClassificationFailures.Inc()
		}
		m.logger.Error("classification failed, event remains logged without alert", "error", err, "event_id", event.ID)
		return domain.SecurityAlert{}, err
	}

	alert := domain.SecurityAlert{
		ID:               "alert_" + uuid.NewString(),
		EventID:          event.ID,
		Timestamp:        time.Now().UnixMilli(),
		ThreatLevel:      result.ThreatLevel,
		AIRecommendation: result.Recommendation,
		ActionTaken:      domain.ActionForThreat(result.ThreatLevel),
	}

	m.store.AppendAlert(alert)
	if m.metrics != nil {
		m.metrics.AlertsTotal.WithLabelValues(string(alert.ThreatLevel)).Inc()
	}

	if err := m.store.Persist(ctx); err != nil {
		if m.metrics != nil {
			m.metrics.PersistFailures.Inc()
		}
		// The alert exists in memory but not in storage. It is still
		// returned so the caller sees the classification outcome; the
		// storage error travels with it.
		m.logger.Error("failed to persist alert", "error", err, "alert_id", alert.ID, "event_id", event.ID)
		return alert, err
	}

	m.logger.Info("event classified",
		"event_id", event.ID,
		"alert_id", alert.ID,
		"threat_level", alert.ThreatLevel,
		"action_taken", alert.ActionTaken,
	)

	return alert, nil
}

// GetRecentAlerts returns the last limit alerts, most recent first.
func (m *SecurityMonitor) GetRecentAlerts(ctx context.Context, limit int) ([]domain.SecurityAlert, error) {
	if err := m.store.Initialize(ctx); err != nil {
		return nil, err
	}
	return m.store.RecentAlerts(limit), nil
}

// GetStats returns the aggregate statistics as of now.
func (m *SecurityMonitor) GetStats(ctx context.Context) (domain.Stats, error) {
	if err := m.store.Initialize(ctx); err != nil {
		return domain.Stats{}, err
	}
	return m.store.Stats(time.Now()), nil
}
