package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/user/threat-monitor/internal/domain"
)

// EventStore holds the canonical ordered sequences of events and alerts for
// one monitor instance. Both collections are append-only and are persisted
// as whole snapshots after every mutation; the in-memory state and the
// persisted snapshot converge once Persist returns.
type EventStore struct {
	snapshots domain.SnapshotStore
	logger    *slog.Logger

	mu          sync.RWMutex
	events      []domain.SecurityEvent
	alerts      []domain.SecurityAlert
	initialized bool
}

// NewEventStore creates an EventStore backed by the given snapshot store.
func NewEventStore(snapshots domain.SnapshotStore, logger *slog.Logger) *EventStore {
	return &EventStore{
		snapshots: snapshots,
		logger:    logger.With("component", "event_store"),
	}
}

// Initialize loads the persisted event and alert snapshots on first call;
// absent snapshots yield empty sequences. Subsequent calls are no-ops.
// Callers must not assume in-memory state reflects prior persisted writes
// until this has completed.
func (s *EventStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	events, err := loadSnapshot[domain.SecurityEvent](ctx, s.snapshots, domain.SnapshotKeyEvents)
	if err != nil {
		return err
	}
	alerts, err := loadSnapshot[domain.SecurityAlert](ctx, s.snapshots, domain.SnapshotKeyAlerts)
	if err != nil {
		return err
	}

	s.events = events
	s.alerts = alerts
	s.initialized = true

	s.logger.Info("store initialized", "events", len(s.events), "alerts", len(s.alerts))
	return nil
}

func loadSnapshot[T any](ctx context.Context, snapshots domain.SnapshotStore, key string) ([]T, error) {
	payload, ok, err := snapshots.Get(ctx, key)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: fmt.Errorf("get %q: %w", key, err)}
	}
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: fmt.Errorf("decode %q snapshot: %w", key, err)}
	}
	return items, nil
}

// AppendEvent inserts an event at the end of the event sequence. It does
// not persist; the caller follows up with Persist.
func (s *EventStore) AppendEvent(event domain.SecurityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// AppendAlert inserts an alert at the end of the alert sequence. It does
// not persist; the caller follows up with Persist.
func (s *EventStore) AppendAlert(alert domain.SecurityAlert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
}

// Persist writes the full event and alert sequences to the snapshot store,
// overwriting the prior snapshots. There are no partial writes: a crash
// between two persisted mutations loses at most the in-flight operation.
func (s *EventStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	events, eventsErr := json.Marshal(s.events)
	alerts, alertsErr := json.Marshal(s.alerts)
	s.mu.RUnlock()

	if eventsErr != nil {
		return &domain.StorageError{Op: "persist", Err: fmt.Errorf("encode events: %w", eventsErr)}
	}
	if alertsErr != nil {
		return &domain.StorageError{Op: "persist", Err: fmt.Errorf("encode alerts: %w", alertsErr)}
	}

	if err := s.snapshots.Put(ctx, domain.SnapshotKeyEvents, events); err != nil {
		return &domain.StorageError{Op: "persist", Err: fmt.Errorf("put %q: %w", domain.SnapshotKeyEvents, err)}
	}
	if err := s.snapshots.Put(ctx, domain.SnapshotKeyAlerts, alerts); err != nil {
		return &domain.StorageError{Op: "persist", Err: fmt.Errorf("put %q: %w", domain.SnapshotKeyAlerts, err)}
	}
	return nil
}

// RecentAlerts returns the last limit alerts, most recent first. A limit
// of zero or below yields an empty result; a limit beyond the alert count
// yields all alerts.
func (s *EventStore) RecentAlerts(limit int) []domain.SecurityAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil
	}
	if limit > len(s.alerts) {
		limit = len(s.alerts)
	}

	recent := make([]domain.SecurityAlert, 0, limit)
	for i := len(s.alerts) - 1; i >= len(s.alerts)-limit; i-- {
		recent = append(recent, s.alerts[i])
	}
	return recent
}

// Stats computes the aggregate view as of now. The 24h counters cover
// alerts with timestamps inside the trailing 24 hours; the average threat
// label covers all alerts ever recorded.
func (s *EventStore) Stats(now time.Time) domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now.Add(-24*time.Hour).UnixMilli()

	var recent, critical, dangerous int
	for _, a := range s.alerts {
		if a.Timestamp <= cutoff {
			continue
		}
		recent++
		switch a.ThreatLevel {
		case domain.ThreatCritical:
			critical++
		case domain.ThreatDangerous:
			dangerous++
		}
	}

	return domain.Stats{
		TotalEvents:      len(s.events),
		TotalAlerts:      len(s.alerts),
		Alerts24h:        recent,
		CriticalThreats:  critical,
		DangerousThreats: dangerous,
		AvgThreatLevel:   s.averageThreatLocked(),
	}
}

// averageThreatLocked maps each alert's threat level to its ordinal,
// averages across all alerts, and buckets the mean back to a label. The
// thresholds are a compatibility contract: <0.5 safe, <1.5 suspicious,
// <2.5 dangerous, else critical. Zero alerts default to safe.
func (s *EventStore) averageThreatLocked() string {
	if len(s.alerts) == 0 {
		return string(domain.ThreatSafe)
	}

	sum := 0
	for _, a := range s.alerts {
		sum += domain.ThreatScore(a.ThreatLevel)
	}
	avg := float64(sum) / float64(len(s.alerts))

	switch {
	case avg < 0.5:
		return string(domain.ThreatSafe)
	case avg < 1.5:
		return string(domain.ThreatSuspicious)
	case avg < 2.5:
		return string(domain.ThreatDangerous)
	default:
		return string(domain.ThreatCritical)
	}
}
