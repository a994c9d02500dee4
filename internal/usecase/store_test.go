package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/user/threat-monitor/internal/domain"
	"github.com/user/threat-monitor/internal/domain/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func alertAt(id string, level domain.ThreatLevel, ts int64) domain.SecurityAlert {
	return domain.SecurityAlert{
		ID:          id,
		EventID:     "event_" + id,
		Timestamp:   ts,
		ThreatLevel: level,
		ActionTaken: domain.ActionForThreat(level),
	}
}

func TestEventStoreInitialize(t *testing.T) {
	t.Run("Empty Backend", func(t *testing.T) {
		store := NewEventStore(&mocks.MockSnapshotStore{}, testLogger())
		if err := store.Initialize(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.Stats(time.Now()); got.TotalEvents != 0 || got.TotalAlerts != 0 {
			t.Errorf("expected empty store, got %+v", got)
		}
	})

	t.Run("Loads Persisted Snapshots", func(t *testing.T) {
		events := []domain.SecurityEvent{{ID: "event_1", Type: domain.EventAPICall}}
		alerts := []domain.SecurityAlert{alertAt("1", domain.ThreatCritical, time.Now().UnixMilli())}
		eventsPayload, _ := json.Marshal(events)
		alertsPayload, _ := json.Marshal(alerts)

		snapshots := &mocks.MockSnapshotStore{Snapshots: map[string][]byte{
			domain.SnapshotKeyEvents: eventsPayload,
			domain.SnapshotKeyAlerts: alertsPayload,
		}}
		store := NewEventStore(snapshots, testLogger())

		if err := store.Initialize(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		stats := store.Stats(time.Now())
		if stats.TotalEvents != 1 || stats.TotalAlerts != 1 {
			t.Errorf("expected 1 event and 1 alert, got %+v", stats)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		store := NewEventStore(&mocks.MockSnapshotStore{}, testLogger())
		if err := store.Initialize(context.Background()); err != nil {
			t.Fatalf("first initialize: %v", err)
		}
		store.AppendEvent(domain.SecurityEvent{ID: "event_1"})
		if err := store.Initialize(context.Background()); err != nil {
			t.Fatalf("second initialize: %v", err)
		}
		// A second call must not reload and wipe in-memory state.
		if got := store.Stats(time.Now()).TotalEvents; got != 1 {
			t.Errorf("expected 1 event after re-initialize, got %d", got)
		}
	})

	t.Run("Backend Read Failure", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotStore{GetErr: errors.New("connection refused")}
		store := NewEventStore(snapshots, testLogger())

		err := store.Initialize(context.Background())
		var storageErr *domain.StorageError
		if !errors.As(err, &storageErr) {
			t.Fatalf("expected *domain.StorageError, got %v", err)
		}
	})

	t.Run("Corrupt Snapshot", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotStore{Snapshots: map[string][]byte{
			domain.SnapshotKeyEvents: []byte(`{not json`),
		}}
		store := NewEventStore(snapshots, testLogger())

		err := store.Initialize(context.Background())
		var storageErr *domain.StorageError
		if !errors.As(err, &storageErr) {
			t.Fatalf("expected *domain.StorageError, got %v", err)
		}
	})
}

func TestEventStorePersist(t *testing.T) {
	t.Run("Writes Both Snapshots", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotStore{}
		store := NewEventStore(snapshots, testLogger())

		store.AppendEvent(domain.SecurityEvent{ID: "event_1", Type: domain.EventLoginAttempt})
		store.AppendAlert(alertAt("1", domain.ThreatSafe, 42))

		if err := store.Persist(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var events []domain.SecurityEvent
		if err := json.Unmarshal(snapshots.Snapshots[domain.SnapshotKeyEvents], &events); err != nil {
			t.Fatalf("events snapshot is not valid JSON: %v", err)
		}
		if len(events) != 1 || events[0].ID != "event_1" {
			t.Errorf("unexpected events snapshot: %+v", events)
		}

		var alerts []domain.SecurityAlert
		if err := json.Unmarshal(snapshots.Snapshots[domain.SnapshotKeyAlerts], &alerts); err != nil {
			t.Fatalf("alerts snapshot is not valid JSON: %v", err)
		}
		if len(alerts) != 1 || alerts[0].ID != "1" {
			t.Errorf("unexpected alerts snapshot: %+v", alerts)
		}
	})

	t.Run("Backend Write Failure", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotStore{PutErr: errors.New("write rejected")}
		store := NewEventStore(snapshots, testLogger())

		err := store.Persist(context.Background())
		var storageErr *domain.StorageError
		if !errors.As(err, &storageErr) {
			t.Fatalf("expected *domain.StorageError, got %v", err)
		}
	})

	t.Run("Action Round Trip", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotStore{}
		store := NewEventStore(snapshots, testLogger())
		for _, level := range []domain.ThreatLevel{domain.ThreatSafe, domain.ThreatSuspicious, domain.ThreatDangerous, domain.ThreatCritical} {
			store.AppendAlert(alertAt(string(level), level, 1))
		}
		if err := store.Persist(context.Background()); err != nil {
			t.Fatalf("persist: %v", err)
		}

		reloaded := NewEventStore(snapshots, testLogger())
		if err := reloaded.Initialize(context.Background()); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		for _, alert := range reloaded.RecentAlerts(10) {
			if alert.ActionTaken != domain.ActionForThreat(alert.ThreatLevel) {
				t.Errorf("alert %q: action %q does not re-derive from level %q", alert.ID, alert.ActionTaken, alert.ThreatLevel)
			}
		}
	})
}

func TestEventStoreRecentAlerts(t *testing.T) {
	store := NewEventStore(&mocks.MockSnapshotStore{}, testLogger())
	for i := 1; i <= 5; i++ {
		store.AppendAlert(alertAt(string(rune('0'+i)), domain.ThreatSafe, int64(i)))
	}

	t.Run("Most Recent First", func(t *testing.T) {
		got := store.RecentAlerts(3)
		if len(got) != 3 {
			t.Fatalf("expected 3 alerts, got %d", len(got))
		}
		if got[0].Timestamp != 5 || got[1].Timestamp != 4 || got[2].Timestamp != 3 {
			t.Errorf("wrong order: %v, %v, %v", got[0].Timestamp, got[1].Timestamp, got[2].Timestamp)
		}
	})

	t.Run("Limit Beyond Count", func(t *testing.T) {
		got := store.RecentAlerts(50)
		if len(got) != 5 {
			t.Fatalf("expected all 5 alerts, got %d", len(got))
		}
		for i, alert := range got {
			if want := int64(5 - i); alert.Timestamp != want {
				t.Errorf("alert %d: timestamp %d, want %d", i, alert.Timestamp, want)
			}
		}
	})

	t.Run("Zero And Negative Limits", func(t *testing.T) {
		if got := store.RecentAlerts(0); len(got) != 0 {
			t.Errorf("limit 0: expected empty, got %d alerts", len(got))
		}
		if got := store.RecentAlerts(-3); len(got) != 0 {
			t.Errorf("negative limit: expected empty, got %d alerts", len(got))
		}
	})
}

func TestEventStoreStats(t *testing.T) {
	now := time.Now()

	t.Run("24h Window", func(t *testing.T) {
		store := NewEventStore(&mocks.MockSnapshotStore{}, testLogger())
		store.AppendAlert(alertAt("a", domain.ThreatCritical, now.UnixMilli()))
		store.AppendAlert(alertAt("b", domain.ThreatCritical, now.Add(-25*time.Hour).UnixMilli()))
		store.AppendAlert(alertAt("c", domain.ThreatDangerous, now.Add(-1*time.Hour).UnixMilli()))

		stats := store.Stats(now)
		if stats.TotalAlerts != 3 {
			t.Errorf("total_alerts = %d, want 3", stats.TotalAlerts)
		}
		if stats.Alerts24h != 2 {
			t.Errorf("alerts_24h = %d, want 2", stats.Alerts24h)
		}
		if stats.CriticalThreats != 1 {
			t.Errorf("critical_threats = %d, want 1", stats.CriticalThreats)
		}
		if stats.DangerousThreats != 1 {
			t.Errorf("dangerous_threats = %d, want 1", stats.DangerousThreats)
		}
	})

	t.Run("Average Buckets", func(t *testing.T) {
		tests := []struct {
			name   string
			levels []domain.ThreatLevel
			want   string
		}{
			{"No Alerts", nil, "safe"},
			{"All Safe", []domain.ThreatLevel{domain.ThreatSafe, domain.ThreatSafe}, "safe"},
			{"All Critical", []domain.ThreatLevel{domain.ThreatCritical, domain.ThreatCritical}, "critical"},
			// Mean exactly 1.5 lands in the next bucket up.
			{"Boundary At 1.5", []domain.ThreatLevel{domain.ThreatSafe, domain.ThreatSafe, domain.ThreatCritical, domain.ThreatCritical}, "dangerous"},
			{"Mostly Suspicious", []domain.ThreatLevel{domain.ThreatSuspicious, domain.ThreatSuspicious, domain.ThreatSafe}, "suspicious"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := NewEventStore(&mocks.MockSnapshotStore{}, testLogger())
				for i, level := range tt.levels {
					store.AppendAlert(alertAt(string(rune('a'+i)), level, now.UnixMilli()))
				}
				if got := store.Stats(now).AvgThreatLevel; got != tt.want {
					t.Errorf("avg_threat_level = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("Average Covers All Alerts Not Just 24h", func(t *testing.T) {
		store := NewEventStore(&mocks.MockSnapshotStore{}, testLogger())
		store.AppendAlert(alertAt("old", domain.ThreatCritical, now.Add(-48*time.Hour).UnixMilli()))
		store.AppendAlert(alertAt("new", domain.ThreatCritical, now.UnixMilli()))

		stats := store.Stats(now)
		if stats.Alerts24h != 1 {
			t.Errorf("alerts_24h = %d, want 1", stats.Alerts24h)
		}
		if stats.AvgThreatLevel != "critical" {
			t.Errorf("avg_threat_level = %q, want %q (old alerts count toward the mean)", stats.AvgThreatLevel, "critical")
		}
	})
}
