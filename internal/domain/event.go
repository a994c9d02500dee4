package domain

import (
	"encoding/json"
)

// EventType categorizes the kind of activity a security event describes.
type EventType string

const (
	EventLoginAttempt EventType = "login_attempt"
	EventAPICall      EventType = "api_call"
	EventDataAccess   EventType = "data_access"
	EventConfigChange EventType = "config_change"
	EventUnknown      EventType = "unknown"
)

// Severity is the caller-supplied severity of a reported event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SecurityEvent represents a reported occurrence requiring security evaluation.
// ID and Timestamp are assigned by the monitor at creation; events are
// immutable once stored.
type SecurityEvent struct {
	ID          string          `json:"id"`
	Timestamp   int64           `json:"timestamp"` // milliseconds since epoch
	Type        EventType       `json:"type"`
	Severity    Severity        `json:"severity"`
	Source      string          `json:"source"` // IP or user identifier
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// ValidEventType reports whether s is one of the known event types.
func ValidEventType(s EventType) bool {
	switch s {
	case EventLoginAttempt, EventAPICall, EventDataAccess, EventConfigChange, EventUnknown:
		return true
	}
	return false
}

// ValidSeverity reports whether s is one of the known severities.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Validate checks the caller-supplied fields of an event submission.
// It must pass before the event enters the store; a failure means no
// mutation has happened yet.
func (e *SecurityEvent) Validate() error {
	if e.Type == "" {
		return &ValidationError{Field: "type", Reason: "required"}
	}
	if !ValidEventType(e.Type) {
		return &ValidationError{Field: "type", Reason: "must be one of login_attempt, api_call, data_access, config_change, unknown"}
	}
	if e.Severity == "" {
		return &ValidationError{Field: "severity", Reason: "required"}
	}
	if !ValidSeverity(e.Severity) {
		return &ValidationError{Field: "severity", Reason: "must be one of low, medium, high, critical"}
	}
	if e.Source == "" {
		return &ValidationError{Field: "source", Reason: "required"}
	}
	if e.Description == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	return nil
}
