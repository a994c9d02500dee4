package domain

import (
	"errors"
	"testing"
)

func TestSecurityEventValidate(t *testing.T) {
	valid := SecurityEvent{
		Type:        EventLoginAttempt,
		Severity:    SeverityHigh,
		Source:      "203.0.113.1",
		Description: "10 failed logins in 5 minutes",
	}

	t.Run("Valid Event", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	tests := []struct {
		name      string
		mutate    func(e *SecurityEvent)
		wantField string
	}{
		{"Missing Type", func(e *SecurityEvent) { e.Type = "" }, "type"},
		{"Unknown Type", func(e *SecurityEvent) { e.Type = "port_scan" }, "type"},
		{"Missing Severity", func(e *SecurityEvent) { e.Severity = "" }, "severity"},
		{"Unknown Severity", func(e *SecurityEvent) { e.Severity = "extreme" }, "severity"},
		{"Missing Source", func(e *SecurityEvent) { e.Source = "" }, "source"},
		{"Missing Description", func(e *SecurityEvent) { e.Description = "" }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := valid
			tt.mutate(&event)

			err := event.Validate()
			if err == nil {
				t.Fatal("expected a validation error, got nil")
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("error field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}
}
