package redact

import (
	"encoding/json"
	"log/slog"

	"github.com/user/threat-monitor/internal/domain"
)

const RedactedPlaceholder = "[REDACTED]"

// Redactor scrubs sensitive fields from event metadata before the event is
// stored or embedded in a classification prompt.
type Redactor struct {
	fieldsToRedact map[string]struct{}
	logger         *slog.Logger
}

// NewRedactor creates a Redactor for the given set of metadata field names.
func NewRedactor(fields []string, logger *slog.Logger) *Redactor {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field != "" {
			fieldSet[field] = struct{}{}
		}
	}
	return &Redactor{
		fieldsToRedact: fieldSet,
		logger:         logger,
	}
}

// Redact replaces configured metadata fields in place. It returns an error
// if the metadata is not a JSON object; callers treat that as non-fatal and
// keep the event as-is.
func (r *Redactor) Redact(event *domain.SecurityEvent) error {
	if len(r.fieldsToRedact) == 0 || len(event.Metadata) == 0 {
		return nil
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(event.Metadata, &metadata); err != nil {
		r.logger.Warn("failed to unmarshal metadata for redaction", "error", err, "event_id", event.ID)
		return err
	}

	redacted := false
	for field := range r.fieldsToRedact {
		if _, ok := metadata[field]; ok {
			metadata[field] = RedactedPlaceholder
			redacted = true
		}
	}

	if redacted {
		modified, err := json.Marshal(metadata)
		if err != nil {
			r.logger.Error("failed to marshal metadata after redaction", "error", err, "event_id", event.ID)
			return err
		}
		event.Metadata = modified
	}

	return nil
}
