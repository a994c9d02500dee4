package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/user/threat-monitor/internal/domain"
)

// DefaultRecommendation is returned when the model output carries no
// recognizable ACTION line.
const DefaultRecommendation = "Manual review recommended"

var (
	threatLevelPattern = regexp.MustCompile(`(?i)THREAT_LEVEL:\s*(\w+)`)
	riskPattern        = regexp.MustCompile(`(?i)RISK:\s*([^\n]+)`)
	actionPattern      = regexp.MustCompile(`(?i)ACTION:\s*([^\n]+)`)
)

// ClassificationResult is the parsed threat assessment for one event.
type ClassificationResult struct {
	ThreatLevel    domain.ThreatLevel
	Recommendation string
}

// ThreatClassifier turns one security event into a threat assessment by
// prompting the completion service and parsing its free-text response.
// Malformed output degrades to cautious defaults rather than failing.
type ThreatClassifier struct {
	completer   domain.Completer
	temperature float64
	logger      *slog.Logger
}

// NewThreatClassifier creates a classifier bound to a completion service.
func NewThreatClassifier(completer domain.Completer, temperature float64, logger *slog.Logger) *ThreatClassifier {
	return &ThreatClassifier{
		completer:   completer,
		temperature: temperature,
		logger:      logger.With("component", "threat_classifier"),
	}
}

// Classify prompts the completion service with the event and parses the
// accumulated response. The stream is fully drained before parsing; a
// transport failure or empty output yields a ClassificationError. There is
// no retry.
func (c *ThreatClassifier) Classify(ctx context.Context, event domain.SecurityEvent) (ClassificationResult, error) {
	prompt := buildPrompt(event)

	stream, err := c.completer.Complete(ctx, prompt, c.temperature)
	if err != nil {
		return ClassificationResult{}, &domain.ClassificationError{Err: fmt.Errorf("completion call: %w", err)}
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ClassificationResult{}, &domain.ClassificationError{Err: fmt.Errorf("completion stream: %w", err)}
		}
		sb.WriteString(chunk)
	}

	analysis := sb.String()
	if strings.TrimSpace(analysis) == "" {
		return ClassificationResult{}, &domain.ClassificationError{Err: errors.New("completion returned empty output")}
	}

	return c.parse(event.ID, analysis), nil
}

// parse extracts the labeled lines from the model output. An absent or
// unrecognized threat level defaults to suspicious: fail toward caution,
// never toward ignoring the event.
func (c *ThreatClassifier) parse(eventID, analysis string) ClassificationResult {
	level := domain.ThreatSuspicious
	if m := threatLevelPattern.FindStringSubmatch(analysis); m != nil {
		if parsed, ok := domain.ParseThreatLevel(m[1]); ok {
			level = parsed
		} else {
			c.logger.Warn("unrecognized threat level in model output", "event_id", eventID, "token", m[1])
		}
	} else {
		c.logger.Warn("no threat level found in model output", "event_id", eventID)
	}

	recommendation := DefaultRecommendation
	if m := actionPattern.FindStringSubmatch(analysis); m != nil {
		recommendation = strings.TrimSpace(m[1])
	}

	// The RISK line exists for prompt structure; it is logged but not part
	// of the result.
	if m := riskPattern.FindStringSubmatch(analysis); m != nil {
		c.logger.Debug("risk assessment", "event_id", eventID, "risk", strings.TrimSpace(m[1]))
	}

	return ClassificationResult{ThreatLevel: level, Recommendation: recommendation}
}

// buildPrompt renders the deterministic analysis prompt for an event.
// Metadata is embedded as JSON, defaulting to an empty object.
func buildPrompt(event domain.SecurityEvent) string {
	metadata := "{}"
	if len(event.Metadata) > 0 {
		metadata = string(event.Metadata)
	}

	return fmt.Sprintf(`Analyze this security event and determine if it's a threat:

Event Type: %s
Source: %s
Description: %s
Severity: %s
Metadata: %s

Provide:
1. Threat Level: safe, suspicious, dangerous, or critical
2. Risk Assessment: Brief explanation
3. Recommended Action: What should be done

Response format:
THREAT_LEVEL: [level]
RISK: [explanation]
ACTION: [recommendation]`,
		event.Type, event.Source, event.Description, event.Severity, metadata)
}
