package domain

import "strings"

// ThreatLevel is the ordered threat assessment of an event:
// safe < suspicious < dangerous < critical.
type ThreatLevel string

const (
	ThreatSafe       ThreatLevel = "safe"
	ThreatSuspicious ThreatLevel = "suspicious"
	ThreatDangerous  ThreatLevel = "dangerous"
	ThreatCritical   ThreatLevel = "critical"
)

// ActionTaken is the response tier derived from a threat level.
type ActionTaken string

const (
	ActionNone      ActionTaken = "none"
	ActionBlocked   ActionTaken = "blocked"
	ActionFlagged   ActionTaken = "flagged"
	ActionEscalated ActionTaken = "escalated"
)

// SecurityAlert is the classified outcome of evaluating one event.
// EventID is a lookup key back to the originating event, not an ownership
// relation. Alerts are immutable once stored.
type SecurityAlert struct {
	ID               string      `json:"id"`
	EventID          string      `json:"event_id"`
	Timestamp        int64       `json:"timestamp"` // milliseconds since epoch
	ThreatLevel      ThreatLevel `json:"threat_level"`
	AIRecommendation string      `json:"ai_recommendation"`
	ActionTaken      ActionTaken `json:"action_taken"`
}

// ParseThreatLevel maps a token (case-insensitive) to a threat level.
func ParseThreatLevel(s string) (ThreatLevel, bool) {
	switch ThreatLevel(strings.ToLower(s)) {
	case ThreatSafe:
		return ThreatSafe, true
	case ThreatSuspicious:
		return ThreatSuspicious, true
	case ThreatDangerous:
		return ThreatDangerous, true
	case ThreatCritical:
		return ThreatCritical, true
	}
	return "", false
}

// ActionForThreat derives the action taken from a threat level. It is the
// only way an alert's action is ever set.
func ActionForThreat(level ThreatLevel) ActionTaken {
	switch level {
	case ThreatCritical:
		return ActionEscalated
	case ThreatDangerous:
		return ActionFlagged
	default:
		return ActionNone
	}
}

// ThreatScore maps a threat level to its ordinal for averaging.
// Unknown levels score zero.
func ThreatScore(level ThreatLevel) int {
	switch level {
	case ThreatSuspicious:
		return 1
	case ThreatDangerous:
		return 2
	case ThreatCritical:
		return 3
	default:
		return 0
	}
}
