package domain

// Stats is the aggregate view over the stored events and alerts.
// The 24h counters cover the trailing 24 hours from the time of the query;
// AvgThreatLevel is the bucketed mean over all alerts ever recorded.
type Stats struct {
	TotalEvents      int    `json:"total_events"`
	TotalAlerts      int    `json:"total_alerts"`
	Alerts24h        int    `json:"alerts_24h"`
	CriticalThreats  int    `json:"critical_threats"`
	DangerousThreats int    `json:"dangerous_threats"`
	AvgThreatLevel   string `json:"avg_threat_level"`
}
