package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/threat-monitor/internal/domain"
	"github.com/user/threat-monitor/internal/usecase"
)

// MonitorService is the slice of the orchestrator the HTTP layer needs.
type MonitorService interface {
	LogEvent(ctx context.Context, raw domain.SecurityEvent) (domain.SecurityAlert, error)
	GetRecentAlerts(ctx context.Context, limit int) ([]domain.SecurityAlert, error)
	GetStats(ctx context.Context) (domain.Stats, error)
}

// SecurityHandler exposes the monitor over HTTP. It holds no business
// logic: decode JSON in, call the core, encode JSON out.
type SecurityHandler struct {
	monitor      MonitorService
	logger       *slog.Logger
	maxEventSize int64
}

// NewSecurityHandler creates a SecurityHandler.
func NewSecurityHandler(monitor MonitorService, logger *slog.Logger, maxEventSize int64) *SecurityHandler {
	return &SecurityHandler{
		monitor:      monitor,
		logger:       logger,
		maxEventSize: maxEventSize,
	}
}

// LogEvent handles POST /api/security/log.
func (h *SecurityHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxEventSize)

	var event domain.SecurityEvent
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&event); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "Payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Bad Request: failed to decode JSON", http.StatusBadRequest)
		return
	}

	alert, err := h.monitor.LogEvent(r.Context(), event)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, alert)
}

// RecentAlerts handles GET /api/security/alerts.
func (h *SecurityHandler) RecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := usecase.DefaultAlertLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Bad Request: limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	alerts, err := h.monitor.GetRecentAlerts(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if alerts == nil {
		alerts = []domain.SecurityAlert{}
	}

	h.writeJSON(w, http.StatusOK, alerts)
}

// Stats handles GET /api/security/stats.
func (h *SecurityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.monitor.GetStats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// writeError maps the three core error kinds onto HTTP statuses, so
// clients can distinguish "event rejected", "analysis failed" and
// "storage unavailable".
func (h *SecurityHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var storageErr *domain.StorageError
	var classificationErr *domain.ClassificationError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, "Bad Request: "+validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &classificationErr):
		h.logger.Error("classification failed", "error", err)
		http.Error(w, "Bad Gateway: event recorded, threat analysis failed", http.StatusBadGateway)
	case errors.As(err, &storageErr):
		h.logger.Error("storage failure", "error", err)
		http.Error(w, "Service Unavailable: storage failure", http.StatusServiceUnavailable)
	default:
		h.logger.Error("unexpected error", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *SecurityHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
