// Package httpadapter exposes the statute search and complaint intake
// surfaces over HTTP.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/fir-intake/internal/config"
	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
	"github.com/kirillkom/fir-intake/internal/observability/metrics"
)

const serviceName = "fir-intake-api"

type Router struct {
	cfg      config.Config
	searcher ports.StatuteSearcher
	intake   ports.ComplaintIntake
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	searcher ports.StatuteSearcher,
	intake ports.ComplaintIntake,
	m *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		searcher: searcher,
		intake:   intake,
		metrics:  m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/readyz", rt.readyz)
	mux.HandleFunc("/v1/statutes/search", rt.searchStatutes)
	mux.HandleFunc("/v1/complaints", rt.complaintsCollection)
	mux.HandleFunc("/v1/complaints/", rt.complaintByID)
	mux.HandleFunc("/v1/notifications", rt.listNotifications)
	mux.HandleFunc("/v1/notifications/", rt.markNotificationRead)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = authMiddleware(handler, rt.cfg.APIKey)
	if rt.cfg.APIMaxConcurrent > 0 {
		waitTimeout := time.Duration(rt.cfg.APIQueueWaitMS) * time.Millisecond
		handler = backpressureMiddleware(handler, rt.cfg.APIMaxConcurrent, waitTimeout)
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz reports 503 until a corpus pairing has been loaded, so fresh
// instances stay out of rotation while the artifact is missing.
func (rt *Router) readyz(w http.ResponseWriter, _ *http.Request) {
	if !rt.searcher.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"reason": "statute corpus not loaded",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ready",
		"corpus_size": rt.searcher.CorpusSize(),
	})
}

func (rt *Router) searchStatutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Narrative string `json:"narrative"`
		TopK      int    `json:"top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	results, err := rt.searcher.Search(r.Context(), req.Narrative, req.TopK)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordSearchError(serviceName, searchErrorOutcome(err))
		}
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		degraded := len(results) == 0 && rt.searcher.CorpusSize() > 0
		rt.metrics.RecordSearch(serviceName, len(results), degraded, time.Since(start))
	}

	if results == nil {
		results = []domain.RankedResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (rt *Router) complaintsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitComplaint(w, r)
	case http.MethodGet:
		rt.listComplaints(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) submitComplaint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"user_id"`
		Narrative    string `json:"narrative"`
		Language     string `json:"language"`
		IncidentDate string `json:"incident_date"`
		IncidentTime string `json:"incident_time"`
		Location     string `json:"location"`
		StationID    string `json:"station_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	complaint, err := rt.intake.Submit(r.Context(), &domain.Complaint{
		UserID:       req.UserID,
		Narrative:    req.Narrative,
		Language:     req.Language,
		IncidentDate: req.IncidentDate,
		IncidentTime: req.IncidentTime,
		Location:     req.Location,
		StationID:    req.StationID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, complaint)
}

func (rt *Router) listComplaints(w http.ResponseWriter, r *http.Request) {
	if stationID, pending := pendingFilter(r); pending {
		complaints, err := rt.intake.ListPending(r.Context(), stationID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeComplaintList(w, complaints)
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id query parameter is required"})
		return
	}
	complaints, err := rt.intake.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeComplaintList(w, complaints)
}

func pendingFilter(r *http.Request) (string, bool) {
	if r.URL.Query().Get("pending") != "true" {
		return "", false
	}
	return strings.TrimSpace(r.URL.Query().Get("station_id")), true
}

func (rt *Router) complaintByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/complaints/")
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "complaint id is required"})
		return
	}

	if id, ok := strings.CutSuffix(rest, "/status"); ok {
		rt.updateComplaintStatus(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	complaint, err := rt.intake.GetByID(r.Context(), rest)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

func (rt *Router) updateComplaintStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Status          string   `json:"status"`
		OfficerNotes    string   `json:"officer_notes"`
		AppliedSections []string `json:"applied_sections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	next, ok := domain.ParseComplaintStatus(req.Status)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status: " + req.Status})
		return
	}

	if err := rt.intake.UpdateStatus(r.Context(), id, next, req.OfficerNotes, req.AppliedSections); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(next)})
}

func (rt *Router) listNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id query parameter is required"})
		return
	}
	items, err := rt.intake.Notifications(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

func (rt *Router) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/notifications/")
	id, ok := strings.CutSuffix(rest, "/read")
	if !ok || id == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	if err := rt.intake.MarkNotificationRead(r.Context(), id, req.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func writeComplaintList(w http.ResponseWriter, complaints []domain.Complaint) {
	if complaints == nil {
		complaints = []domain.Complaint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"complaints": complaints})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
