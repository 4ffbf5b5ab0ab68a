package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/projectpulse/pulse/internal/analyze"
	"github.com/projectpulse/pulse/internal/domain"
	apimw "github.com/projectpulse/pulse/internal/httpapi/middleware"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type registerPayload struct {
	BaseURL       string `json:"base_url"`
	HealthPath    string `json:"health_path"`
	AlertEmail    string `json:"alert_email"`
	CheckInterval int    `json:"check_interval"`
}

func (s *Server) handleRegisterService(w http.ResponseWriter, r *http.Request) {
	var p registerPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if !isValidHTTPURL(p.BaseURL) {
		writeError(w, http.StatusBadRequest, "base_url must be an absolute http(s) URL")
		return
	}
	if p.CheckInterval == 0 {
		p.CheckInterval = 5
	}
	if p.CheckInterval < 1 {
		writeError(w, http.StatusBadRequest, "check_interval must be >= 1 minute")
		return
	}

	svc := &domain.Service{
		OwnerID:          apimw.OwnerID(r.Context()),
		BaseURL:          p.BaseURL,
		HealthPath:       normalizeHealthPath(p.HealthPath),
		CheckIntervalMin: p.CheckInterval,
		AlertEmail:       p.AlertEmail,
		Status:           domain.StatusUnknown,
	}
	if err := s.Services.Create(r.Context(), svc); err != nil {
		s.Logger.Error("register_service_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not register service")
		return
	}

	s.Logger.Info("service_registered",
		zap.String("id", string(svc.ID)),
		zap.String("base_url", svc.BaseURL),
	)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      string(svc.ID),
		"message": "Service registered successfully",
	})
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id := domain.ServiceID(chi.URLParam(r, "id"))

	svc, err := s.Services.Get(r.Context(), id)
	if err != nil {
		s.Logger.Error("delete_service_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if svc == nil {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	owner := apimw.OwnerID(r.Context())
	if owner == "" || svc.OwnerID != owner {
		writeError(w, http.StatusUnauthorized, "not the owner of this service")
		return
	}

	// cascades to the service's incidents
	if err := s.Services.Delete(r.Context(), id); err != nil {
		s.Logger.Error("delete_service_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}

	s.Logger.Info("service_deleted", zap.String("id", string(id)), zap.String("owner", owner))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Service deleted"})
}

const dashboardIncidentLimit = 50

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	svcs, err := s.Services.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	incs, err := s.Incidents.Recent(r.Context(), dashboardIncidentLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	if svcs == nil {
		svcs = []*domain.Service{}
	}
	if incs == nil {
		incs = []*domain.Incident{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"services":  svcs,
		"incidents": incs,
	})
}

type publicService struct {
	ID            domain.ServiceID `json:"id"`
	BaseURL       string           `json:"base_url"`
	Status        domain.Status    `json:"status"`
	LastCheckedAt *time.Time       `json:"last_checked_at"`
}

func (s *Server) handlePublicStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, "missing owner id")
		return
	}

	svcs, err := s.Services.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}

	out := make([]publicService, 0, len(svcs))
	var unhealthy, degraded int
	for _, svc := range svcs {
		switch svc.Status {
		case domain.StatusUnhealthy:
			unhealthy++
		case domain.StatusDegraded:
			degraded++
		}
		out = append(out, publicService{
			ID:            svc.ID,
			BaseURL:       svc.BaseURL,
			Status:        svc.Status,
			LastCheckedAt: svc.LastCheckedAt,
		})
	}

	overall := "operational"
	if unhealthy > 0 {
		overall = "outage"
	} else if degraded > 0 {
		overall = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"services": out,
		"summary":  map[string]string{"status": overall},
	})
}

func (s *Server) handleAnalyzeIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	inc, err := s.Incidents.Find(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if inc == nil {
		writeError(w, http.StatusNotFound, "incident not found")
		return
	}
	svc, err := s.Services.Get(r.Context(), inc.ServiceID)
	if err != nil || svc == nil {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}

	res := analyze.Suggest(inc, svc)
	if err := s.Incidents.AttachSuggestion(r.Context(), inc.ID, res.Suggestion); err != nil {
		// suggestion persistence is best-effort; still return the analysis
		s.Logger.Warn("attach_suggestion_error", zap.String("incident_id", inc.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, res)
}
