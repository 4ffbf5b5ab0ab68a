package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/projectpulse/pulse/internal/httpapi/middleware"
	"github.com/projectpulse/pulse/internal/repo"
)

type Server struct {
	Logger    *zap.Logger
	Services  repo.ServiceStore
	Incidents repo.IncidentStore
}

func NewServer(l *zap.Logger, ss repo.ServiceStore, is repo.IncidentStore) *Server {
	return &Server{Logger: l, Services: ss, Incidents: is}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(apimw.RateLimit(240, 60))
	r.Use(apimw.ResolveOwner)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/services", s.handleRegisterService)
	r.Delete("/services/{id}", s.handleDeleteService)
	r.Get("/dashboard/stats", s.handleDashboardStats)
	r.Get("/status/{ownerID}", s.handlePublicStatus)
	r.Post("/incidents/{id}/analyze", s.handleAnalyzeIncident)

	return r
}

// isValidHTTPURL accepts absolute http(s) URLs with a host.
func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// normalizeHealthPath ensures the path begins with a slash.
func normalizeHealthPath(p string) string {
	if p == "" {
		return "/health"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
