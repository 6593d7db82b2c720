// Package chi exposes the recommender over HTTP: a JSON API and one HTML page.
package chi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dinerec/internal/domain/display"
	healthuc "github.com/kailas-cloud/dinerec/internal/usecase/health"
	"github.com/kailas-cloud/dinerec/internal/version"
)

// Options bounds list sizes and configures the API middleware.
type Options struct {
	DefaultLimit int
	MaxLimit     int
	Neighbors    int
	// RateLimitPerMin caps API requests per client IP; 0 disables it.
	RateLimitPerMin    int
	CORSAllowedOrigins []string
}

// Server serves the recommender API.
type Server struct {
	rec           Recommender
	health        HealthChecker
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server.
func NewServer(rec Recommender, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	return &Server{
		rec:           rec,
		health:        health,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})
	r.Get("/", s.Page)
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.apiMiddlewares()...)
		r.Get("/categories", s.ListCategories)
		r.Get("/price-levels", s.ListPriceLevels)
		r.Get("/recommendations", s.Recommend)
		r.Get("/restaurants/{id}", s.GetRestaurant)
		r.Get("/restaurants/{id}/similar", s.SimilarRestaurants)
	})
}

type listResponse struct {
	Items []string `json:"items"`
}

type recommendationsResponse struct {
	Items   []display.Record `json:"items"`
	Total   int              `json:"total"`
	Message string           `json:"message,omitempty"`
}

type similarItem struct {
	display.Record
	Distance float64 `json:"distance"`
}

type similarResponse struct {
	Items []similarItem `json:"items"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Records int               `json:"records"`
	Skipped int               `json:"skipped"`
	Checks  map[string]string `json:"checks"`
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{Items: nonNil(s.rec.Categories())})
}

// ListPriceLevels handles GET /api/v1/price-levels.
func (s *Server) ListPriceLevels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{Items: nonNil(s.rec.PriceLevels())})
}

// Recommend handles GET /api/v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r.URL.Query(), s.opts, 0)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := display.FormatAll(s.rec.Recommend(r.Context(), &c))
	resp := recommendationsResponse{Items: items, Total: len(items)}
	if len(items) == 0 {
		resp.Message = display.NoMatchesMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRestaurant handles GET /api/v1/restaurants/{id}.
func (s *Server) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	rest, err := s.rec.Get(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, display.Format(&rest))
}

// SimilarRestaurants handles GET /api/v1/restaurants/{id}/similar.
func (s *Server) SimilarRestaurants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	k, err := intParam(r.URL.Query(), "k", s.opts.Neighbors)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if k > s.opts.MaxLimit {
		k = s.opts.MaxLimit
	}

	hits, err := s.rec.SimilarTo(id, k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]similarItem, len(hits))
	for i := range hits {
		items[i] = similarItem{Record: display.Format(&hits[i].Restaurant), Distance: hits[i].Distance}
	}
	writeJSON(w, http.StatusOK, similarResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Records: report.Records,
		Skipped: report.Skipped,
		Checks:  checks,
	})
}

func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid restaurant id %q", raw)
	}
	return id, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
