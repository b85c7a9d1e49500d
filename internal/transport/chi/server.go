// Package chi exposes the HTTP API: conversational search, restaurant
// lookup, similarity recommendations, preference management, health and
// metrics.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/domain/search/request"
	logpkg "github.com/seoulbites/matzip/internal/logger"
	healthuc "github.com/seoulbites/matzip/internal/usecase/health"
	"github.com/seoulbites/matzip/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the use case services behind the HTTP handlers.
type Server struct {
	searcher      ChatSearcher
	restaurants   RestaurantFinder
	recommender   SimilarFinder
	prefs         PreferenceStore
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	searcher ChatSearcher,
	restaurants RestaurantFinder,
	recommender SimilarFinder,
	prefs PreferenceStore,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		searcher:    searcher,
		restaurants: restaurants,
		recommender: recommender,
		prefs:       prefs,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRestaurantNotFound, http.StatusNotFound, codeRestaurantNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Register attaches all routes to the router. The caller owns middleware.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat/search", s.handleChatSearch)
		r.Route("/restaurants/{placeID}", func(r chi.Router) {
			r.Get("/", s.handleGetRestaurant)
			r.Get("/recommend", s.handleRecommend)
		})
		r.Route("/users/{userID}/preferences", func(r chi.Router) {
			r.Get("/", s.handleGetPreferences)
			r.Patch("/", s.handlePatchPreferences)
		})
	})
}

// handleChatSearch handles POST /v1/chat/search.
func (s *Server) handleChatSearch(w http.ResponseWriter, r *http.Request) {
	var body chatSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.NewSearch(
		body.UserID,
		body.Query,
		storedPreferencesFromWire(body.UserPreferences),
		body.TopN,
		body.TranslateTopN,
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	out, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchOutputToWire(out))
}

// handleGetRestaurant handles GET /v1/restaurants/{placeID}.
func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")

	doc, err := s.restaurants.Restaurant(r.Context(), placeID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, restaurantToWire(doc))
}

// handleRecommend handles GET /v1/restaurants/{placeID}/recommend.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
			return
		}
		limit = v
	}

	req, err := request.NewSimilar(placeID, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	matches, err := s.recommender.FindSimilar(r.Context(), req.PlaceID(), req.Limit())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, matchesToWire(placeID, matches))
}

// handleGetPreferences handles GET /v1/users/{userID}/preferences.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	prefs, err := s.prefs.Get(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preferencesToWire(userID, prefs))
}

// handlePatchPreferences handles PATCH /v1/users/{userID}/preferences.
// The body is a partial aspect map; named aspects are overwritten, the
// rest keep their stored values. A first PATCH creates the profile.
func (s *Server) handlePatchPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var body map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	update := storedPreferencesFromWire(body)
	if err := s.prefs.Upsert(r.Context(), userID, update); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	prefs, err := s.prefs.Get(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preferencesToWire(userID, prefs))
}

// handleRoot handles GET /. A cheap liveness probe that also names the
// running build.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Status:  "ok",
		Message: "matzip API is running",
		Version: version.Version,
	})
}

// handleHealth handles GET /healthz. Degraded still answers 200: search
// keeps serving on reduced signals, and the body carries the detail.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRestaurantNotFound,
		domain.ErrUserNotFound,
		domain.ErrInvalidArgument,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError logs through the request-scoped logger so the entry
// carries the request id the canonical-line middleware attached.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
