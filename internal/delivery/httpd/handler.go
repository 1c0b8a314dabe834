package httpd

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/andinetd/assignment-helper/internal/service"
)

type Handler struct {
	authService     service.AuthService
	uploadService   service.UploadService
	analysisService service.AnalysisService
	sourceService   service.SourceService
	statsService    service.StatsService
	maxUploadSize   int64
	logger          zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	uploadService service.UploadService,
	analysisService service.AnalysisService,
	sourceService service.SourceService,
	statsService service.StatsService,
	maxUploadSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:     authService,
		uploadService:   uploadService,
		analysisService: analysisService,
		sourceService:   sourceService,
		statsService:    statsService,
		maxUploadSize:   maxUploadSize,
		logger:          logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	router.Get("/stats", h.GetStats)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	router.Route("/api/v1", func(api chi.Router) {
		api.Group(func(r chi.Router) {
			r.Use(h.Authenticate)
			r.Post("/upload", h.UploadAssignment)
			r.Get("/analysis/{job_id}", h.GetAnalysis)
			r.Get("/sources", h.SearchSources)
		})

		api.Post("/admin/ingest", h.IngestSources)
	})
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}
