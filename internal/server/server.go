// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/motionscope/internal/model"
	"github.com/ppiankov/motionscope/internal/taxonomy"
)

// AnalysisService is the pipeline surface the HTTP layer depends on
type AnalysisService interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisResult, error)
	HealthCheck(ctx context.Context) error
	Provider() string
}

// Server handles the Motionscope HTTP API
type Server struct {
	service AnalysisService
	logger  *zap.Logger
}

// NewServer builds the API handler around a pipeline
func NewServer(service AnalysisService, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{service: service, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/argument-categories", s.handleCategories)
	mux.HandleFunc("/api/v1/analysis-stats", s.handleStats)
	mux.HandleFunc("/api/v1/analyze-motion", s.handleAnalyzeMotion)
	return s.withRequestID(mux)
}

// withRequestID tags every response with an X-Request-ID for log correlation
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeAnalysisError maps the pipeline's error taxonomy onto HTTP status
// codes. Validation problems are the caller's fault, classification failures
// mean the request cannot be honored as configured, and extraction or
// timeout failures point upstream.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var (
		validationErr     *model.ValidationError
		classificationErr *model.ClassificationError
		extractionErr     *model.ExtractionError
		timeoutErr        *model.TimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Error()})
	case errors.As(err, &classificationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": classificationErr.Error()})
	case errors.As(err, &extractionErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": extractionErr.Error()})
	case errors.As(err, &timeoutErr):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": timeoutErr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	if err := s.service.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"provider": s.service.Provider(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	predefined := taxonomy.Predefined()
	categories := make([]map[string]string, 0, len(predefined))
	for _, c := range predefined {
		categories = append(categories, map[string]string{
			"key":          c.Key,
			"display_name": c.DisplayName,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":       categories,
		"total_categories": len(categories),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":  "motion-analysis",
		"provider": s.service.Provider(),
		"capabilities": []string{
			"argument_extraction",
			"argument_classification",
			"custom_category_creation",
			"strategic_grouping",
			"strength_assessment",
			"citation_extraction",
			"response_structure_recommendation",
		},
	})
}

func (s *Server) handleAnalyzeMotion(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodPost) {
		return
	}

	start := time.Now()
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		writeAnalysisError(w, &model.ValidationError{Msg: "reading request body: " + err.Error()})
		return
	}

	var req model.AnalysisRequest
	if err := json.Unmarshal(blob, &req); err != nil {
		writeAnalysisError(w, &model.ValidationError{Msg: "invalid JSON body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.MotionText) == "" {
		writeAnalysisError(w, &model.ValidationError{Msg: "motion_text is required"})
		return
	}

	result, err := s.service.Analyze(r.Context(), req)
	if err != nil {
		s.logger.Warn("analysis failed",
			zap.String("request_id", w.Header().Get("X-Request-ID")),
			zap.Error(err))
		writeAnalysisError(w, err)
		return
	}

	s.logger.Info("analysis served",
		zap.String("request_id", w.Header().Get("X-Request-ID")),
		zap.Int("arguments", result.TotalArgumentsFound),
		zap.Duration("elapsed", time.Since(start)))
	writeJSON(w, http.StatusOK, result)
}
