package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	intervueErrors "intervue/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// healthHandler provides a health check endpoint covering the
// generation backend and its circuit breaker
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "intervue",
		"version": s.Version,
	}

	generationStatus := s.checkGenerationHealth()
	response["generation"] = generationStatus

	response["circuit_breaker"] = map[string]any{
		"healthy": s.Runner.Generator().IsHealthy(),
		"stats":   s.Runner.Generator().GetCircuitBreakerStats(),
	}

	response["roles"] = map[string]any{
		"loaded": s.Runner.Catalog().Len(),
	}

	// An unreachable model reports degraded, not unhealthy: the
	// fallback bank keeps interviews available.
	overallHealthy := true
	if available, ok := generationStatus["available"].(bool); ok && !available {
		overallHealthy = false
	}
	if s.Runner.Catalog().Len() == 0 {
		overallHealthy = false
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkGenerationHealth checks the reachability of the generation backend
func (s *Server) checkGenerationHealth() map[string]any {
	// Use configurable health check timeout
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info := s.Runner.Generator().GetModelInfo(ctx)

	status := map[string]any{
		"model":     info.Name,
		"available": info.Available,
	}
	if info.Error != "" {
		status["error"] = info.Error
	}
	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "intervue",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"active_sessions":        s.sessions.count(),
		},
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSONResponse writes a JSON response with the given status code
func writeJSONResponse(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppError maps an application error to an HTTP response
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*intervueErrors.AppError)
	if !ok {
		writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case intervueErrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case intervueErrors.ErrCodeInvalidTransition, intervueErrors.ErrCodeReportExists:
		status = http.StatusConflict
	default:
		switch appErr.Type {
		case intervueErrors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case intervueErrors.ErrorTypeIO, intervueErrors.ErrorTypeConfig:
			status = http.StatusInternalServerError
		case intervueErrors.ErrorTypeGeneration, intervueErrors.ErrorTypeTranscription, intervueErrors.ErrorTypeNetwork:
			status = http.StatusBadGateway
		}
	}

	writeErrorResponse(w, appErr.Code, appErr.Message, status)
}
