package server

import (
	"time"

	"intervue/internal/config"
	intervueErrors "intervue/internal/errors"
	"intervue/internal/interview"
	"intervue/internal/types"
)

// CreateSessionRequest represents the request body for POST /sessions
type CreateSessionRequest struct {
	RoleID        string `json:"roleId"`
	CandidateName string `json:"candidateName,omitempty"`
}

// StartSessionRequest represents the request body for POST /sessions/{id}/start
type StartSessionRequest struct {
	QuestionCount int `json:"questionCount,omitempty"`
}

// AnswerRequest represents the request body for POST /sessions/{id}/answers.
// QuestionIndex defaults to the session's current question when omitted.
type AnswerRequest struct {
	QuestionIndex   *int    `json:"questionIndex,omitempty"`
	Answer          string  `json:"answer"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// SessionResponse represents the session state returned by session endpoints
type SessionResponse struct {
	SessionID     string   `json:"sessionId"`
	Stage         string   `json:"stage"`
	RoleID        string   `json:"roleId,omitempty"`
	RoleTitle     string   `json:"roleTitle,omitempty"`
	CandidateName string   `json:"candidateName,omitempty"`
	Introduction  string   `json:"introduction,omitempty"`
	Questions     []string `json:"questions,omitempty"`
	CurrentIndex  int      `json:"currentIndex"`
	CurrentText   string   `json:"currentQuestion,omitempty"`
	TotalCount    int      `json:"totalQuestions"`
	AnsweredCount int      `json:"answeredQuestions"`
	Model         string   `json:"aiModel,omitempty"`
}

// CompleteResponse represents the response for POST /sessions/{id}/complete
type CompleteResponse struct {
	Report     types.Report `json:"report"`
	ReportPath string       `json:"reportPath,omitempty"`
	SaveError  string       `json:"saveError,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Interview orchestration
	Runner   *interview.Runner
	sessions *sessionRegistry

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *intervueErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, runner *interview.Runner, logger *intervueErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Runner:         runner,
		sessions:       newSessionRegistry(),
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
