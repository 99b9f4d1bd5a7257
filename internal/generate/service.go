// Package generate produces interview introductions and questions,
// with a static fallback bank behind the configured backend.
package generate

import (
	"context"
	"fmt"
	"strings"

	"intervue/internal/config"
	"intervue/internal/errors"
	"intervue/internal/types"
)

// minQuestionLength is the shortest generated question the service
// accepts before switching to the fallback bank.
const minQuestionLength = 10

// Service handles interview content generation
type Service struct {
	Provider Provider // Exported for access from server package
	fallback *FallbackBank
	breaker  *QuestionCircuitBreaker
	config   config.GenerationConfig
	logger   *errors.Logger
}

// NewService creates a generation service for the configured provider
func NewService(cfg config.GenerationConfig, logger *errors.Logger) (*Service, error) {
	var provider Provider
	var err error

	logger.Debug("Initializing generation service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	switch cfg.Provider {
	case "huggingface":
		provider = NewHuggingFaceProvider(cfg, logger)
	case "gemini":
		provider, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported generation provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewGenerationError(errors.ErrCodeGenerationFailed,
			"Failed to create generation provider", err)
	}

	return &Service{
		Provider: provider,
		fallback: NewFallbackBank(),
		breaker:  NewQuestionCircuitBreaker("generation", cfg.CircuitBreaker, logger),
		config:   cfg,
		logger:   logger,
	}, nil
}

// Introduction returns the interview opening for a role. The text is
// assembled locally, no backend call is involved.
func (s *Service) Introduction(role types.Role, totalQuestions int) string {
	return fmt.Sprintf(`Hello and welcome to your %s interview!

I'm an AI interviewer designed to help evaluate your skills and experience for this position.
This interview will consist of %d questions tailored specifically to the %s role.

Please take your time with each response, speak clearly, and feel free to provide detailed examples
from your experience. Each question will be presented one at a time, and you'll have the opportunity
to record your audio response.

Let's begin when you're ready!`, role.Title, totalQuestions, role.Title)
}

// GenerateQuestion produces one question for the role. When the
// backend fails or returns unusable text, the fallback bank answers
// instead, so a question always comes back. The second return value
// reports whether the fallback was used.
func (s *Service) GenerateQuestion(ctx context.Context, role types.Role, questionNumber int, previousQuestions []string) (string, bool) {
	question, err := s.breaker.Execute(func() (string, error) {
		return s.Provider.GenerateQuestion(ctx, role, questionNumber, previousQuestions)
	})
	if err != nil {
		s.logger.Warn("Using fallback question due to generation error",
			"role", role.Title,
			"question_number", questionNumber,
			"error", err.Error())
		return s.fallback.Question(role, questionNumber), true
	}

	if len(strings.TrimSpace(question)) < minQuestionLength {
		s.logger.Warn("Generated question too short, using fallback",
			"role", role.Title,
			"question_number", questionNumber,
			"generated_length", len(question))
		return s.fallback.Question(role, questionNumber), true
	}

	return question, false
}

// Content is the full set of generated interview material for one role.
type Content struct {
	Introduction  string
	Questions     []string
	FallbackCount int
}

// GenerateInterviewContent produces the introduction and the full
// question list for an interview.
func (s *Service) GenerateInterviewContent(ctx context.Context, role types.Role, totalQuestions int) Content {
	introduction := s.Introduction(role, totalQuestions)

	questions := make([]string, 0, totalQuestions)
	fallbackCount := 0
	for i := 1; i <= totalQuestions; i++ {
		question, usedFallback := s.GenerateQuestion(ctx, role, i, questions)
		if usedFallback {
			fallbackCount++
		}
		questions = append(questions, question)
	}

	if fallbackCount > 0 {
		s.logger.Info("Interview content generated with fallback questions",
			"role", role.Title,
			"total_questions", totalQuestions,
			"fallback_questions", fallbackCount)
	}

	return Content{
		Introduction:  introduction,
		Questions:     questions,
		FallbackCount: fallbackCount,
	}
}

// GetModelInfo returns information about the generation model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (s *Service) GetCircuitBreakerStats() map[string]any {
	return s.breaker.GetStats()
}

// IsHealthy reports whether the generation path is accepting calls
func (s *Service) IsHealthy() bool {
	return s.breaker.IsHealthy()
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}
