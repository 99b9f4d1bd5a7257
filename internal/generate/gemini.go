package generate

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"intervue/internal/config"
	"intervue/internal/errors"
	"intervue/internal/retryx"
	"intervue/internal/types"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client *genai.Client
	config config.GenerationConfig
	retry  retryx.Policy
	logger *errors.Logger
}

// Ensure GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg config.GenerationConfig, logger *errors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIToken,
	})
	if err != nil {
		return nil, errors.NewGenerationError(errors.ErrCodeGenerationFailed,
			"Failed to create Gemini client", err)
	}

	retry := retryx.NewPolicy(cfg.MaxRetries, logger)
	retry.Retryable = isGeminiRetryableError

	return &GeminiProvider{
		client: client,
		config: cfg,
		retry:  retry,
		logger: logger,
	}, nil
}

// GenerateQuestion implements Provider
func (g *GeminiProvider) GenerateQuestion(ctx context.Context, role types.Role, questionNumber int, previousQuestions []string) (string, error) {
	tracer := otel.Tracer("intervue.generate.gemini")
	ctx, span := tracer.Start(ctx, "gemini.generate_question")
	defer span.End()

	span.SetAttributes(
		attribute.String("generation.provider", "gemini"),
		attribute.String("generation.model", g.config.Model),
		attribute.String("role.id", role.ID),
		attribute.Int("question.number", questionNumber),
	)

	prompt := buildQuestionPrompt(role, questionNumber, previousQuestions)
	genaiConfig := &genai.GenerateContentConfig{}
	if g.config.Temperature > 0 {
		temperature := g.config.Temperature
		genaiConfig.Temperature = &temperature
	}

	result, err := retryx.DoValue(ctx, g.retry, "generate_question",
		func(ctx context.Context) (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
		})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", errors.NewGenerationError(errors.ErrCodeGenerationFailed,
			fmt.Sprintf("Failed to generate question %d for %s", questionNumber, role.Title), err)
	}

	question := extractQuestion(result.Text())
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(question)),
	)
	return question, nil
}

// isGeminiRetryableError determines if an error should trigger a retry
func isGeminiRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.config.Model,
				"error", err.Error())
		}
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	return modelInfo
}

// Close implements Provider
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't expose a Close method in single-shot usage
	return nil
}
