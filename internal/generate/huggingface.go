package generate

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"intervue/internal/config"
	"intervue/internal/errors"
	"intervue/internal/retryx"
	"intervue/internal/types"
)

// HuggingFaceProvider implements Provider against the Hugging Face
// inference API.
type HuggingFaceProvider struct {
	httpClient *http.Client
	config     config.GenerationConfig
	retry      retryx.Policy
	logger     *errors.Logger
}

// Ensure HuggingFaceProvider implements Provider
var _ Provider = (*HuggingFaceProvider)(nil)

// apiStatusError carries a non-200 inference API response
type apiStatusError struct {
	StatusCode int
	Body       string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("inference API returned status %d: %s", e.StatusCode, e.Body)
}

// NewHuggingFaceProvider creates a provider for the configured model
func NewHuggingFaceProvider(cfg config.GenerationConfig, logger *errors.Logger) *HuggingFaceProvider {
	retry := retryx.NewPolicy(cfg.MaxRetries, logger)
	retry.Retryable = isRetryableError
	retry.WaitFor = func(err error, attempt int) (time.Duration, bool) {
		// A warming-up model announces a longer wait than the
		// regular backoff schedule. The wait grows with each attempt.
		var apiErr *apiStatusError
		if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
			delay := cfg.WarmupDelay
			if delay <= 0 {
				delay = 5 * time.Second
			}
			return delay * time.Duration(attempt), true
		}
		return 0, false
	}

	return &HuggingFaceProvider{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		retry:  retry,
		logger: logger,
	}
}

// GenerateQuestion implements Provider
func (p *HuggingFaceProvider) GenerateQuestion(ctx context.Context, role types.Role, questionNumber int, previousQuestions []string) (string, error) {
	tracer := otel.Tracer("intervue.generate.huggingface")
	ctx, span := tracer.Start(ctx, "huggingface.generate_question")
	defer span.End()

	span.SetAttributes(
		attribute.String("generation.provider", "huggingface"),
		attribute.String("generation.model", p.config.Model),
		attribute.String("role.id", role.ID),
		attribute.Int("question.number", questionNumber),
	)

	if p.config.APIToken == "" {
		err := errors.NewConfigError(errors.ErrCodeMissingAPIToken,
			"Hugging Face API token not configured", nil)
		span.RecordError(err)
		return "", err
	}

	prompt := buildQuestionPrompt(role, questionNumber, previousQuestions)

	generated, err := retryx.DoValue(ctx, p.retry, "generate_question",
		func(ctx context.Context) (string, error) {
			return p.query(ctx, prompt)
		})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", errors.NewGenerationError(errors.ErrCodeGenerationFailed,
			fmt.Sprintf("Failed to generate question %d for %s", questionNumber, role.Title), err)
	}

	question := extractQuestion(generated)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(question)),
	)
	return question, nil
}

// query performs a single inference call and returns the generated text
func (p *HuggingFaceProvider) query(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens": p.config.MaxNewTokens,
			"temperature":    p.config.Temperature,
			"top_p":          p.config.TopP,
			"do_sample":      true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(p.config.Endpoint, "/") + "/" + p.config.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &apiStatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), 200),
		}
	}

	return parseGeneratedText(respBody)
}

// parseGeneratedText handles both response shapes of the inference
// API: a list of generations or a single object.
func parseGeneratedText(body []byte) (string, error) {
	var list []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", nil
		}
		return list[0].GeneratedText, nil
	}

	var single struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &single); err != nil {
		return "", fmt.Errorf("unexpected inference response: %w", err)
	}
	return single.GeneratedText, nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *apiStatusError
	if stderrors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	// Wrapped transport errors (url.Error and similar) are retryable
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "EOF")
}

// buildQuestionPrompt assembles the generation prompt for one question
func buildQuestionPrompt(role types.Role, questionNumber int, previousQuestions []string) string {
	previous := "None"
	if len(previousQuestions) > 0 {
		previous = strings.Join(previousQuestions, "\n")
	}

	return fmt.Sprintf(`Generate 1 interview question for a %s position.

Role Description: %s
Key Skills: %s
Experience Level: %s
Question Number: %d

Previously asked questions:
%s

Generate a unique question that:
- Assesses %s skills
- Is appropriate for question #%d
- Doesn't repeat previous questions
- Encourages detailed responses

Format: Just return the question without "Q:" prefix.
`,
		role.Title,
		role.Description,
		strings.Join(role.KeySkills, ", "),
		role.ExperienceLevel,
		questionNumber,
		previous,
		role.Title,
		questionNumber,
	)
}

// extractQuestion picks a clean question out of generated text. The
// first line containing a question mark and real content wins; failing
// that, the first substantial line gets a question mark appended.
func extractQuestion(generated string) string {
	lines := strings.Split(generated, "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "?") && len(line) > 15 {
			line = strings.TrimSpace(strings.TrimPrefix(line, "Q:"))
			return line
		}
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 15 {
			return line + "?"
		}
	}

	return ""
}

// GetModelInfo checks model availability with a minimal request
func (p *HuggingFaceProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      p.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url := strings.TrimSuffix(p.config.Endpoint, "/") + "/" + p.config.Model
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, url, nil)
	if err != nil {
		modelInfo.Error = err.Error()
		return modelInfo
	}
	if p.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIToken)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to reach model endpoint: %v", err)
		if p.logger != nil {
			p.logger.Warn("Model availability check failed",
				"model", p.config.Model,
				"error", err.Error())
		}
		return modelInfo
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		modelInfo.Available = true
	case http.StatusServiceUnavailable:
		modelInfo.Error = "model is warming up"
	default:
		modelInfo.Error = fmt.Sprintf("model endpoint returned status %d", resp.StatusCode)
	}

	return modelInfo
}

// Close implements Provider
func (p *HuggingFaceProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
