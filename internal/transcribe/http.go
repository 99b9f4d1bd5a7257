package transcribe

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

	"intervue/internal/audio"
	"intervue/internal/config"
	"intervue/internal/errors"
	"intervue/internal/retryx"
)

// HTTPTranscriber sends WAV audio to a speech-to-text HTTP endpoint
// and reads back the transcript.
type HTTPTranscriber struct {
	name       string
	endpoint   string
	apiToken   string
	httpClient *http.Client
	retry      retryx.Policy
	logger     *errors.Logger
}

// Ensure HTTPTranscriber implements Transcriber
var _ Transcriber = (*HTTPTranscriber)(nil)

// apiStatusError carries a non-200 transcription API response
type apiStatusError struct {
	StatusCode int
	Body       string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("transcription API returned status %d: %s", e.StatusCode, e.Body)
}

// NewHTTPTranscriber creates a named backend client
func NewHTTPTranscriber(name, endpoint string, cfg config.TranscriptionConfig, logger *errors.Logger) *HTTPTranscriber {
	retry := retryx.NewPolicy(cfg.MaxRetries, logger)
	retry.Retryable = isRetryableError

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPTranscriber{
		name:     name,
		endpoint: endpoint,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry:  retry,
		logger: logger,
	}
}

// Name implements Transcriber
func (t *HTTPTranscriber) Name() string {
	return t.name
}

// Transcribe implements Transcriber
func (t *HTTPTranscriber) Transcribe(ctx context.Context, clip *audio.Clip) (string, error) {
	tracer := otel.Tracer("intervue.transcribe")
	ctx, span := tracer.Start(ctx, "transcribe."+t.name)
	defer span.End()

	span.SetAttributes(
		attribute.String("transcription.method", t.name),
		attribute.Float64("audio.duration_seconds", clip.DurationSeconds()),
		attribute.Int("audio.sample_rate", clip.SampleRate),
	)

	wav := audio.EncodeWAV(clip)

	text, err := retryx.DoValue(ctx, t.retry, "transcribe_"+t.name,
		func(ctx context.Context) (string, error) {
			return t.post(ctx, wav)
		})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", errors.NewTranscriptionError(errors.ErrCodeTranscribeFailed,
			fmt.Sprintf("Transcription via %s failed", t.name), err)
	}

	if strings.TrimSpace(text) == "" {
		err := errors.NewTranscriptionError(errors.ErrCodeNoSpeechDetected,
			fmt.Sprintf("No speech detected by %s", t.name), nil)
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(text)),
	)
	return text, nil
}

func (t *HTTPTranscriber) post(ctx context.Context, wav []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(wav))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/wav")
	if t.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiToken)
	}

	resp, err := t.httpClient.Do(req)
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

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unexpected transcription response: %w", err)
	}
	return result.Text, nil
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

	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "EOF")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
