package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"intervue/internal/audio"
	"intervue/internal/config"
	apperrors "intervue/internal/errors"
)

func testClip() *audio.Clip {
	return &audio.Clip{
		Samples:    make([]int16, 16000),
		SampleRate: 16000,
	}
}

func testTranscriptionConfig() config.TranscriptionConfig {
	return config.TranscriptionConfig{
		Methods:    []string{"google", "sphinx"},
		APIToken:   "test-token",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	}
}

func newFastTranscriber(name, endpoint string) *HTTPTranscriber {
	t := NewHTTPTranscriber(name, endpoint, testTranscriptionConfig(), nil)
	t.retry.InitialInterval = time.Millisecond
	t.retry.MaxInterval = 5 * time.Millisecond
	return t
}

func TestHTTPTranscriberSuccess(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"text": "I have five years of Go experience"}`))
	}))
	defer server.Close()

	tr := newFastTranscriber("google", server.URL)
	text, err := tr.Transcribe(context.Background(), testClip())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "I have five years of Go experience" {
		t.Errorf("Transcribe() = %q", text)
	}
	if gotContentType != "audio/wav" {
		t.Errorf("Content-Type = %q, want audio/wav", gotContentType)
	}
}

func TestHTTPTranscriberEmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "  "}`))
	}))
	defer server.Close()

	tr := newFastTranscriber("google", server.URL)
	_, err := tr.Transcribe(context.Background(), testClip())
	if err == nil {
		t.Fatal("Transcribe() expected error for empty text")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeNoSpeechDetected {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.ErrCodeNoSpeechDetected)
	}
}

func TestHTTPTranscriberRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"text": "retried fine"}`))
	}))
	defer server.Close()

	tr := newFastTranscriber("google", server.URL)
	text, err := tr.Transcribe(context.Background(), testClip())
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "retried fine" {
		t.Errorf("Transcribe() = %q", text)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

// stubTranscriber for bridge ordering tests
type stubTranscriber struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Name() string { return s.name }

func (s *stubTranscriber) Transcribe(ctx context.Context, clip *audio.Clip) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func TestBridgeFirstMethodWins(t *testing.T) {
	first := &stubTranscriber{name: "google", text: "primary transcript"}
	second := &stubTranscriber{name: "sphinx", text: "secondary transcript"}
	bridge := NewBridgeWithTranscribers(16000, nil, first, second)

	result, err := bridge.TranscribeClip(context.Background(), testClip())
	if err != nil {
		t.Fatalf("TranscribeClip() error = %v", err)
	}

	if result.Text != "primary transcript" {
		t.Errorf("Text = %q, want primary transcript", result.Text)
	}
	if result.Method != "google" {
		t.Errorf("Method = %q, want google", result.Method)
	}
	if second.calls != 0 {
		t.Errorf("second backend called %d times, want 0", second.calls)
	}
}

func TestBridgeFallsThroughInOrder(t *testing.T) {
	first := &stubTranscriber{name: "google", err: errors.New("quota exceeded")}
	second := &stubTranscriber{name: "sphinx", text: "offline transcript"}
	bridge := NewBridgeWithTranscribers(16000, nil, first, second)

	result, err := bridge.TranscribeClip(context.Background(), testClip())
	if err != nil {
		t.Fatalf("TranscribeClip() error = %v", err)
	}

	if result.Text != "offline transcript" {
		t.Errorf("Text = %q, want offline transcript", result.Text)
	}
	if result.Method != "sphinx" {
		t.Errorf("Method = %q, want sphinx", result.Method)
	}
	if first.calls != 1 {
		t.Errorf("first backend calls = %d, want 1", first.calls)
	}
}

func TestBridgePlaceholderOnTotalFailure(t *testing.T) {
	first := &stubTranscriber{name: "google", err: errors.New("down")}
	second := &stubTranscriber{name: "sphinx", err: errors.New("also down")}
	bridge := NewBridgeWithTranscribers(16000, nil, first, second)

	result, err := bridge.TranscribeClip(context.Background(), testClip())
	if err != nil {
		t.Fatalf("TranscribeClip() error = %v", err)
	}

	if result.Text != PlaceholderTranscript {
		t.Errorf("Text = %q, want placeholder", result.Text)
	}
	if !result.UsedFallback {
		t.Error("UsedFallback = false, want true")
	}
	if result.Method != "none" {
		t.Errorf("Method = %q, want none", result.Method)
	}
}

func TestBridgeNormalizesPayload(t *testing.T) {
	backend := &stubTranscriber{name: "google", text: "normalized fine"}
	bridge := NewBridgeWithTranscribers(16000, nil, backend)

	samples := make([]float64, 48000)
	for i := range samples {
		samples[i] = 0.5
	}
	payload, err := audio.NewRawSamples(samples, 48000, 1)
	if err != nil {
		t.Fatal(err)
	}

	result, err := bridge.Transcribe(context.Background(), payload)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Text != "normalized fine" {
		t.Errorf("Text = %q", result.Text)
	}
	// One second of audio regardless of source rate
	if result.DurationSeconds < 0.99 || result.DurationSeconds > 1.01 {
		t.Errorf("DurationSeconds = %v, want ~1.0", result.DurationSeconds)
	}
}

func TestNewBridgeSkipsMethodsWithoutEndpoints(t *testing.T) {
	cfg := testTranscriptionConfig()
	cfg.Endpoints = map[string]string{
		"sphinx": "http://localhost:9999/transcribe",
	}

	bridge, err := NewBridge(cfg, 16000, nil)
	if err != nil {
		t.Fatalf("NewBridge() error = %v", err)
	}

	methods := bridge.Methods()
	if len(methods) != 1 || methods[0] != "sphinx" {
		t.Errorf("Methods() = %v, want [sphinx]", methods)
	}
}

func TestNewBridgeRequiresMethods(t *testing.T) {
	cfg := testTranscriptionConfig()
	cfg.Methods = nil

	_, err := NewBridge(cfg, 16000, nil)
	if err == nil {
		t.Fatal("NewBridge() expected error for empty methods")
	}
}
