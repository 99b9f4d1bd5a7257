package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"intervue/internal/config"
	apperrors "intervue/internal/errors"
	"intervue/internal/types"
)

// stubProvider returns canned questions or a fixed error
type stubProvider struct {
	question string
	err      error
	calls    int
}

func (s *stubProvider) GenerateQuestion(ctx context.Context, role types.Role, questionNumber int, previousQuestions []string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.question != "" {
		return s.question, nil
	}
	return fmt.Sprintf("Generated question %d for %s?", questionNumber, role.Title), nil
}

func (s *stubProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: s.err == nil}
}

func (s *stubProvider) Close() error { return nil }

func newTestService(provider Provider) *Service {
	return &Service{
		Provider: provider,
		fallback: NewFallbackBank(),
		breaker:  nil, // disabled
		config:   config.GenerationConfig{Provider: "huggingface", Model: "test-model"},
		logger:   apperrors.NewLogger(slog.LevelError),
	}
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	cfg := config.GenerationConfig{Provider: "openai"}
	_, err := NewService(cfg, apperrors.NewLogger(slog.LevelError))
	if err == nil {
		t.Fatal("NewService() expected error for unknown provider")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.ErrCodeInvalidConfig)
	}
}

func TestGenerateQuestionUsesProvider(t *testing.T) {
	svc := newTestService(&stubProvider{question: "How do you structure Go projects for growth?"})

	question, usedFallback := svc.GenerateQuestion(context.Background(), testRole(), 1, nil)
	if usedFallback {
		t.Error("usedFallback = true, want false")
	}
	if question != "How do you structure Go projects for growth?" {
		t.Errorf("question = %q", question)
	}
}

func TestGenerateQuestionFallsBackOnError(t *testing.T) {
	svc := newTestService(&stubProvider{err: errors.New("backend down")})
	role := testRole()

	question, usedFallback := svc.GenerateQuestion(context.Background(), role, 1, nil)
	if !usedFallback {
		t.Error("usedFallback = false, want true")
	}
	if question != NewFallbackBank().Question(role, 1) {
		t.Errorf("question = %q, want fallback bank question 1", question)
	}
}

func TestGenerateQuestionFallsBackOnShortOutput(t *testing.T) {
	svc := newTestService(&stubProvider{question: "ok?"})
	role := testRole()

	question, usedFallback := svc.GenerateQuestion(context.Background(), role, 2, nil)
	if !usedFallback {
		t.Error("usedFallback = false, want true")
	}
	if question != NewFallbackBank().Question(role, 2) {
		t.Errorf("question = %q, want fallback bank question 2", question)
	}
}

func TestGenerateInterviewContent(t *testing.T) {
	provider := &stubProvider{}
	svc := newTestService(provider)
	role := testRole()

	content := svc.GenerateInterviewContent(context.Background(), role, 5)
	introduction, questions := content.Introduction, content.Questions

	if content.FallbackCount != 0 {
		t.Errorf("fallback count = %d, want 0", content.FallbackCount)
	}
	if !strings.Contains(introduction, "Backend Developer") {
		t.Error("introduction should mention the role title")
	}
	if !strings.Contains(introduction, "5 questions") {
		t.Error("introduction should mention the question count")
	}

	if len(questions) != 5 {
		t.Fatalf("len(questions) = %d, want 5", len(questions))
	}
	for i, q := range questions {
		if !strings.Contains(q, "?") {
			t.Errorf("questions[%d] = %q, want a question mark", i, q)
		}
	}
	if provider.calls != 5 {
		t.Errorf("provider calls = %d, want 5", provider.calls)
	}
}

func TestGenerateInterviewContentAllFallback(t *testing.T) {
	svc := newTestService(&stubProvider{err: errors.New("backend down")})
	role := testRole()

	content := svc.GenerateInterviewContent(context.Background(), role, 7)
	questions := content.Questions
	if content.FallbackCount != 7 {
		t.Errorf("fallback count = %d, want 7", content.FallbackCount)
	}
	if len(questions) != 7 {
		t.Fatalf("len(questions) = %d, want 7", len(questions))
	}

	// Positional fallback keeps questions distinct within the bank
	seen := make(map[string]bool)
	for _, q := range questions {
		if seen[q] {
			t.Errorf("duplicate fallback question: %q", q)
		}
		seen[q] = true
	}
}

func TestServiceHealthWithDisabledBreaker(t *testing.T) {
	svc := newTestService(&stubProvider{})

	if !svc.IsHealthy() {
		t.Error("IsHealthy() = false with disabled breaker, want true")
	}

	stats := svc.GetCircuitBreakerStats()
	if enabled, ok := stats["enabled"].(bool); !ok || enabled {
		t.Errorf("stats enabled = %v, want false", stats["enabled"])
	}
}
