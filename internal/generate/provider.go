package generate

import (
	"context"

	"intervue/internal/types"
)

// Provider interface for question generation backends
type Provider interface {
	// GenerateQuestion produces one interview question for the role.
	// previousQuestions lets the backend avoid repeating itself.
	GenerateQuestion(ctx context.Context, role types.Role, questionNumber int, previousQuestions []string) (string, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the generation model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
