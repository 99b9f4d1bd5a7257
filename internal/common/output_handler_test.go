package common

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	apperrors "intervue/internal/errors"
)

func TestWriteOutputToFile(t *testing.T) {
	logger := apperrors.NewLogger(slog.LevelError)
	path := filepath.Join(t.TempDir(), "out.json")

	data := map[string]string{"role": "Backend Developer"}
	// Uppercase format names are accepted by validation and must render too.
	if err := WriteOutput(logger, data, CommandConfig{OutputFile: path, OutputFormat: "JSON"}); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if got["role"] != "Backend Developer" {
		t.Errorf("role = %q, want Backend Developer", got["role"])
	}
}

func TestWriteOutputUnknownFormat(t *testing.T) {
	logger := apperrors.NewLogger(slog.LevelError)

	err := WriteOutput(logger, map[string]string{}, CommandConfig{OutputFormat: "yaml"})
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidFormat {
		t.Fatalf("error = %v, want code %s", err, apperrors.ErrCodeInvalidFormat)
	}
}
