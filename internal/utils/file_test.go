package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := ValidateInputFile(path); err != nil {
		t.Errorf("valid file rejected: %v", err)
	}
	if err := ValidateInputFile(""); err == nil {
		t.Error("empty filename accepted")
	}
	if err := ValidateInputFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file accepted")
	}
	if err := ValidateInputFile(dir); err == nil {
		t.Error("directory accepted as input file")
	}
}

func TestValidateOutputFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := ValidateOutputFile(path); err != nil {
		t.Fatalf("ValidateOutputFile: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestFileTypeChecks(t *testing.T) {
	if !IsTextFile("notes.MD") {
		t.Error("uppercase markdown extension rejected")
	}
	if IsTextFile("clip.wav") {
		t.Error("wav treated as text")
	}
	if !IsAudioFile("clip.WAV") {
		t.Error("uppercase wav extension rejected")
	}
	if IsAudioFile("clip.mp3") {
		t.Error("mp3 accepted as audio input")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.size); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
