package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions accepted as plain-text command input.
var textExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
	".json":     true,
}

// ValidateInputFile ensures filename names an existing, readable
// regular file.
func ValidateInputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filename)
		}
		return fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("cannot access file %s: %w", filename, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filename)
	}
	return nil
}

// ValidateOutputFile checks the output destination, creating missing
// parent directories. An empty filename means stdout and is always valid.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetFileExtension returns the file extension in lowercase.
func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsTextFile reports whether the file has a text-based extension.
func IsTextFile(filename string) bool {
	return textExtensions[GetFileExtension(filename)]
}

// IsAudioFile reports whether the file has a supported audio extension.
// Only WAV input is accepted for transcription.
func IsAudioFile(filename string) bool {
	return GetFileExtension(filename) == ".wav"
}

// FormatFileSize renders a byte count as a human-readable size.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	suffixes := "KMGTPE"
	i := 0
	for value >= unit*unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %cB", value/unit, suffixes[i])
}
