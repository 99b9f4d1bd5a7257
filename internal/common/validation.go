package common

import (
	"fmt"
	"strings"
)

// ValidateOutputFormat validates format against configured supported
// formats. Matching is case-insensitive; an empty supported list
// means no restrictions.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	for _, supported := range supportedFormats {
		if strings.EqualFold(format, supported) {
			return nil
		}
	}

	return fmt.Errorf("unsupported output format %q, supported formats: %s",
		format, strings.Join(supportedFormats, ", "))
}

// GetSupportedFormats returns the list of supported formats
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
