package common

import (
	"fmt"
	"os"
	"strings"

	"intervue/internal/errors"
	"intervue/internal/formatters"
)

// CommandConfig carries the output options shared by the CLI commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// WriteOutput renders data in the requested format and delivers it to
// the configured destination, stdout when no output file is given.
// An empty format means JSON.
func WriteOutput(logger *errors.Logger, data any, config CommandConfig) error {
	fp := NewFileProcessor(logger)
	if err := fp.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	format := strings.ToLower(config.OutputFormat)
	if format == "" {
		format = "json"
	}
	rendered, err := formatters.GlobalRegistry.Format(data, format)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", format), err)
	}

	if config.OutputFile == "" {
		fmt.Fprint(os.Stdout, rendered)
		return nil
	}

	if err := fp.WriteFile(config.OutputFile, rendered); err != nil {
		return err
	}
	logger.Info("Output written",
		"file", config.OutputFile, "format", format)
	return nil
}
