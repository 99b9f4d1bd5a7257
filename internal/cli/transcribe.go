package cli

import (
	"fmt"

	"intervue/internal/audio"
	"intervue/internal/common"
	"intervue/internal/transcribe"
	"intervue/internal/utils"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe a recorded answer to text",
	Long: `Transcribe a WAV recording using the configured transcription
backends. Backends are tried in configured order; if all of them fail a
placeholder transcript is produced so the result is always usable.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: preRunOutputFormat(&transcribeConfig),
	RunE:    runTranscribe,
}

var transcribeConfig common.CommandConfig

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	transcribeCmd.Flags().StringVar(&transcribeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	registerFormatCompletion(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	filename := args[0]
	if !utils.IsAudioFile(filename) {
		logger.Warn("File does not have a .wav extension", "filename", filename)
	}

	fileProcessor := common.NewFileProcessor(logger)
	data, err := fileProcessor.ReadBinaryFile(filename)
	if err != nil {
		return err
	}

	bridge, err := transcribe.NewBridge(cfg.Transcription, cfg.Audio.SampleRate, logger)
	if err != nil {
		return err
	}

	payload, err := audio.NewEncodedBytes(data)
	if err != nil {
		return err
	}

	logger.Info("Starting transcription",
		"filename", filename,
		"size", utils.FormatFileSize(int64(len(data))),
		"methods", bridge.Methods())

	result, err := bridge.Transcribe(cmd.Context(), payload)
	if err != nil {
		return fmt.Errorf("failed to transcribe audio: %w", err)
	}

	// Plain formats print just the transcript; json carries the full result
	if transcribeConfig.OutputFormat == "text" || transcribeConfig.OutputFormat == "markdown" {
		if transcribeConfig.OutputFile != "" {
			if err := fileProcessor.WriteFile(transcribeConfig.OutputFile, result.Text+"\n"); err != nil {
				return err
			}
		} else {
			fmt.Println(result.Text)
		}
	} else {
		if err := common.WriteOutput(logger, result, transcribeConfig); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
	}
	logger.Info("Transcription completed successfully",
		"method", result.Method,
		"used_fallback", result.UsedFallback)
	return nil
}
