package transcribe

import (
	"context"

	"intervue/internal/audio"
	"intervue/internal/config"
	"intervue/internal/errors"
)

// Bridge tries transcription backends in configured order. The first
// transcript wins; when every backend fails, the placeholder text is
// returned so the interview never stalls on a bad recording.
type Bridge struct {
	transcribers []Transcriber
	sampleRate   int
	logger       *errors.Logger
}

// Result holds one transcription outcome.
type Result struct {
	Text            string  `json:"text"`
	Method          string  `json:"method"`
	DurationSeconds float64 `json:"duration_seconds"`
	UsedFallback    bool    `json:"used_fallback"`
}

// NewBridge builds the backend chain from configuration. Methods with
// no configured endpoint are skipped with a warning.
func NewBridge(cfg config.TranscriptionConfig, sampleRate int, logger *errors.Logger) (*Bridge, error) {
	if len(cfg.Methods) == 0 {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"no transcription methods configured", nil)
	}

	var transcribers []Transcriber
	for _, method := range cfg.Methods {
		endpoint, ok := cfg.Endpoints[method]
		if !ok || endpoint == "" {
			if logger != nil {
				logger.Warn("Transcription method has no endpoint, skipping",
					"method", method)
			}
			continue
		}
		transcribers = append(transcribers, NewHTTPTranscriber(method, endpoint, cfg, logger))
	}

	return &Bridge{
		transcribers: transcribers,
		sampleRate:   sampleRate,
		logger:       logger,
	}, nil
}

// NewBridgeWithTranscribers builds a bridge from explicit backends.
func NewBridgeWithTranscribers(sampleRate int, logger *errors.Logger, transcribers ...Transcriber) *Bridge {
	return &Bridge{
		transcribers: transcribers,
		sampleRate:   sampleRate,
		logger:       logger,
	}
}

// Methods returns the active backend names in fallback order.
func (b *Bridge) Methods() []string {
	names := make([]string, len(b.transcribers))
	for i, t := range b.transcribers {
		names[i] = t.Name()
	}
	return names
}

// Transcribe normalizes the payload and walks the backend chain.
func (b *Bridge) Transcribe(ctx context.Context, payload audio.Payload) (Result, error) {
	clip, err := audio.Normalize(payload, b.sampleRate)
	if err != nil {
		return Result{}, err
	}
	return b.TranscribeClip(ctx, clip)
}

// TranscribeClip walks the backend chain with an already normalized
// clip.
func (b *Bridge) TranscribeClip(ctx context.Context, clip *audio.Clip) (Result, error) {
	duration := clip.DurationSeconds()

	for _, t := range b.transcribers {
		text, err := t.Transcribe(ctx, clip)
		if err == nil {
			return Result{
				Text:            text,
				Method:          t.Name(),
				DurationSeconds: duration,
			}, nil
		}

		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}

		if b.logger != nil {
			b.logger.Warn("Transcription method failed, trying next",
				"method", t.Name(),
				"error", err.Error())
		}
	}

	// Terminal failure still yields a usable answer
	if b.logger != nil {
		b.logger.Warn("All transcription methods failed, using placeholder",
			"methods", len(b.transcribers),
			"duration_seconds", duration)
	}
	return Result{
		Text:            PlaceholderTranscript,
		Method:          "none",
		DurationSeconds: duration,
		UsedFallback:    true,
	}, nil
}
