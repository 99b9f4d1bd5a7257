// Package transcribe converts recorded answers to text through
// configurable speech backends with ordered fallback.
package transcribe

import (
	"context"

	"intervue/internal/audio"
)

// PlaceholderTranscript is recorded as the answer when every backend
// fails to produce text. The interview continues regardless.
const PlaceholderTranscript = "Could not understand the audio clearly"

// Transcriber converts a normalized clip to text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, clip *audio.Clip) (string, error)
}
