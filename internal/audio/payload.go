// Package audio normalizes recorded answers into the mono 16 kHz PCM
// form the transcription backends expect.
package audio

import (
	"intervue/internal/errors"
)

// PayloadKind discriminates the two accepted recording inputs.
type PayloadKind int

const (
	// PayloadRawSamples is uncompressed interleaved sample data as
	// delivered by a capture pipeline.
	PayloadRawSamples PayloadKind = iota
	// PayloadEncodedBytes is a WAV container.
	PayloadEncodedBytes
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadRawSamples:
		return "raw_samples"
	case PayloadEncodedBytes:
		return "encoded_bytes"
	default:
		return "unknown"
	}
}

// Payload is a tagged recording input. Exactly one representation is
// populated, fixed at construction.
type Payload struct {
	kind PayloadKind

	samples    []float64
	sampleRate int
	channels   int

	encoded []byte
}

// NewRawSamples builds a payload from interleaved samples in the
// range [-1, 1].
func NewRawSamples(samples []float64, sampleRate, channels int) (Payload, error) {
	if len(samples) == 0 {
		return Payload{}, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"raw payload has no samples", nil)
	}
	if sampleRate <= 0 {
		return Payload{}, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"raw payload needs a positive sample rate", nil)
	}
	if channels <= 0 {
		return Payload{}, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"raw payload needs at least one channel", nil)
	}
	if len(samples)%channels != 0 {
		return Payload{}, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"raw payload sample count is not a multiple of the channel count", nil)
	}

	return Payload{
		kind:       PayloadRawSamples,
		samples:    samples,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// NewEncodedBytes builds a payload from an encoded audio container.
func NewEncodedBytes(data []byte) (Payload, error) {
	if len(data) == 0 {
		return Payload{}, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"encoded payload is empty", nil)
	}
	return Payload{
		kind:    PayloadEncodedBytes,
		encoded: data,
	}, nil
}

// Kind returns the payload's representation tag.
func (p Payload) Kind() PayloadKind {
	return p.kind
}
