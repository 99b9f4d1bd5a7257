package audio

import (
	"math"

	"intervue/internal/errors"
)

// Clip is normalized audio: mono PCM16 at a single sample rate.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// DurationSeconds returns the clip length in seconds.
func (c *Clip) DurationSeconds() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Quality classifies a clip for user feedback: too short, too quiet,
// suspiciously long, or good.
type Quality struct {
	Level  string `json:"level"`
	Reason string `json:"reason,omitempty"`
}

// lowPeak is roughly 1% of full scale, under which speech is unusable
const lowPeak = 328

// Quality inspects the clip.
func (c *Clip) Quality() Quality {
	duration := c.DurationSeconds()

	peak := 0
	for _, s := range c.Samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}

	switch {
	case duration < 1:
		return Quality{Level: "poor", Reason: "Recording too short (less than 1 second)"}
	case peak < lowPeak:
		return Quality{Level: "poor", Reason: "Audio level very low, please speak louder"}
	case duration > 300:
		return Quality{Level: "warning", Reason: "Very long recording (over 5 minutes)"}
	default:
		return Quality{Level: "good"}
	}
}

// Normalize converts a payload to a mono clip at targetRate. Raw
// samples are downmixed, peak-normalized and resampled; encoded bytes
// are decoded from WAV first.
func Normalize(p Payload, targetRate int) (*Clip, error) {
	if targetRate <= 0 {
		return nil, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"target sample rate must be positive", nil)
	}

	switch p.kind {
	case PayloadRawSamples:
		mono := downmix(p.samples, p.channels)
		pcm := quantize(normalizePeak(mono))
		return &Clip{
			Samples:    resample(pcm, p.sampleRate, targetRate),
			SampleRate: targetRate,
		}, nil

	case PayloadEncodedBytes:
		samples, sampleRate, channels, err := DecodeWAV(p.encoded)
		if err != nil {
			return nil, err
		}
		mono := downmixPCM(samples, channels)
		return &Clip{
			Samples:    resample(mono, sampleRate, targetRate),
			SampleRate: targetRate,
		}, nil

	default:
		return nil, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"unknown payload kind", nil)
	}
}

// downmix averages interleaved channels into mono.
func downmix(samples []float64, channels int) []float64 {
	if channels == 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += samples[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

func downmixPCM(samples []int16, channels int) []int16 {
	if channels == 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]int16, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += int(samples[i*channels+ch])
		}
		mono[i] = int16(sum / channels)
	}
	return mono
}

// normalizePeak scales the signal so its peak sits at full scale.
// Silence passes through unchanged.
func normalizePeak(samples []float64) []float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return samples
	}

	scaled := make([]float64, len(samples))
	for i, s := range samples {
		scaled[i] = s / peak
	}
	return scaled
}

// quantize converts [-1, 1] samples to PCM16.
func quantize(samples []float64) []int16 {
	pcm := make([]int16, len(samples))
	for i, s := range samples {
		v := s * 32767
		switch {
		case v > 32767:
			v = 32767
		case v < -32768:
			v = -32768
		}
		pcm[i] = int16(v)
	}
	return pcm
}

// resample converts between sample rates with linear interpolation.
// Good enough for speech fed to a recognizer.
func resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(math.Round(float64(len(samples)) / ratio))
	if outLen == 0 {
		outLen = 1
	}

	out := make([]int16, outLen)
	for i := range out {
		pos := float64(i) * ratio
		left := int(pos)
		if left >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(left)
		a := float64(samples[left])
		b := float64(samples[left+1])
		out[i] = int16(a + (b-a)*frac)
	}
	return out
}
