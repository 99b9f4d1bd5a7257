package audio

import (
	"math"
	"testing"

	apperrors "intervue/internal/errors"
)

func wantAudioErr(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeUnsupportedAudio {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.ErrCodeUnsupportedAudio)
	}
}

// sine produces n samples of a unit sine wave at the given frequency
func sine(n, rate int, freq float64) []float64 {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
	}
	return samples
}

func TestNewRawSamplesValidation(t *testing.T) {
	tests := []struct {
		name       string
		samples    []float64
		sampleRate int
		channels   int
	}{
		{"empty samples", nil, 16000, 1},
		{"zero rate", []float64{0.1}, 0, 1},
		{"zero channels", []float64{0.1}, 16000, 0},
		{"ragged interleave", []float64{0.1, 0.2, 0.3}, 16000, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRawSamples(tt.samples, tt.sampleRate, tt.channels)
			wantAudioErr(t, err)
		})
	}
}

func TestNormalizeRawMono(t *testing.T) {
	samples := sine(48000, 48000, 440) // one second at 48 kHz
	p, err := NewRawSamples(samples, 48000, 1)
	if err != nil {
		t.Fatal(err)
	}

	clip, err := Normalize(p, 16000)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if clip.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", clip.SampleRate)
	}
	if got := clip.DurationSeconds(); math.Abs(got-1.0) > 0.01 {
		t.Errorf("DurationSeconds() = %v, want ~1.0", got)
	}
}

func TestNormalizeDownmixesStereo(t *testing.T) {
	// Stereo signal with opposite channels cancels to silence
	frames := 16000
	samples := make([]float64, frames*2)
	for i := 0; i < frames; i++ {
		samples[i*2] = 0.5
		samples[i*2+1] = -0.5
	}

	p, err := NewRawSamples(samples, 16000, 2)
	if err != nil {
		t.Fatal(err)
	}

	clip, err := Normalize(p, 16000)
	if err != nil {
		t.Fatal(err)
	}

	if len(clip.Samples) != frames {
		t.Errorf("len(Samples) = %d, want %d frames after downmix", len(clip.Samples), frames)
	}
	for i, s := range clip.Samples {
		if s != 0 {
			t.Fatalf("Samples[%d] = %d, want 0 after cancelling downmix", i, s)
		}
	}
}

func TestNormalizeScalesPeak(t *testing.T) {
	// A quiet signal is scaled so its peak reaches full scale
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.01 * math.Sin(2*math.Pi*float64(i)/100)
	}

	p, err := NewRawSamples(samples, 16000, 1)
	if err != nil {
		t.Fatal(err)
	}

	clip, err := Normalize(p, 16000)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0
	for _, s := range clip.Samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak < 32000 {
		t.Errorf("peak = %d, want near full scale after normalization", peak)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	original := &Clip{
		Samples:    []int16{0, 1000, -1000, 32767, -32768, 42},
		SampleRate: 16000,
	}

	encoded := EncodeWAV(original)
	samples, rate, channels, err := DecodeWAV(encoded)
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}

	if rate != 16000 {
		t.Errorf("rate = %d, want 16000", rate)
	}
	if channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
	if len(samples) != len(original.Samples) {
		t.Fatalf("len(samples) = %d, want %d", len(samples), len(original.Samples))
	}
	for i, s := range samples {
		if s != original.Samples[i] {
			t.Errorf("samples[%d] = %d, want %d", i, s, original.Samples[i])
		}
	}
}

func TestNormalizeEncodedWAV(t *testing.T) {
	// Build a 44.1 kHz WAV and normalize it down to 16 kHz
	source := &Clip{
		Samples:    quantize(sine(44100, 44100, 440)),
		SampleRate: 44100,
	}

	p, err := NewEncodedBytes(EncodeWAV(source))
	if err != nil {
		t.Fatal(err)
	}
	if p.Kind() != PayloadEncodedBytes {
		t.Errorf("Kind() = %v, want encoded_bytes", p.Kind())
	}

	clip, err := Normalize(p, 16000)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if clip.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", clip.SampleRate)
	}
	if got := clip.DurationSeconds(); math.Abs(got-1.0) > 0.01 {
		t.Errorf("DurationSeconds() = %v, want ~1.0", got)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty prefix", []byte("hello")},
		{"wrong magic", []byte("RIFFxxxxMP3 ")},
		{"header only", []byte("RIFF\x00\x00\x00\x00WAVE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := DecodeWAV(tt.data)
			wantAudioErr(t, err)
		})
	}
}

func TestQuality(t *testing.T) {
	tests := []struct {
		name      string
		clip      *Clip
		wantLevel string
	}{
		{
			name:      "too short",
			clip:      &Clip{Samples: make([]int16, 8000), SampleRate: 16000},
			wantLevel: "poor",
		},
		{
			name:      "too quiet",
			clip:      &Clip{Samples: make([]int16, 32000), SampleRate: 16000},
			wantLevel: "poor",
		},
		{
			name: "good speech",
			clip: &Clip{
				Samples:    quantize(sine(32000, 16000, 200)),
				SampleRate: 16000,
			},
			wantLevel: "good",
		},
		{
			name: "very long",
			clip: &Clip{
				Samples:    quantize(sine(16000*301, 16000, 200)),
				SampleRate: 16000,
			},
			wantLevel: "warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clip.Quality(); got.Level != tt.wantLevel {
				t.Errorf("Quality().Level = %q, want %q (%s)", got.Level, tt.wantLevel, got.Reason)
			}
		})
	}
}
