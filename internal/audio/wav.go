package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"intervue/internal/errors"
)

// wavHeaderSize is the byte length of the canonical RIFF/fmt/data
// preamble written by EncodeWAV.
const wavHeaderSize = 44

// EncodeWAV writes a clip as a PCM16 mono WAV container.
func EncodeWAV(clip *Clip) []byte {
	dataSize := len(clip.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))

	// RIFF chunk
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk, PCM mono 16-bit
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(clip.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(clip.SampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))                 // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))                // bits per sample

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(buf, binary.LittleEndian, clip.Samples)

	return buf.Bytes()
}

// DecodeWAV parses a PCM16 WAV container and returns its interleaved
// samples, sample rate and channel count. Compressed or non-16-bit
// containers are rejected.
func DecodeWAV(data []byte) ([]int16, int, int, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"not a WAV container", nil)
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		haveFmt       bool
		pcm           []int16
	)

	// Walk the chunk list
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
				fmt.Sprintf("truncated WAV chunk: %s", chunkID), nil)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
					"malformed fmt chunk", nil)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
					fmt.Sprintf("unsupported WAV format code %d, need PCM", audioFormat), nil)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
					"WAV data chunk before fmt chunk", nil)
			}
			if bitsPerSample != 16 {
				return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
					fmt.Sprintf("unsupported WAV bit depth %d, need 16", bitsPerSample), nil)
			}
			sampleCount := chunkSize / 2
			pcm = make([]int16, sampleCount)
			for i := 0; i < sampleCount; i++ {
				pcm[i] = int16(binary.LittleEndian.Uint16(data[body+i*2 : body+i*2+2]))
			}
		}

		// Chunks are word aligned
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	if !haveFmt || pcm == nil {
		return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"WAV container missing fmt or data chunk", nil)
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, 0, 0, errors.NewValidationError(errors.ErrCodeUnsupportedAudio,
			"WAV container has invalid fmt values", nil)
	}

	return pcm, sampleRate, channels, nil
}
