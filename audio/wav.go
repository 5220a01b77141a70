package audio

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
)

const wavHeaderSize = 44

// EncodeWAV converts interleaved float samples to a 16-bit PCM WAV file.
func EncodeWAV(samples []float32, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	data := make([]byte, wavHeaderSize+dataSize)
	writeWavHeader(data, dataSize, sampleRate, channels)

	for i, s := range samples {
		v := int16(math.Round(float64(clampSample(s)) * 32767))
		writeUint16LE(data, wavHeaderSize+i*2, uint16(v))
	}
	return data
}

// WriteWAV encodes samples and writes them to w.
func WriteWAV(w io.Writer, samples []float32, sampleRate, channels int) error {
	if channels <= 0 || sampleRate <= 0 {
		return fmt.Errorf("invalid wav format: %d Hz, %d channels", sampleRate, channels)
	}
	if _, err := w.Write(EncodeWAV(samples, sampleRate, channels)); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	return nil
}

// WAVDataURL returns samples as a base64 data URL a browser can play.
func WAVDataURL(samples []float32, sampleRate, channels int) string {
	encoded := base64.StdEncoding.EncodeToString(EncodeWAV(samples, sampleRate, channels))
	return "data:audio/wav;base64," + encoded
}

func clampSample(s float32) float32 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}

// writeWavHeader writes a 16-bit PCM WAV header to the buffer.
func writeWavHeader(data []byte, dataSize, sampleRate, channels int) {
	blockAlign := channels * 2

	// RIFF header
	copy(data[0:], "RIFF")
	writeUint32LE(data, 4, uint32(dataSize+36))
	copy(data[8:], "WAVE")

	// fmt sub-chunk
	copy(data[12:], "fmt ")
	writeUint32LE(data, 16, 16)                            // Sub-chunk size
	writeUint16LE(data, 20, 1)                             // Audio format (PCM)
	writeUint16LE(data, 22, uint16(channels))              // Channels
	writeUint32LE(data, 24, uint32(sampleRate))            // Sample rate
	writeUint32LE(data, 28, uint32(sampleRate*blockAlign)) // Byte rate
	writeUint16LE(data, 32, uint16(blockAlign))            // Block align
	writeUint16LE(data, 34, 16)                            // Bits per sample

	// data sub-chunk
	copy(data[36:], "data")
	writeUint32LE(data, 40, uint32(dataSize))
}

func writeUint16LE(data []byte, offset int, value uint16) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
}

func writeUint32LE(data []byte, offset int, value uint32) {
	data[offset] = byte(value)
	data[offset+1] = byte(value >> 8)
	data[offset+2] = byte(value >> 16)
	data[offset+3] = byte(value >> 24)
}
